// Package middleware contains the Gin middleware shared by the Sparky API.
//
// This file implements idempotency support for chat turns. The client names
// each turn with an Idempotency-Key header or a transactionId form field; the
// middleware validates the key, stashes it, and asks the ledger whether a
// stored response already exists so the rate limiter lets the replay
// through. The handler fetches and serves the stored response itself.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set to "true" on responses served from the
// ledger.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 128, the
	// width of the ledger's key column.
	MaxLen int
	// Pattern restricts allowed characters. Nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// Scope is passed to the lookup so keys of different endpoints never
	// collide.
	Scope string
	// FormField, when set, is read as the key if the header is absent.
	FormField string
}

// IdempotencyLookup reports whether a still-valid stored response exists for
// (userID, scope, key) at now. TTL is enforced by the implementation. Lookup
// errors never block the request.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error)

// IdempotencyValidator validates and stashes the key, then lets replays
// bypass the rate limiter.
//
//   - no key: no-op;
//   - invalid key: 400 with code "bad_idempotency_key";
//   - stored response found: the rate-bypass flag is set.
//
// It must run after Auth, since keys are scoped per user.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 128
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if key == "" && opts.FormField != "" && c.Request.Method == http.MethodPost {
			key = strings.TrimSpace(c.PostForm(opts.FormField))
		}
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_idempotency_key",
				"message":    "invalid idempotency key",
			})
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			if exists, err := lookup(c.Request.Context(), UserID(c), opts.Scope, key, time.Now().UTC()); err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			} else if exists {
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
