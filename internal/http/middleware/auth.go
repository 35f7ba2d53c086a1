package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ctxKeyUserID holds the authenticated user id.
	ctxKeyUserID = "userID"
	// HeaderUserID carries the caller identity when JWT verification is off.
	HeaderUserID = "X-User-ID"
)

// AuthOptions configures Auth.
//
// With a Secret, requests must present "Authorization: Bearer <jwt>" signed
// with HS256; the token subject becomes the user id. Without one, the
// identity is taken from the X-User-ID header, then a userId query or form
// value. That mode is meant for local development and trusted gateways.
type AuthOptions struct {
	Secret string
}

var errNoSubject = errors.New("token has no subject")

// Auth resolves the caller identity and stores it under "userID". Requests
// without an identity are rejected with 401.
func Auth(opts AuthOptions) gin.HandlerFunc {
	secret := []byte(opts.Secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		var uid string
		if len(secret) > 0 {
			raw, ok := bearerToken(c.GetHeader("Authorization"))
			if !ok {
				unauthorized(c, "missing bearer token")
				return
			}
			sub, err := subjectOf(parser, raw, secret)
			if err != nil {
				unauthorized(c, "invalid token")
				return
			}
			uid = sub
		} else {
			uid = strings.TrimSpace(c.GetHeader(HeaderUserID))
			if uid == "" {
				uid = strings.TrimSpace(c.Query("userId"))
			}
			if uid == "" && c.Request.Method != http.MethodGet {
				uid = strings.TrimSpace(c.PostForm("userId"))
			}
			if uid == "" {
				unauthorized(c, "missing user identity")
				return
			}
		}
		c.Set(ctxKeyUserID, uid)
		c.Next()
	}
}

// UserID returns the identity stored by Auth, or "" when none is present.
func UserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

func subjectOf(p *jwt.Parser, raw string, secret []byte) (string, error) {
	tok, err := p.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(sub) == "" {
		return "", errNoSubject
	}
	return sub, nil
}

func bearerToken(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
