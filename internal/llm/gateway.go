package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/repo"
)

// ConfigStore loads ServiceConfig rows.
type ConfigStore interface {
	GetServiceConfig(ctx context.Context, id, userID string) (*domain.ServiceConfig, error)
	GetActiveServiceConfig(ctx context.Context, userID string) (*domain.ServiceConfig, error)
}

// KeyDecrypter reverses at-rest API key encryption. *secrets.Cipher
// satisfies it.
type KeyDecrypter interface {
	Decrypt(ciphertext, iv string) (string, error)
}

// GormStore is the ConfigStore backed by the ai_service_settings table.
type GormStore struct {
	DB *gorm.DB
}

func (s GormStore) GetServiceConfig(ctx context.Context, id, userID string) (*domain.ServiceConfig, error) {
	return repo.GetServiceConfig(ctx, s.DB, id, userID)
}

func (s GormStore) GetActiveServiceConfig(ctx context.Context, userID string) (*domain.ServiceConfig, error) {
	return repo.GetActiveServiceConfig(ctx, s.DB, userID)
}

// ErrNoActiveService is returned by CompleteActive when the user has not
// activated any provider.
var ErrNoActiveService = errors.New("no active ai service configured")

// Gateway resolves a user's ServiceConfig, decrypts its key and forwards the
// conversation to the matching adapter.
type Gateway struct {
	Store     ConfigStore
	Keys      KeyDecrypter
	Factories map[string]Factory
	// Timeout bounds one provider call; 0 leaves the caller's deadline alone.
	Timeout time.Duration
}

// NewGateway wires a Gateway with the default adapters.
func NewGateway(store ConfigStore, keys KeyDecrypter, timeout time.Duration) *Gateway {
	return &Gateway{Store: store, Keys: keys, Factories: DefaultFactories(nil), Timeout: timeout}
}

// Complete sends msgs through the config identified by configID.
func (g *Gateway) Complete(ctx context.Context, userID, configID string, msgs []Message) (string, error) {
	cfg, err := g.Store.GetServiceConfig(ctx, configID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", &ConfigError{Reason: "service config not found", Err: err}
		}
		return "", err
	}
	return g.complete(ctx, cfg, msgs)
}

// CompleteActive sends msgs through the user's active config.
func (g *Gateway) CompleteActive(ctx context.Context, userID string, msgs []Message) (string, error) {
	cfg, err := g.Store.GetActiveServiceConfig(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNoActiveService
		}
		return "", err
	}
	return g.complete(ctx, cfg, msgs)
}

func (g *Gateway) complete(ctx context.Context, cfg *domain.ServiceConfig, msgs []Message) (content string, err error) {
	ctx, span := otel.Tracer("llm/Gateway").Start(ctx, "Complete",
		trace.WithAttributes(
			attribute.String("llm.service_type", cfg.ServiceType),
			attribute.String("llm.model", cfg.ModelName),
		),
	)
	defer span.End()

	start := time.Now()
	outcome := "ok"
	defer func() {
		llmReqs.WithLabelValues(cfg.ServiceType, outcome).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
	}()

	adapter, err := g.adapterFor(cfg)
	if err != nil {
		outcome = "config_error"
		log.Warn().Str("service_type", cfg.ServiceType).Err(err).Msg("llm config unusable")
		return "", err
	}

	system, rest := splitSystem(msgs)
	if extra := strings.TrimSpace(cfg.SystemPrompt); extra != "" {
		if system == "" {
			system = extra
		} else {
			system += "\n\n" + extra
		}
	}
	req := Request{System: system, Messages: rest}
	if req.HasImage() && !adapter.SupportsImages() {
		outcome = "unsupported"
		return "", &UnsupportedCapabilityError{Provider: adapter.Name(), Capability: "image"}
	}

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	content, err = adapter.Complete(ctx, req)
	llmLat.WithLabelValues(cfg.ServiceType).Observe(time.Since(start).Seconds())
	if err != nil {
		outcome = "provider_error"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			outcome = "timeout"
		}
		log.Warn().Str("service_type", cfg.ServiceType).Err(err).Msg("llm call failed")
		return "", err
	}
	return content, nil
}

func (g *Gateway) adapterFor(cfg *domain.ServiceConfig) (ProviderAdapter, error) {
	factory, ok := g.Factories[cfg.ServiceType]
	if !ok {
		return nil, &ConfigError{Reason: "unknown service_type " + cfg.ServiceType}
	}
	var key string
	if cfg.HasAPIKey() {
		k, err := g.Keys.Decrypt(cfg.EncryptedAPIKey, cfg.APIKeyIV)
		if err != nil {
			return nil, err
		}
		key = k
	} else if cfg.ServiceType != domain.ServiceOllama && cfg.ServiceType != domain.ServiceCustom {
		return nil, &ConfigError{Reason: "api key missing for " + cfg.ServiceType}
	}
	return factory(cfg, key)
}
