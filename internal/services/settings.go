package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/repo"
)

// KeyEncrypter seals API keys for storage. *secrets.Cipher satisfies it.
type KeyEncrypter interface {
	Encrypt(plain string) (ciphertext, iv string, err error)
}

// ServiceConfigInput creates or updates a ServiceConfig. On update nil
// fields are left unchanged and an empty APIKey clears the stored key.
type ServiceConfigInput struct {
	ServiceName  *string `json:"service_name"`
	ServiceType  *string `json:"service_type"`
	APIKey       *string `json:"api_key"`
	CustomURL    *string `json:"custom_url"`
	ModelName    *string `json:"model_name"`
	SystemPrompt *string `json:"system_prompt"`
	IsActive     *bool   `json:"is_active"`
}

var serviceTypes = map[string]bool{
	domain.ServiceOpenAI: true, domain.ServiceAnthropic: true, domain.ServiceGoogle: true,
	domain.ServiceMistral: true, domain.ServiceGroq: true, domain.ServiceOllama: true, domain.ServiceCustom: true,
}

// SettingsService manages a user's AI provider configurations.
//
// At most one config per user is active. The rule is kept by this service
// (activation clears the flag on the others in the same transaction) rather
// than by a database constraint, and readers pick the most recently updated
// active row if several exist.
type SettingsService struct {
	DB     *gorm.DB
	Cipher KeyEncrypter
}

// List returns the user's configs, newest first.
func (s *SettingsService) List(ctx context.Context, userID string) ([]domain.ServiceConfig, error) {
	return repo.ListServiceConfigs(ctx, s.DB, userID)
}

// Active returns the user's active config or ErrNoActiveService.
func (s *SettingsService) Active(ctx context.Context, userID string) (*domain.ServiceConfig, error) {
	c, err := repo.GetActiveServiceConfig(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoActiveService
	}
	return c, err
}

// Create stores a new config. The first config of a user becomes active.
func (s *SettingsService) Create(ctx context.Context, userID string, in ServiceConfigInput) (*domain.ServiceConfig, error) {
	cfg := &domain.ServiceConfig{ID: uuid.NewString(), UserID: userID}
	if in.ServiceType == nil {
		return nil, &ValidationError{Field: "service_type", Message: "service_type is required"}
	}
	if err := s.apply(cfg, in); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsActive == nil {
			existing, err := repo.ListServiceConfigs(ctx, tx, userID)
			if err != nil {
				return err
			}
			cfg.IsActive = len(existing) == 0
		}
		if err := repo.CreateServiceConfig(ctx, tx, cfg); err != nil {
			return err
		}
		if cfg.IsActive {
			return repo.DeactivateOtherServiceConfigs(ctx, tx, userID, cfg.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update applies in to the config id owned by userID.
func (s *SettingsService) Update(ctx context.Context, userID, id string, in ServiceConfigInput) (*domain.ServiceConfig, error) {
	var cfg *domain.ServiceConfig
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetServiceConfig(ctx, tx, id, userID)
		if err != nil {
			return err
		}
		if err := s.apply(c, in); err != nil {
			return err
		}
		if err := repo.UpdateServiceConfig(ctx, tx, c); err != nil {
			return err
		}
		if c.IsActive {
			if err := repo.DeactivateOtherServiceConfigs(ctx, tx, userID, c.ID); err != nil {
				return err
			}
		}
		cfg = c
		return nil
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Delete removes a config.
func (s *SettingsService) Delete(ctx context.Context, userID, id string) error {
	err := repo.DeleteServiceConfig(ctx, s.DB, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Activate marks id active and every other config of the user inactive.
func (s *SettingsService) Activate(ctx context.Context, userID, id string) (*domain.ServiceConfig, error) {
	active := true
	return s.Update(ctx, userID, id, ServiceConfigInput{IsActive: &active})
}

func (s *SettingsService) apply(cfg *domain.ServiceConfig, in ServiceConfigInput) error {
	if in.ServiceType != nil {
		t := strings.ToLower(strings.TrimSpace(*in.ServiceType))
		if !serviceTypes[t] {
			return &ValidationError{Field: "service_type", Message: "unsupported service_type"}
		}
		cfg.ServiceType = t
	}
	if in.ServiceName != nil {
		cfg.ServiceName = strings.TrimSpace(*in.ServiceName)
	}
	if in.CustomURL != nil {
		u := strings.TrimSpace(*in.CustomURL)
		if u != "" {
			parsed, err := url.Parse(u)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
				return &ValidationError{Field: "custom_url", Message: "custom_url must be an http(s) URL"}
			}
		}
		cfg.CustomURL = u
	}
	if in.ModelName != nil {
		cfg.ModelName = strings.TrimSpace(*in.ModelName)
	}
	if in.SystemPrompt != nil {
		cfg.SystemPrompt = strings.TrimSpace(*in.SystemPrompt)
	}
	if in.IsActive != nil {
		cfg.IsActive = *in.IsActive
	}
	if in.APIKey != nil {
		key := strings.TrimSpace(*in.APIKey)
		if key == "" {
			cfg.EncryptedAPIKey, cfg.APIKeyIV = "", ""
		} else {
			ct, iv, err := s.Cipher.Encrypt(key)
			if err != nil {
				return err
			}
			cfg.EncryptedAPIKey, cfg.APIKeyIV = ct, iv
		}
	}
	if cfg.ServiceType == domain.ServiceCustom && cfg.CustomURL == "" {
		return &ValidationError{Field: "custom_url", Message: "custom services need custom_url"}
	}
	return nil
}
