package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/repo"
)

// PreferencesInput is a partial update; nil fields are left unchanged.
type PreferencesInput struct {
	AutoClearHistory *string `json:"auto_clear_history"`
	Timezone         *string `json:"timezone"`
}

// PreferencesService reads and writes per-user coach preferences.
type PreferencesService struct {
	DB *gorm.DB
}

// Get returns the stored preferences or the defaults (never, UTC).
func (s *PreferencesService) Get(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	p, err := repo.GetPreferences(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return &domain.UserPreferences{UserID: userID, AutoClearHistory: domain.RetentionNever, Timezone: "UTC"}, nil
	}
	return p, err
}

// Update validates and stores in.
func (s *PreferencesService) Update(ctx context.Context, userID string, in PreferencesInput) (*domain.UserPreferences, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.AutoClearHistory != nil {
		v := strings.ToLower(strings.TrimSpace(*in.AutoClearHistory))
		switch v {
		case domain.RetentionNever, domain.Retention7Days, domain.RetentionAll, domain.RetentionSession:
			p.AutoClearHistory = v
		default:
			return nil, &ValidationError{Field: "auto_clear_history", Message: "must be never, 7days, all or session"}
		}
	}
	if in.Timezone != nil {
		tz := strings.TrimSpace(*in.Timezone)
		if tz == "" {
			tz = "UTC"
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, &ValidationError{Field: "timezone", Message: "unknown IANA time zone"}
		}
		p.Timezone = tz
	}
	p.UserID = userID
	if err := repo.UpsertPreferences(ctx, s.DB, p); err != nil {
		return nil, err
	}
	return p, nil
}
