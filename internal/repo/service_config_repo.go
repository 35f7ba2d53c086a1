// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for ServiceConfig
// rows in ai_service_settings. Ciphertext is opaque here; encryption happens
// in the services layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// CreateServiceConfig inserts cfg. The caller sets ID and ciphertext.
func CreateServiceConfig(ctx context.Context, db *gorm.DB, cfg *domain.ServiceConfig) error {
	now := time.Now().UTC()
	cfg.CreatedAt, cfg.UpdatedAt = now, now
	return db.WithContext(ctx).Create(cfg).Error
}

// ListServiceConfigs returns all configs of userID, newest first.
func ListServiceConfigs(ctx context.Context, db *gorm.DB, userID string) ([]domain.ServiceConfig, error) {
	var out []domain.ServiceConfig
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// GetServiceConfig fetches a config by id scoped to its owner, or ErrNotFound.
func GetServiceConfig(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ServiceConfig, error) {
	var c domain.ServiceConfig
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveServiceConfig returns the user's active config. If several rows
// are flagged active the most recently updated one wins.
func GetActiveServiceConfig(ctx context.Context, db *gorm.DB, userID string) (*domain.ServiceConfig, error) {
	var c domain.ServiceConfig
	err := db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC, id DESC").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateServiceConfig saves every column of cfg, enforcing ownership.
// Returns ErrNotFound when no row matched.
func UpdateServiceConfig(ctx context.Context, db *gorm.DB, cfg *domain.ServiceConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.ServiceConfig{}).
		Where("id = ? AND user_id = ?", cfg.ID, cfg.UserID).
		Select("service_name", "service_type", "encrypted_api_key", "api_key_iv",
			"custom_url", "model_name", "system_prompt", "is_active", "updated_at").
		Updates(cfg)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteServiceConfig removes a config owned by userID.
func DeleteServiceConfig(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.ServiceConfig{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateOtherServiceConfigs clears is_active on every config of userID
// except keepID. Run it inside the same transaction as the activation.
func DeactivateOtherServiceConfigs(ctx context.Context, db *gorm.DB, userID, keepID string) error {
	return db.WithContext(ctx).
		Model(&domain.ServiceConfig{}).
		Where("user_id = ? AND id <> ? AND is_active = ?", userID, keepID, true).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()}).Error
}
