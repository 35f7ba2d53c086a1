// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides per-user preference storage.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// GetPreferences returns the stored preferences of userID, or ErrNotFound.
func GetPreferences(ctx context.Context, db *gorm.DB, userID string) (*domain.UserPreferences, error) {
	var p domain.UserPreferences
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPreferences creates or replaces the preferences row of p.UserID.
func UpsertPreferences(ctx context.Context, db *gorm.DB, p *domain.UserPreferences) error {
	p.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"auto_clear_history", "timezone", "updated_at"}),
		}).
		Create(p).Error
}

// UserIDsWithRetention lists users whose auto_clear_history equals policy.
func UserIDsWithRetention(ctx context.Context, db *gorm.DB, policy string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.UserPreferences{}).
		Where("auto_clear_history = ?", policy).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}
