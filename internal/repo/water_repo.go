// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the daily water counter.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// GetWaterGlasses returns the stored glass count for (userID, date), or 0
// when nothing was logged that day.
func GetWaterGlasses(ctx context.Context, db *gorm.DB, userID, date string) (int, error) {
	var w domain.WaterIntake
	err := db.WithContext(ctx).Where("user_id = ? AND entry_date = ?", userID, date).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return w.GlassesConsumed, nil
}

// UpsertWaterGlasses sets the day's total to glasses.
func UpsertWaterGlasses(ctx context.Context, db *gorm.DB, userID, date string, glasses int) error {
	now := time.Now().UTC()
	rec := &domain.WaterIntake{
		ID:              uuid.NewString(),
		UserID:          userID,
		EntryDate:       date,
		GlassesConsumed: glasses,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "entry_date"}},
			DoUpdates: clause.Assignments(map[string]any{"glasses_consumed": glasses, "updated_at": now}),
		}).
		Create(rec).Error
}
