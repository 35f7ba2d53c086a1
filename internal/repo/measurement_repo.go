// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides check-in upserts and custom measurement
// category/value writes.
package repo

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// CheckInColumns lists the standard measurement columns of check_in_measurements.
var CheckInColumns = map[string]bool{"weight": true, "neck": true, "waist": true, "hips": true, "steps": true}

// UpsertCheckInValue writes one standard measurement for (userID, date),
// creating the day's row if needed and leaving the other columns untouched.
func UpsertCheckInValue(ctx context.Context, db *gorm.DB, userID, date, column string, value float64) error {
	if !CheckInColumns[column] {
		return fmt.Errorf("unknown check-in column %q", column)
	}
	now := time.Now().UTC()
	rec := &domain.CheckInMeasurement{
		ID:        uuid.NewString(),
		UserID:    userID,
		EntryDate: date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var stored any = value
	switch column {
	case "weight":
		rec.Weight = &value
	case "neck":
		rec.Neck = &value
	case "waist":
		rec.Waist = &value
	case "hips":
		rec.Hips = &value
	case "steps":
		steps := int(math.Round(value))
		rec.Steps = &steps
		stored = steps
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "entry_date"}},
			DoUpdates: clause.Assignments(map[string]any{column: stored, "updated_at": now}),
		}).
		Create(rec).Error
}

// GetCheckIn returns the check-in row for (userID, date) or ErrNotFound.
func GetCheckIn(ctx context.Context, db *gorm.DB, userID, date string) (*domain.CheckInMeasurement, error) {
	var c domain.CheckInMeasurement
	if err := db.WithContext(ctx).Where("user_id = ? AND entry_date = ?", userID, date).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCustomCategory returns the user's category with exactly this name.
func FindCustomCategory(ctx context.Context, db *gorm.DB, userID, name string) (*domain.CustomCategory, error) {
	var c domain.CustomCategory
	if err := db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCustomCategory inserts a category with a fresh UUID.
func CreateCustomCategory(ctx context.Context, db *gorm.DB, c *domain.CustomCategory) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(c).Error
}

// ListCustomCategoryNames returns the user's category names in name order.
func ListCustomCategoryNames(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).
		Model(&domain.CustomCategory{}).
		Where("user_id = ?", userID).
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

// CreateCustomMeasurement inserts a timestamped value for a category.
func CreateCustomMeasurement(ctx context.Context, db *gorm.DB, m *domain.CustomMeasurement) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()
	if m.EntryTimestamp.IsZero() {
		m.EntryTimestamp = m.CreatedAt
	}
	return db.WithContext(ctx).Create(m).Error
}
