// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides food catalog lookups and food diary
// writes.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// FindCustomFoodExact returns the user's own custom food whose name equals
// name ignoring case, or ErrNotFound.
func FindCustomFoodExact(ctx context.Context, db *gorm.DB, userID, name string) (*domain.Food, error) {
	var f domain.Food
	err := db.WithContext(ctx).
		Where("user_id = ? AND is_custom = ? AND LOWER(name) = ?", userID, true, strings.ToLower(strings.TrimSpace(name))).
		Order("created_at DESC").
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SearchFoods returns up to limit foods whose name contains term ignoring
// case, drawn from the user's foods and public foods.
func SearchFoods(ctx context.Context, db *gorm.DB, userID, term string, limit int) ([]domain.Food, error) {
	var out []domain.Food
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
	err := db.WithContext(ctx).
		Where("(user_id = ? OR shared_with_public = ?) AND LOWER(name) LIKE ? ESCAPE '\\'", userID, true, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CreateFood inserts a food row with a fresh UUID.
func CreateFood(ctx context.Context, db *gorm.DB, f *domain.Food) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	f.CreatedAt, f.UpdatedAt = now, now
	return db.WithContext(ctx).Create(f).Error
}

// CreateFoodEntry inserts a diary row for a food.
func CreateFoodEntry(ctx context.Context, db *gorm.DB, userID, foodID, mealType string, quantity float64, unit, date string) (*domain.FoodEntry, error) {
	e := &domain.FoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		FoodID:    foodID,
		MealType:  mealType,
		Quantity:  quantity,
		Unit:      unit,
		EntryDate: date,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// escapeLike escapes LIKE wildcards so user text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
