// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides exercise catalog lookups and workout
// writes.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// FindExercise returns the first exercise visible to userID whose name
// contains term ignoring case, or ErrNotFound. The user's own exercises are
// preferred over shared ones.
func FindExercise(ctx context.Context, db *gorm.DB, userID, term string) (*domain.Exercise, error) {
	var e domain.Exercise
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
	err := db.WithContext(ctx).
		Where("(user_id = ? OR user_id = '' OR shared_with_public = ?) AND LOWER(name) LIKE ? ESCAPE '\\'", userID, true, pattern).
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "CASE WHEN user_id = ? THEN 0 ELSE 1 END, name ASC", Vars: []any{userID}}}).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateExercise inserts an exercise with a fresh UUID.
func CreateExercise(ctx context.Context, db *gorm.DB, e *domain.Exercise) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(e).Error
}

// CreateExerciseEntry inserts a workout row.
func CreateExerciseEntry(ctx context.Context, db *gorm.DB, e *domain.ExerciseEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(e).Error
}
