// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for ChatTurn rows
// in sparky_chat_history.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Functions:
//
//   - CreateTurn(ctx, db, userID, role, content, metadata) -> *domain.ChatTurn, error
//   - RecentTurns(ctx, db, userID, n) -> last n turns, oldest first
//   - ListTurnsPage(ctx, db, userID, offset, limit) -> oldest-first page
//   - CountTurns(ctx, db, userID) -> total turns for the user
//   - DeleteTurns(ctx, db, userID) -> removes the whole transcript
//   - DeleteTurnsBefore(ctx, db, userID, cutoff) -> removes turns older than cutoff
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// CreateTurn inserts a new chat turn with a UUID and UTC timestamp.
func CreateTurn(ctx context.Context, db *gorm.DB, userID, role, content string, metadata datatypes.JSON) (*domain.ChatTurn, error) {
	t := &domain.ChatTurn{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// RecentTurns returns the user's last n turns ordered oldest first, which is
// the order a provider expects conversation context in.
func RecentTurns(ctx context.Context, db *gorm.DB, userID string, n int) ([]domain.ChatTurn, error) {
	if n <= 0 {
		return nil, nil
	}
	var out []domain.ChatTurn
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ListTurnsPage returns a page of turns ordered (created_at ASC, id ASC).
func ListTurnsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.ChatTurn, error) {
	var out []domain.ChatTurn
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountTurns returns the number of turns stored for userID.
func CountTurns(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ChatTurn{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// DeleteTurns removes every turn of userID and reports how many were deleted.
func DeleteTurns(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.ChatTurn{})
	return res.RowsAffected, res.Error
}

// DeleteTurnsBefore removes turns of userID created strictly before cutoff.
func DeleteTurnsBefore(ctx context.Context, db *gorm.DB, userID string, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND created_at < ?", userID, cutoff.UTC()).
		Delete(&domain.ChatTurn{})
	return res.RowsAffected, res.Error
}
