package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/repo"
)

// ReplayScope is the idempotency scope of chat turns.
const ReplayScope = "process-input"

// ReplayStore remembers the response of each chat turn by transaction id so
// a retried upload gets the same answer without a second provider call or
// duplicate diary entries.
type ReplayStore struct {
	DB  *gorm.DB
	TTL time.Duration
	Now func() time.Time
}

// Lookup returns the stored response for (userID, key), if any.
func (s *ReplayStore) Lookup(ctx context.Context, userID, key string) (*CoachResponse, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, ReplayScope, key, s.now())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp CoachResponse
	if err := json.Unmarshal(rec.Response, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

// Save stores resp. A concurrent save of the same key is not an error.
func (s *ReplayStore) Save(ctx context.Context, userID, key string, resp CoachResponse) error {
	if key == "" {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	_, err = repo.CreateIdempotency(ctx, s.DB, userID, ReplayScope, key, b, http.StatusOK, ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

func (s *ReplayStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
