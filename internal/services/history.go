package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/repo"
	"github.com/tbourn/go-sparky-backend/internal/utils"
)

// retention7Days is the age limit of the "7days" policy.
const retention7Days = 7 * 24 * time.Hour

// HistoryService is the append-only chat transcript with retention.
type HistoryService struct {
	DB  *gorm.DB
	Now func() time.Time
}

// Append stores one turn. Metadata is encoded as JSON when non-empty.
func (s *HistoryService) Append(ctx context.Context, userID, role, content string, metadata map[string]any) (*domain.ChatTurn, error) {
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return nil, &ValidationError{Field: "role", Message: "role must be user or assistant"}
	}
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "content", Message: "content is required"}
	}
	var meta datatypes.JSON
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		meta = b
	}
	return repo.CreateTurn(ctx, s.DB, userID, role, content, meta)
}

// Recent returns the last n turns, oldest first.
func (s *HistoryService) Recent(ctx context.Context, userID string, n int) ([]domain.ChatTurn, error) {
	return repo.RecentTurns(ctx, s.DB, userID, n)
}

// List returns one oldest-first page and the total number of turns. The
// user's 7days policy is applied first so stale turns are never shown.
func (s *HistoryService) List(ctx context.Context, userID string, page, pageSize int) ([]domain.ChatTurn, int64, error) {
	if _, err := s.ApplyRetention(ctx, userID, false); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	total, err := repo.CountTurns(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListTurnsPage(ctx, s.DB, userID, utils.PageOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Stats returns the turn count and newest timestamp, used for ETags.
func (s *HistoryService) Stats(ctx context.Context, userID string) (int64, *time.Time, error) {
	return repo.HistoryStats(ctx, s.DB, userID)
}

// Clear removes the whole transcript.
func (s *HistoryService) Clear(ctx context.Context, userID string) (int64, error) {
	return repo.DeleteTurns(ctx, s.DB, userID)
}

// ApplyRetention enforces the user's auto_clear_history policy. "7days"
// always drops older turns; "all" and "session" clear everything, but only
// when sessionStart is true; "never" keeps everything.
func (s *HistoryService) ApplyRetention(ctx context.Context, userID string, sessionStart bool) (int64, error) {
	prefs, err := repo.GetPreferences(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	switch prefs.AutoClearHistory {
	case domain.Retention7Days:
		return repo.DeleteTurnsBefore(ctx, s.DB, userID, s.now().Add(-retention7Days))
	case domain.RetentionAll, domain.RetentionSession:
		if sessionStart {
			return repo.DeleteTurns(ctx, s.DB, userID)
		}
	}
	return 0, nil
}

// Sweep applies the 7days policy to every user that has it and purges
// expired idempotency records. It returns the number of turns removed.
func (s *HistoryService) Sweep(ctx context.Context) (int64, error) {
	users, err := repo.UserIDsWithRetention(ctx, s.DB, domain.Retention7Days)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-retention7Days)
	var total int64
	for _, uid := range users {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := repo.DeleteTurnsBefore(ctx, s.DB, uid, cutoff)
		if err != nil {
			return total, err
		}
		total += n
	}
	if _, err := repo.PurgeExpiredIdempotency(ctx, s.DB, s.now()); err != nil {
		return total, err
	}
	return total, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *HistoryService) RunSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.Sweep(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("history retention sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("history retention sweep")
			}
		}
	}
}

func (s *HistoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
