package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

func TestGetIdempotency_EmptyKey_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	rec, err := GetIdempotency(context.Background(), db, "u1", "process-input", "   ", time.Now())
	if rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound), got (%v, %v)", rec, err)
	}
}

func TestIdempotency_CreateGetDuplicateAndExpiry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "process-input", "tx-1", []byte(`{"action":"chat"}`), 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}

	got, err := GetIdempotency(ctx, db, "u1", "process-input", "tx-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.ID != rec.ID || string(got.Response) != `{"action":"chat"}` || got.Status != 200 {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := CreateIdempotency(ctx, db, "u1", "process-input", "tx-1", []byte(`{}`), 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Past the TTL the record is invisible.
	if _, err := GetIdempotency(ctx, db, "u1", "process-input", "tx-1", time.Now().Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestCreateIdempotency_ReplacesExpiredRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	past := time.Now().UTC().Add(-2 * time.Hour)
	old := &domain.Idempotency{ID: "old", UserID: "u1", Scope: "s", Key: "k",
		Response: datatypes.JSON(`{}`), Status: 200, CreatedAt: past, ExpiresAt: past.Add(time.Hour)}
	if err := db.Create(old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := CreateIdempotency(ctx, db, "u1", "s", "k", []byte(`{"ok":true}`), 200, time.Hour); err != nil {
		t.Fatalf("expected expired row to be replaced, got %v", err)
	}

	n, err := PurgeExpiredIdempotency(ctx, db, time.Now().UTC())
	if err != nil || n != 0 {
		t.Fatalf("nothing should be left to purge, got %d %v", n, err)
	}
}
