package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

func TestFindExercise_SubstringOwnerFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	rows := []domain.Exercise{
		{ID: "pub", Name: "Running (6 mph)", CaloriesPerHour: 600},
		{ID: "mine", UserID: "u1", Name: "Trail Running", CaloriesPerHour: 700, IsCustom: true},
		{ID: "theirs", UserID: "u2", Name: "Running Uphill", CaloriesPerHour: 900, IsCustom: true},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := FindExercise(ctx, db, "u1", "RUNNING")
	if err != nil || got.ID != "mine" {
		t.Fatalf("expected user's own exercise first, got %+v (%v)", got, err)
	}
	got, err = FindExercise(ctx, db, "u3", "running")
	if err != nil || got.ID != "pub" {
		t.Fatalf("expected public exercise for u3, got %+v (%v)", got, err)
	}
	if _, err := FindExercise(ctx, db, "u3", "uphill"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("private exercise of u2 must not match, got %v", err)
	}
}

func TestFindExercise_OwnerFirstThenName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	rows := []domain.Exercise{
		{ID: "pub-a", Name: "A Running Drill", CaloriesPerHour: 500},
		{ID: "mine-z", UserID: "u1", Name: "Zone 2 Running", CaloriesPerHour: 550, IsCustom: true},
		{ID: "mine-h", UserID: "u1", Name: "Hill Running", CaloriesPerHour: 800, IsCustom: true},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := FindExercise(ctx, db, "u1", "running")
	if err != nil || got.ID != "mine-h" {
		t.Fatalf("expected alphabetically first own exercise, got %+v (%v)", got, err)
	}
	got, err = FindExercise(ctx, db, "u2", "running")
	if err != nil || got.ID != "pub-a" {
		t.Fatalf("expected public exercise for u2, got %+v (%v)", got, err)
	}
}

func TestCreateExercise_And_Entry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ex := &domain.Exercise{UserID: "u1", Name: "Running", CaloriesPerHour: 600, IsCustom: true}
	if err := CreateExercise(ctx, db, ex); err != nil || ex.ID == "" {
		t.Fatalf("CreateExercise: %v", err)
	}
	entry := &domain.ExerciseEntry{UserID: "u1", ExerciseID: ex.ID, DurationMinutes: 30, CaloriesBurned: 300,
		EntryDate: "2024-03-14", Notes: "Distance: 3 miles"}
	if err := CreateExerciseEntry(ctx, db, entry); err != nil {
		t.Fatalf("CreateExerciseEntry: %v", err)
	}
	var back domain.ExerciseEntry
	if err := db.First(&back, "id = ?", entry.ID).Error; err != nil || back.Notes != "Distance: 3 miles" {
		t.Fatalf("readback: %+v (%v)", back, err)
	}
}
