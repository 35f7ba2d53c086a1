package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/repo"
)

// defaultCaloriesPerHour is used when no keyword matches.
const defaultCaloriesPerHour = 300

// exerciseEstimates maps name keywords to calories burned per hour. The
// first match wins, so more specific words come first.
var exerciseEstimates = []struct {
	keyword string
	kcal    float64
}{
	{"run", 600},
	{"jog", 600},
	{"hiit", 600},
	{"swim", 500},
	{"cycl", 450},
	{"bike", 450},
	{"row", 450},
	{"weight", 350},
	{"lift", 350},
	{"strength", 350},
	{"hike", 400},
	{"walk", 250},
	{"yoga", 200},
	{"stretch", 150},
}

// EstimateCaloriesPerHour picks an hourly burn for an exercise name.
func EstimateCaloriesPerHour(name string) float64 {
	n := strings.ToLower(name)
	for _, e := range exerciseEstimates {
		if strings.Contains(n, e.keyword) {
			return e.kcal
		}
	}
	return defaultCaloriesPerHour
}

// ExerciseHandler logs workouts, creating the exercise when it is unknown.
type ExerciseHandler struct {
	DB *gorm.DB
}

// Log writes an exercise entry for date.
func (h *ExerciseHandler) Log(ctx context.Context, userID string, d LogExercise, date string) (CoachResponse, error) {
	name := strings.TrimSpace(d.ExerciseName)
	if name == "" {
		err := &ValidationError{Field: "exercise_name", Message: "tell me which exercise you did"}
		return reply(ActionNone, "I couldn't tell which exercise you did. Could you say it again?", nil), err
	}
	minutes := float64(d.DurationMinutes)
	if minutes <= 0 {
		err := &ValidationError{Field: "duration_minutes", Message: "duration must be a positive number of minutes"}
		return reply(ActionNone, fmt.Sprintf("How many minutes of %s did you do?", strings.ToLower(name)), nil), err
	}

	ex, created, err := h.findOrCreate(ctx, userID, name)
	if err != nil {
		return reply(ActionNone, "Sorry, I couldn't save that workout.", nil), err
	}

	burned := math.Round(ex.CaloriesPerHour / 60 * minutes)
	entry := &domain.ExerciseEntry{
		UserID:          userID,
		ExerciseID:      ex.ID,
		DurationMinutes: minutes,
		CaloriesBurned:  burned,
		EntryDate:       date,
		Notes:           exerciseNotes(d),
	}
	if err := repo.CreateExerciseEntry(ctx, h.DB, entry); err != nil {
		return reply(ActionNone, "Sorry, I couldn't save that workout.", nil), err
	}

	meta := map[string]any{
		"exercise_id":      ex.ID,
		"entry_id":         entry.ID,
		"exercise_name":    ex.Name,
		"duration_minutes": minutes,
		"calories_burned":  burned,
		"entry_date":       date,
		"created_exercise": created,
	}
	text := fmt.Sprintf("Logged %s minutes of %s (%s calories burned).", formatNum(minutes), ex.Name, formatNum(burned))
	return reply(ActionExerciseLogged, text, meta), nil
}

func (h *ExerciseHandler) findOrCreate(ctx context.Context, userID, name string) (*domain.Exercise, bool, error) {
	ex, err := repo.FindExercise(ctx, h.DB, userID, name)
	if err == nil {
		return ex, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}
	ex = &domain.Exercise{
		UserID:          userID,
		Name:            cases.Title(language.English).String(strings.ToLower(name)),
		Category:        "cardio",
		CaloriesPerHour: EstimateCaloriesPerHour(name),
		IsCustom:        true,
	}
	if isStrength(name) {
		ex.Category = "strength"
	}
	if err := repo.CreateExercise(ctx, h.DB, ex); err != nil {
		return nil, false, err
	}
	return ex, true, nil
}

func isStrength(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "weight") || strings.Contains(n, "lift") || strings.Contains(n, "strength")
}

func exerciseNotes(d LogExercise) string {
	var parts []string
	if d.Distance > 0 {
		unit := strings.TrimSpace(d.DistanceUnit)
		if unit == "" {
			unit = "miles"
		}
		parts = append(parts, fmt.Sprintf("Distance: %s %s", formatNum(float64(d.Distance)), unit))
	}
	if n := strings.TrimSpace(d.Notes); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, ". ")
}
