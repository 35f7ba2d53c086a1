package services

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/repo"
)

// WaterHandler adds glasses to the day's water counter.
type WaterHandler struct {
	DB *gorm.DB
}

// Log adds d.GlassesConsumed (one when absent) to the total for date. Adding
// zero reports the current total without writing.
func (h *WaterHandler) Log(ctx context.Context, userID string, d LogWater, date string) (CoachResponse, error) {
	add := 1
	if d.GlassesConsumed != nil {
		v := float64(*d.GlassesConsumed)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			err := &ValidationError{Field: "glasses_consumed", Message: "glasses must be zero or more"}
			return reply(ActionNone, "I can only add a positive number of glasses.", nil), err
		}
		add = int(math.Round(v))
	}

	var total int
	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := repo.GetWaterGlasses(ctx, tx, userID, date)
		if err != nil {
			return err
		}
		total = cur + add
		if add == 0 {
			return nil
		}
		return repo.UpsertWaterGlasses(ctx, tx, userID, date, total)
	})
	if err != nil {
		return reply(ActionNone, "Sorry, I couldn't update your water intake.", nil), err
	}

	meta := map[string]any{"glasses_added": add, "total_glasses": total, "entry_date": date}
	text := fmt.Sprintf("Added %d %s of water. You're at %d for %s.", add, plural(add, "glass", "glasses"), total, date)
	if add == 0 {
		text = fmt.Sprintf("You're at %d %s of water for %s.", total, plural(total, "glass", "glasses"), date)
	}
	return reply(ActionWaterLogged, text, meta), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
