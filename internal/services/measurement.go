package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/repo"
)

const (
	kgPerLb = 0.45359237
	cmPerIn = 2.54
)

// MeasurementOutcome is the result of one item in a measurement batch.
type MeasurementOutcome struct {
	Type  string  `json:"type"`
	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	OK    bool    `json:"ok"`
	Error string  `json:"error,omitempty"`
}

// MeasurementHandler stores body check-ins and custom measurements.
type MeasurementHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

// Log processes every item and returns one outcome per item in input order.
// A failing item never stops the others.
func (h *MeasurementHandler) Log(ctx context.Context, userID string, d LogMeasurement, date string) []MeasurementOutcome {
	out := make([]MeasurementOutcome, 0, len(d.Measurements))
	for _, item := range d.Measurements {
		o, err := h.logOne(ctx, userID, item, date)
		if err != nil {
			o.OK = false
			var ve *ValidationError
			if errors.As(err, &ve) {
				o.Error = ve.Message
			} else {
				o.Error = "could not be saved"
			}
		} else {
			o.OK = true
		}
		out = append(out, o)
	}
	return out
}

func (h *MeasurementHandler) logOne(ctx context.Context, userID string, item MeasurementItem, date string) (MeasurementOutcome, error) {
	typ := strings.ToLower(strings.TrimSpace(item.Type))
	o := MeasurementOutcome{Type: typ, Name: strings.TrimSpace(item.Name), Value: float64(item.Value), Unit: strings.TrimSpace(item.Unit)}

	if repo.CheckInColumns[typ] {
		value, unit, err := normalizeCheckIn(typ, float64(item.Value), o.Unit)
		if err != nil {
			return o, err
		}
		o.Value, o.Unit = value, unit
		return o, repo.UpsertCheckInValue(ctx, h.DB, userID, date, typ, value)
	}

	// Anything else is a custom category; an unknown type doubles as its name.
	if typ != "custom" && o.Name == "" {
		o.Name = strings.TrimSpace(item.Type)
	}
	o.Type = "custom"
	if o.Name == "" {
		return o, &ValidationError{Field: "name", Message: "custom measurements need a category name"}
	}
	if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
		return o, &ValidationError{Field: "value", Message: "value must be a number"}
	}
	return o, h.logCustom(ctx, userID, o, date)
}

// logCustom finds or creates the category and inserts the value in one
// transaction so a failure leaves no orphan category.
func (h *MeasurementHandler) logCustom(ctx context.Context, userID string, o MeasurementOutcome, date string) error {
	now := h.now()
	return h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat, err := repo.FindCustomCategory(ctx, tx, userID, o.Name)
		if errors.Is(err, repo.ErrNotFound) {
			cat = &domain.CustomCategory{UserID: userID, Name: o.Name, MeasurementType: "numeric", Frequency: "Daily"}
			err = repo.CreateCustomCategory(ctx, tx, cat)
		}
		if err != nil {
			return err
		}
		return repo.CreateCustomMeasurement(ctx, tx, &domain.CustomMeasurement{
			UserID:         userID,
			CategoryID:     cat.ID,
			Value:          o.Value,
			EntryDate:      date,
			EntryHour:      now.Hour(),
			EntryTimestamp: now,
		})
	})
}

func (h *MeasurementHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

// normalizeCheckIn validates a standard measurement and converts it to the
// stored unit: kg for weight, cm for lengths, whole steps.
func normalizeCheckIn(typ string, value float64, unit string) (float64, string, error) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, "", &ValidationError{Field: typ, Message: typ + " must be a positive number"}
	}
	u := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(unit), "."))
	switch typ {
	case "weight":
		switch u {
		case "lb", "lbs", "pound", "pounds":
			return round2(value * kgPerLb), "kg", nil
		case "", "kg", "kgs", "kilogram", "kilograms":
			return value, "kg", nil
		}
	case "steps":
		return math.Round(value), "steps", nil
	default:
		switch u {
		case "in", "inch", "inches", `"`:
			return round2(value * cmPerIn), "cm", nil
		case "", "cm", "centimeter", "centimeters":
			return value, "cm", nil
		}
	}
	return 0, "", &ValidationError{Field: typ, Message: fmt.Sprintf("unsupported unit %q for %s", unit, typ)}
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

// summarizeMeasurements turns outcomes into the chat reply.
func summarizeMeasurements(outcomes []MeasurementOutcome) CoachResponse {
	var (
		lines []string
		okAny bool
	)
	for _, o := range outcomes {
		label := o.Type
		if o.Type == "custom" {
			label = o.Name
		}
		if o.OK {
			okAny = true
			lines = append(lines, strings.TrimSpace(fmt.Sprintf("Logged %s: %s %s", label, formatNum(o.Value), o.Unit)))
			continue
		}
		lines = append(lines, fmt.Sprintf("Couldn't log %s: %s", label, o.Error))
	}
	action := ActionNone
	if okAny {
		action = ActionMeasurementLogged
	}
	if len(lines) == 0 {
		lines = append(lines, "I didn't find any measurements to log.")
	}
	return reply(action, strings.Join(lines, "\n"), map[string]any{"results": outcomes})
}
