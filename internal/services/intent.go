package services

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Intent names the provider may return.
const (
	IntentLogFood        = "log_food"
	IntentLogExercise    = "log_exercise"
	IntentLogMeasurement = "log_measurement"
	IntentLogWater       = "log_water"
	IntentAskQuestion    = "ask_question"
	IntentChat           = "chat"
)

// LogFood is the payload of a log_food intent.
type LogFood struct {
	FoodName string `json:"food_name" validate:"required"`
	Quantity Number `json:"quantity"  validate:"gte=0"`
	Unit     string `json:"unit"`
	MealType string `json:"meal_type"`
}

// LogExercise is the payload of a log_exercise intent.
type LogExercise struct {
	ExerciseName    string `json:"exercise_name"    validate:"required"`
	DurationMinutes Number `json:"duration_minutes" validate:"gte=0"`
	Distance        Number `json:"distance"         validate:"gte=0"`
	DistanceUnit    string `json:"distance_unit"`
	Notes           string `json:"notes"`
}

// MeasurementItem is one value in a log_measurement batch. Items are
// validated one at a time by the handler.
type MeasurementItem struct {
	Type  string `json:"type"`
	Value Number `json:"value"`
	Unit  string `json:"unit,omitempty"`
	Name  string `json:"name,omitempty"`
}

// LogMeasurement is the payload of a log_measurement intent.
type LogMeasurement struct {
	Measurements []MeasurementItem `json:"measurements" validate:"required,min=1"`
}

// LogWater is the payload of a log_water intent. A nil count means one glass.
type LogWater struct {
	GlassesConsumed *Number `json:"glasses_consumed"`
}

// IntentResult is the parsed provider answer. Exactly one payload pointer
// matching Intent is set for the log_* intents; ask_question and chat only
// carry Response.
type IntentResult struct {
	Intent    string
	EntryDate string
	Response  string

	Food        *LogFood
	Exercise    *LogExercise
	Measurement *LogMeasurement
	Water       *LogWater
}

type rawIntent struct {
	Intent    string          `json:"intent"`
	Data      json.RawMessage `json:"data"`
	EntryDate string          `json:"entryDate"`
	EntryAlt  string          `json:"entry_date"`
	Response  string          `json:"response"`
}

var validate = validator.New()

// ParseIntent decodes provider text into an IntentResult. The JSON may sit in
// a ```json fence or be surrounded by prose. Anything that does not decode or
// validate yields a *ParseError.
func ParseIntent(raw string) (IntentResult, error) {
	body, ok := extractJSON(raw, '{', '}')
	if !ok {
		return IntentResult{}, &ParseError{Raw: raw, Reason: "no json object"}
	}
	var ri rawIntent
	if err := json.Unmarshal([]byte(body), &ri); err != nil {
		return IntentResult{}, &ParseError{Raw: raw, Reason: err.Error()}
	}

	res := IntentResult{
		Intent:    strings.ToLower(strings.TrimSpace(ri.Intent)),
		EntryDate: strings.TrimSpace(ri.EntryDate),
		Response:  strings.TrimSpace(ri.Response),
	}
	if res.EntryDate == "" {
		res.EntryDate = strings.TrimSpace(ri.EntryAlt)
	}

	var payload any
	switch res.Intent {
	case IntentLogFood:
		res.Food = &LogFood{}
		payload = res.Food
	case IntentLogExercise:
		res.Exercise = &LogExercise{}
		payload = res.Exercise
	case IntentLogMeasurement:
		res.Measurement = &LogMeasurement{}
		payload = res.Measurement
	case IntentLogWater:
		res.Water = &LogWater{}
		payload = res.Water
	case IntentAskQuestion, IntentChat:
		if res.Response == "" {
			return IntentResult{}, &ParseError{Raw: raw, Reason: "empty response for " + res.Intent}
		}
		return res, nil
	case "":
		return IntentResult{}, &ParseError{Raw: raw, Reason: "missing intent"}
	default:
		return IntentResult{}, &ParseError{Raw: raw, Reason: "unknown intent " + res.Intent}
	}

	if len(ri.Data) == 0 || string(ri.Data) == "null" {
		return IntentResult{}, &ParseError{Raw: raw, Reason: "missing data for " + res.Intent}
	}
	if err := json.Unmarshal(ri.Data, payload); err != nil {
		return IntentResult{}, &ParseError{Raw: raw, Reason: res.Intent + ": " + err.Error()}
	}
	if err := validate.Struct(payload); err != nil {
		return IntentResult{}, &ParseError{Raw: raw, Reason: res.Intent + ": " + err.Error()}
	}
	return res, nil
}
