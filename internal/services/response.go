package services

// Coach actions reported to the client.
const (
	ActionFoodLogged        = "food_logged"
	ActionFoodOptions       = "food_options"
	ActionExerciseLogged    = "exercise_logged"
	ActionMeasurementLogged = "measurement_logged"
	ActionWaterLogged       = "water_added"
	ActionAdvice            = "advice"
	ActionChat              = "chat"
	ActionNone              = "none"
)

// CoachResponse is the result of one chat turn.
type CoachResponse struct {
	Action   string         `json:"action"`
	Response string         `json:"response"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func reply(action, text string, meta map[string]any) CoachResponse {
	return CoachResponse{Action: action, Response: text, Metadata: meta}
}
