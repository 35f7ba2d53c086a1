package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/llm"
	"github.com/tbourn/go-sparky-backend/internal/secrets"
	"github.com/tbourn/go-sparky-backend/internal/utils"
)

// User-facing messages for pipeline failures.
const (
	MsgProviderFailed  = "Sorry, I had trouble getting a response from the AI. Please try again."
	MsgSettingsProblem = "I can't connect to the AI service, check your settings."
	MsgNoService       = "You haven't set up an AI service yet. Add one in settings to chat with Sparky."
	MsgNoImages        = "Your selected AI service can't read images. Describe the food instead or switch to a service with image support."
	MsgGeneric         = "Sorry, something went wrong while handling that. Please try again."
)

// Turn states. A turn starts Idle, waits for the intent, dispatches to a
// handler and ends Done, or AwaitingFoodChoice when options were offered.
const (
	StateIdle               = "idle"
	StateAwaitingIntent     = "awaiting_intent"
	StateDispatching        = "dispatching"
	StateAwaitingFoodChoice = "awaiting_food_choice"
	StateDone               = "done"
)

// ImageStore keeps uploaded chat images and returns their key.
type ImageStore interface {
	PutImage(ctx context.Context, userID string, img *llm.Image) (string, error)
}

// ProcessInput is one chat turn as received from the client.
type ProcessInput struct {
	UserID string
	Text   string
	Image  *llm.Image
	// LastBotMetadata is the metadata of the previous assistant reply. It
	// carries pending food options while the user picks one.
	LastBotMetadata json.RawMessage
	// Timezone overrides the stored preference for date resolution.
	Timezone string
}

// CoachService runs the chat pipeline: extract intent, resolve the date,
// dispatch to a domain handler and record both turns.
type CoachService struct {
	Extractor   *IntentExtractor
	Completer   llm.Completer
	Food        *FoodHandler
	Exercise    *ExerciseHandler
	Measurement *MeasurementHandler
	Water       *WaterHandler
	Chat        ChatHandler
	History     *HistoryService
	Prefs       *PreferencesService
	Images      ImageStore

	HistoryTurns int
	Now          func() time.Time
}

// NewCoachService wires every handler against db and completer.
func NewCoachService(db *gorm.DB, completer llm.Completer, historyTurns int) *CoachService {
	return &CoachService{
		Extractor:    &IntentExtractor{DB: db, Completer: completer},
		Completer:    completer,
		Food:         NewFoodHandler(db),
		Exercise:     &ExerciseHandler{DB: db},
		Measurement:  &MeasurementHandler{DB: db},
		Water:        &WaterHandler{DB: db},
		History:      &HistoryService{DB: db},
		Prefs:        &PreferencesService{DB: db},
		HistoryTurns: historyTurns,
	}
}

// turn tracks one pass through the pipeline.
type turn struct {
	in    ProcessInput
	span  trace.Span
	state string
	date  string
}

func (t *turn) enter(state string) {
	t.span.AddEvent("state", trace.WithAttributes(attribute.String("from", t.state), attribute.String("to", state)))
	log.Debug().Str("user_id", t.in.UserID).Str("from", t.state).Str("to", state).Msg("coach state")
	t.state = state
}

// ProcessInput handles one turn. It never returns an error: every failure
// becomes a CoachResponse with action "none" and a message for the user.
func (s *CoachService) ProcessInput(ctx context.Context, in ProcessInput) (resp CoachResponse) {
	ctx, span := otel.Tracer("services/CoachService").Start(ctx, "ProcessInput",
		trace.WithAttributes(attribute.String("user.id", in.UserID)),
	)
	defer span.End()

	t := &turn{in: in, span: span, state: StateIdle}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("user_id", in.UserID).Msg("coach pipeline panic")
			span.SetStatus(codes.Error, "panic")
			resp = reply(ActionNone, MsgGeneric, nil)
		}
		t.enter(finalState(resp))
		span.SetAttributes(attribute.String("coach.action", resp.Action))
	}()

	localNow := utils.InZone(s.now(), s.timezone(ctx, in))
	t.date = localNow.Format(utils.DateLayout)

	recent, err := s.History.Recent(ctx, in.UserID, s.HistoryTurns)
	if err != nil {
		log.Warn().Err(err).Str("user_id", in.UserID).Msg("load chat history")
	}
	s.recordUser(ctx, in)

	if pending, choice, ok := pendingChoice(in); ok {
		t.enter(StateDispatching)
		resp, err = s.Food.AddFoodOption(ctx, in.UserID, choice, pending)
		s.logHandlerErr(err, in.UserID, "add food option")
		return s.recordAssistant(ctx, in.UserID, resp)
	}

	t.enter(StateAwaitingIntent)
	res, err := s.Extractor.Extract(ctx, ExtractInput{UserID: in.UserID, Text: in.Text, Image: in.Image, History: recent})
	if err != nil {
		span.RecordError(err)
		return s.recordAssistant(ctx, in.UserID, reply(ActionNone, apologyFor(err), nil))
	}

	if d, ok := utils.ResolveDate(res.EntryDate, localNow); ok {
		t.date = d
	} else if d, ok := utils.ResolveDate(in.Text, localNow); ok {
		t.date = d
	}
	span.SetAttributes(attribute.String("intent", res.Intent), attribute.String("entry_date", t.date))

	t.enter(StateDispatching)
	return s.recordAssistant(ctx, in.UserID, s.dispatch(ctx, t, res))
}

func (s *CoachService) dispatch(ctx context.Context, t *turn, res IntentResult) CoachResponse {
	uid := t.in.UserID
	switch res.Intent {
	case IntentLogFood:
		resp, err := s.Food.Log(ctx, uid, *res.Food, t.date)
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return s.offerFoodOptions(ctx, uid, resp)
		}
		s.logHandlerErr(err, uid, "log food")
		return resp

	case IntentLogExercise:
		resp, err := s.Exercise.Log(ctx, uid, *res.Exercise, t.date)
		s.logHandlerErr(err, uid, "log exercise")
		return resp

	case IntentLogMeasurement:
		outcomes := s.Measurement.Log(ctx, uid, *res.Measurement, t.date)
		resp := summarizeMeasurements(outcomes)
		resp.Metadata["entry_date"] = t.date
		return resp

	case IntentLogWater:
		resp, err := s.Water.Log(ctx, uid, *res.Water, t.date)
		s.logHandlerErr(err, uid, "log water")
		return resp

	case IntentAskQuestion, IntentChat:
		return s.Chat.Respond(res)
	}
	return reply(ActionNone, MsgGeneric, nil)
}

// offerFoodOptions asks the provider for nutrition estimates of an unknown
// food and returns them as a numbered choice.
func (s *CoachService) offerFoodOptions(ctx context.Context, userID string, miss CoachResponse) CoachResponse {
	pending, _ := miss.Metadata["pending"].(PendingFoodChoice)
	raw, err := s.Completer.CompleteActive(ctx, userID, []llm.Message{
		{Role: llm.RoleSystem, Content: foodOptionsInstructions},
		{Role: llm.RoleUser, Content: FoodOptionsPrompt(pending.FoodName, pending.Unit)},
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("generate food options")
		miss.Response += " I also couldn't get nutrition estimates from the AI right now."
		return miss
	}
	opts, err := ParseFoodOptions(raw)
	if err != nil || len(opts) == 0 {
		miss.Response += " I couldn't come up with nutrition estimates for it either. Try adding it as a custom food."
		return miss
	}

	pending.Options = opts
	meta := map[string]any{
		"is_fallback":  true,
		"pending":      pending,
		"food_options": opts,
		"state":        StateAwaitingFoodChoice,
	}
	return reply(ActionFoodOptions, formatFoodOptions(pending.FoodName, opts), meta)
}

var choiceRE = regexp.MustCompile(`(?i)^\s*(?:option\s*|number\s*|#)?(\d{1,2})\s*\.?\s*$`)

// pendingChoice reports whether the input answers a previous options list.
func pendingChoice(in ProcessInput) (PendingFoodChoice, int, bool) {
	if len(in.LastBotMetadata) == 0 {
		return PendingFoodChoice{}, 0, false
	}
	m := choiceRE.FindStringSubmatch(in.Text)
	if m == nil {
		return PendingFoodChoice{}, 0, false
	}
	var meta struct {
		Pending     *PendingFoodChoice `json:"pending"`
		FoodOptions []FoodOption       `json:"food_options"`
	}
	if err := json.Unmarshal(in.LastBotMetadata, &meta); err != nil || meta.Pending == nil {
		return PendingFoodChoice{}, 0, false
	}
	if len(meta.Pending.Options) == 0 {
		meta.Pending.Options = meta.FoodOptions
	}
	if len(meta.Pending.Options) == 0 {
		return PendingFoodChoice{}, 0, false
	}
	n, _ := strconv.Atoi(m[1])
	return *meta.Pending, n, true
}

func (s *CoachService) timezone(ctx context.Context, in ProcessInput) string {
	if tz := strings.TrimSpace(in.Timezone); tz != "" {
		return tz
	}
	if s.Prefs == nil {
		return ""
	}
	p, err := s.Prefs.Get(ctx, in.UserID)
	if err != nil {
		return ""
	}
	return p.Timezone
}

func (s *CoachService) recordUser(ctx context.Context, in ProcessInput) {
	meta := map[string]any{}
	if in.Image != nil {
		meta["has_image"] = true
		if s.Images != nil {
			key, err := s.Images.PutImage(ctx, in.UserID, in.Image)
			if err != nil {
				log.Warn().Err(err).Str("user_id", in.UserID).Msg("store chat image")
			} else {
				meta["image_key"] = key
			}
		}
	}
	content := strings.TrimSpace(in.Text)
	if content == "" && in.Image != nil {
		content = "[image]"
	}
	if content == "" {
		return
	}
	if _, err := s.History.Append(ctx, in.UserID, domain.RoleUser, content, meta); err != nil {
		log.Warn().Err(err).Str("user_id", in.UserID).Msg("save user turn")
	}
}

func (s *CoachService) recordAssistant(ctx context.Context, userID string, resp CoachResponse) CoachResponse {
	meta := make(map[string]any, len(resp.Metadata)+1)
	for k, v := range resp.Metadata {
		meta[k] = v
	}
	meta["action"] = resp.Action
	if _, err := s.History.Append(ctx, userID, domain.RoleAssistant, resp.Response, meta); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("save assistant turn")
	}
	return resp
}

func (s *CoachService) logHandlerErr(err error, userID, op string) {
	if err == nil {
		return
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		log.Debug().Str("user_id", userID).Str("field", ve.Field).Msg(op + ": invalid input")
		return
	}
	log.Warn().Err(err).Str("user_id", userID).Msg(op)
}

func (s *CoachService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// apologyFor maps a provider-side failure to the message shown to the user.
func apologyFor(err error) string {
	var (
		ce *llm.ConfigError
		de *secrets.DecryptionError
		ue *llm.UnsupportedCapabilityError
	)
	switch {
	case errors.Is(err, ErrNoActiveService):
		return MsgNoService
	case errors.As(err, &ue):
		return MsgNoImages
	case errors.As(err, &ce), errors.As(err, &de):
		return MsgSettingsProblem
	default:
		return MsgProviderFailed
	}
}

func finalState(resp CoachResponse) string {
	if resp.Action == ActionFoodOptions {
		return StateAwaitingFoodChoice
	}
	return StateDone
}
