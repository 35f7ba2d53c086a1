package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/llm"
	"github.com/tbourn/go-sparky-backend/internal/repo"
)

const intentInstructions = `You are Sparky, a friendly fitness and nutrition coach inside a tracking app.
Classify the user's latest message and answer with ONE JSON object and nothing else:

{"intent": "...", "data": {...}, "entryDate": "...", "response": "..."}

intent is one of:
- log_food: data {"food_name": string, "quantity": number, "unit": string, "meal_type": "breakfast"|"lunch"|"dinner"|"snacks"}
- log_exercise: data {"exercise_name": string, "duration_minutes": number, "distance": number, "distance_unit": string}
- log_measurement: data {"measurements": [{"type": "weight"|"neck"|"waist"|"hips"|"steps"|"custom", "value": number, "unit": string, "name": string}]}
- log_water: data {"glasses_consumed": number}
- ask_question: a nutrition or fitness question; put the answer in "response"
- chat: anything else; put a short friendly reply in "response"

Rules:
- entryDate is only set when the user names a day: "today", "yesterday", "tomorrow" or a date as MM-DD or MM-DD-YYYY.
- For custom measurements set type "custom" and name to the exact category name when one of the user's categories matches.
- Never invent quantities the user did not give; leave them out instead.
- If an image is attached, identify the food in it and use log_food.`

// ExtractInput is everything the extractor needs for one turn.
type ExtractInput struct {
	UserID  string
	Text    string
	Image   *llm.Image
	History []domain.ChatTurn
}

// IntentExtractor asks the user's active provider to classify a message.
type IntentExtractor struct {
	DB        *gorm.DB
	Completer llm.Completer
}

// Extract returns the parsed intent. Provider failures are returned as
// errors; unparseable output becomes a chat intent carrying the raw text.
func (x *IntentExtractor) Extract(ctx context.Context, in ExtractInput) (IntentResult, error) {
	ctx, span := otel.Tracer("services/IntentExtractor").Start(ctx, "Extract",
		trace.WithAttributes(
			attribute.String("user.id", in.UserID),
			attribute.Bool("input.image", in.Image != nil),
		),
	)
	defer span.End()

	raw, err := x.Completer.CompleteActive(ctx, in.UserID, x.buildMessages(ctx, in))
	if err != nil {
		return IntentResult{}, err
	}

	res, err := ParseIntent(raw)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			log.Debug().Str("user_id", in.UserID).Str("reason", pe.Reason).Msg("intent parse fell back to chat")
		}
		span.SetAttributes(attribute.Bool("intent.fallback", true))
		return IntentResult{Intent: IntentChat, Response: strings.TrimSpace(raw)}, nil
	}
	span.SetAttributes(attribute.String("intent", res.Intent))
	return res, nil
}

func (x *IntentExtractor) buildMessages(ctx context.Context, in ExtractInput) []llm.Message {
	system := intentInstructions
	if x.DB != nil {
		names, err := repo.ListCustomCategoryNames(ctx, x.DB, in.UserID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", in.UserID).Msg("list custom categories")
		}
		if len(names) > 0 {
			system += "\n\nThe user's custom measurement categories: " + strings.Join(names, ", ") + "."
		}
	}

	msgs := make([]llm.Message, 0, len(in.History)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, t := range in.History {
		role := llm.RoleUser
		if t.Role == domain.RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Content})
	}
	text := strings.TrimSpace(in.Text)
	if text == "" && in.Image != nil {
		text = "What food is in this picture?"
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: text, Image: in.Image})
	return msgs
}
