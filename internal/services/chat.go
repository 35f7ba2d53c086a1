package services

import "strings"

const fallbackAnswer = "I'm not sure how to help with that. You can tell me what you ate, how you trained, your measurements or how much water you drank."

// ChatHandler wraps conversational answers. It has no side effects.
type ChatHandler struct{}

// Respond maps ask_question to advice and everything else to chat.
func (ChatHandler) Respond(r IntentResult) CoachResponse {
	text := strings.TrimSpace(r.Response)
	if text == "" {
		text = fallbackAnswer
	}
	if r.Intent == IntentAskQuestion {
		return reply(ActionAdvice, text, nil)
	}
	return reply(ActionChat, text, nil)
}
