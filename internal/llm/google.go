package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// geminiSendFunc performs one chat turn against Gemini. Swapped in tests.
type geminiSendFunc func(ctx context.Context, apiKey, model string, system *genai.Content, history []*genai.Content, parts []genai.Part) (*genai.GenerateContentResponse, error)

// GoogleAdapter calls Gemini through the generative-ai-go SDK. Gemini names
// the assistant role "model", wants chat history to open with a user turn and
// is stricter about system instruction size.
type GoogleAdapter struct {
	apiKey    string
	model     string
	maxSystem int
	send      geminiSendFunc
}

// Name implements ProviderAdapter.
func (a *GoogleAdapter) Name() string { return "google" }

// SupportsImages implements ProviderAdapter.
func (a *GoogleAdapter) SupportsImages() bool { return true }

// Complete implements ProviderAdapter.
func (a *GoogleAdapter) Complete(ctx context.Context, req Request) (string, error) {
	turns := alternateTurns(req.Messages)
	if len(turns) == 0 {
		return "", &ProviderError{Provider: a.Name(), Body: "no user message"}
	}
	var system *genai.Content
	if sys := sanitizePrompt(req.System, a.maxSystem); sys != "" {
		system = &genai.Content{Parts: []genai.Part{genai.Text(sys)}}
	}
	history := toGeminiHistory(turns[:len(turns)-1])
	last := toGeminiContent(turns[len(turns)-1])

	send := a.send
	if send == nil {
		send = sendGemini
	}
	resp, err := send(ctx, a.apiKey, a.model, system, history, last.Parts)
	if err != nil {
		return "", &ProviderError{Provider: a.Name(), Status: googleStatus(err), Body: err.Error()}
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &ProviderError{Provider: a.Name(), Body: "empty response"}
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func toGeminiHistory(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toGeminiContent(m))
	}
	return out
}

func toGeminiContent(m Message) *genai.Content {
	role := "user"
	if m.Role == RoleAssistant {
		role = "model"
	}
	parts := []genai.Part{genai.Text(m.Content)}
	if m.Image != nil {
		parts = append(parts, genai.Blob{MIMEType: m.Image.MIMEType, Data: m.Image.Data})
	}
	return &genai.Content{Role: role, Parts: parts}
}

func sendGemini(ctx context.Context, apiKey, model string, system *genai.Content, history []*genai.Content, parts []genai.Part) (*genai.GenerateContentResponse, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	gm := client.GenerativeModel(model)
	gm.SystemInstruction = system
	cs := gm.StartChat()
	cs.History = history
	return cs.SendMessage(ctx, parts...)
}

func googleStatus(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}
