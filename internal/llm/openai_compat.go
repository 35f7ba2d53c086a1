package llm

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
)

// OpenAICompatAdapter talks to any OpenAI-compatible /chat/completions API
// through the eino chat model.
type OpenAICompatAdapter struct {
	name      string
	baseURL   string
	apiKey    string
	model     string
	images    bool
	maxSystem int
}

// Name implements ProviderAdapter.
func (a *OpenAICompatAdapter) Name() string { return a.name }

// SupportsImages implements ProviderAdapter.
func (a *OpenAICompatAdapter) SupportsImages() bool { return a.images }

// Complete implements ProviderAdapter.
func (a *OpenAICompatAdapter) Complete(ctx context.Context, req Request) (string, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  a.apiKey,
		BaseURL: a.baseURL,
		Model:   a.model,
	})
	if err != nil {
		return "", &ConfigError{Reason: a.name + " client", Err: err}
	}
	out, err := cm.Generate(ctx, a.toEino(req))
	if err != nil {
		return "", &ProviderError{Provider: a.name, Status: statusFromMessage(err.Error()), Body: err.Error()}
	}
	if out == nil {
		return "", &ProviderError{Provider: a.name, Body: "empty response"}
	}
	return out.Content, nil
}

func (a *OpenAICompatAdapter) toEino(req Request) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(req.Messages)+1)
	if sys := sanitizePrompt(req.System, a.maxSystem); sys != "" {
		msgs = append(msgs, schema.SystemMessage(sys))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		default:
			um := schema.UserMessage(m.Content)
			if m.Image != nil {
				um.Content = ""
				um.MultiContent = []schema.ChatMessagePart{
					{Type: schema.ChatMessagePartTypeText, Text: m.Content},
					{Type: schema.ChatMessagePartTypeImageURL, ImageURL: &schema.ChatMessageImageURL{URL: dataURL(m.Image)}},
				}
			}
			msgs = append(msgs, um)
		}
	}
	return msgs
}

var statusRe = regexp.MustCompile(`status code: (\d{3})`)

// statusFromMessage recovers the HTTP status the OpenAI client embeds in its
// error text; 0 when absent.
func statusFromMessage(msg string) int {
	m := statusRe.FindStringSubmatch(strings.ToLower(msg))
	if len(m) != 2 {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
