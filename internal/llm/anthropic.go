package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/schema"
)

const anthropicMaxTokens = 1024

// AnthropicAdapter calls the Anthropic Messages API through the eino Claude
// chat model. Claude requires the conversation to open with a user turn and
// to alternate roles.
type AnthropicAdapter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// Name implements ProviderAdapter.
func (a *AnthropicAdapter) Name() string { return "anthropic" }

// SupportsImages implements ProviderAdapter.
func (a *AnthropicAdapter) SupportsImages() bool { return true }

// Complete implements ProviderAdapter.
func (a *AnthropicAdapter) Complete(ctx context.Context, req Request) (string, error) {
	msgs := a.toEino(req)
	if len(msgs) == 0 || msgs[len(msgs)-1].Role == schema.System {
		return "", &ProviderError{Provider: a.Name(), Body: "no user message"}
	}

	tr := newOneShotTransport(a.client)
	cfg := &claude.Config{
		APIKey:     a.apiKey,
		Model:      a.model,
		MaxTokens:  anthropicMaxTokens,
		HTTPClient: tr.client(a.client),
	}
	if a.baseURL != "" {
		base := a.baseURL
		cfg.BaseURL = &base
	}
	cm, err := claude.NewChatModel(ctx, cfg)
	if err != nil {
		return "", &ConfigError{Reason: "anthropic client", Err: err}
	}
	out, err := cm.Generate(ctx, msgs)
	if err != nil {
		if terr := tr.failure(); terr != nil {
			return "", &ProviderError{Provider: a.Name(), Body: terr.Error()}
		}
		return "", &ProviderError{Provider: a.Name(), Status: anthropicStatus(err), Body: err.Error()}
	}
	if out == nil {
		return "", &ProviderError{Provider: a.Name(), Body: "empty response"}
	}
	return out.Content, nil
}

func (a *AnthropicAdapter) toEino(req Request) []*schema.Message {
	turns := alternateTurns(req.Messages)
	msgs := make([]*schema.Message, 0, len(turns)+1)
	if sys := sanitizePrompt(req.System, 0); sys != "" {
		msgs = append(msgs, schema.SystemMessage(sys))
	}
	for _, m := range turns {
		if m.Role == RoleAssistant {
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
			continue
		}
		um := schema.UserMessage(m.Content)
		if m.Image != nil {
			um.Content = ""
			um.MultiContent = []schema.ChatMessagePart{
				{Type: schema.ChatMessagePartTypeImageURL, ImageURL: &schema.ChatMessageImageURL{URL: dataURL(m.Image), MIMEType: m.Image.MIMEType}},
			}
			if m.Content != "" {
				um.MultiContent = append(um.MultiContent, schema.ChatMessagePart{Type: schema.ChatMessagePartTypeText, Text: m.Content})
			}
		}
		msgs = append(msgs, um)
	}
	return msgs
}

var anthropicStatusRe = regexp.MustCompile(`": (\d{3}) `)

// anthropicStatus returns the HTTP status of a failed call, read from the
// SDK error when it is wrapped and from its message otherwise; 0 when absent.
func anthropicStatus(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	m := anthropicStatusRe.FindStringSubmatch(err.Error())
	if len(m) != 2 {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// oneShotTransport makes the Anthropic client issue exactly one HTTP request
// per call. Every response is marked final, and a transport failure becomes a
// final 502 whose real cause is kept for the caller.
type oneShotTransport struct {
	base http.RoundTripper

	mu  sync.Mutex
	err error
}

func newOneShotTransport(c *http.Client) *oneShotTransport {
	base := http.DefaultTransport
	if c != nil && c.Transport != nil {
		base = c.Transport
	}
	return &oneShotTransport{base: base}
}

func (t *oneShotTransport) client(c *http.Client) *http.Client {
	hc := &http.Client{Transport: t}
	if c != nil {
		hc.Timeout = c.Timeout
	}
	return hc
}

func (t *oneShotTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil {
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Status:     "502 Bad Gateway",
			Proto:      "HTTP/1.1",
			ProtoMajor: 1,
			ProtoMinor: 1,
			Header:     http.Header{"Content-Type": {"application/json"}, "X-Should-Retry": {"false"}},
			Body:       io.NopCloser(strings.NewReader(`{"type":"error","error":{"type":"api_error","message":"transport failure"}}`)),
			Request:    req,
		}, nil
	}
	if res.Header == nil {
		res.Header = http.Header{}
	}
	res.Header.Set("X-Should-Retry", "false")
	return res, nil
}

func (t *oneShotTransport) failure() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
