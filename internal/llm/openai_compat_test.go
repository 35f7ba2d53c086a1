package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAICompat_Complete(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"intent\":\"chat\"}"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer srv.Close()

	a := &OpenAICompatAdapter{name: "openai", baseURL: srv.URL, apiKey: "sk-test", model: "gpt-test", images: true}
	out, err := a.Complete(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"intent":"chat"}` {
		t.Fatalf("content = %q", out)
	}
	if !strings.Contains(body, `"gpt-test"`) || !strings.Contains(body, `"system"`) {
		t.Fatalf("request body = %s", body)
	}
}

func TestOpenAICompat_ToEino(t *testing.T) {
	a := &OpenAICompatAdapter{name: "groq", maxSystem: 3}
	msgs := a.toEino(Request{
		System: "abcdef",
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "yo"},
			{Role: RoleUser, Content: "see", Image: &Image{MIMEType: "image/png", Data: []byte("x")}},
		},
	})
	if len(msgs) != 4 {
		t.Fatalf("len = %d", len(msgs))
	}
	if msgs[0].Content != "abc" || string(msgs[0].Role) != RoleSystem {
		t.Fatalf("system = %+v", msgs[0])
	}
	if string(msgs[2].Role) != RoleAssistant {
		t.Fatalf("assistant role = %q", msgs[2].Role)
	}
	parts := msgs[3].MultiContent
	if len(parts) != 2 || parts[1].ImageURL == nil || parts[1].ImageURL.URL != "data:image/png;base64,eA==" {
		t.Fatalf("multi content = %+v", parts)
	}
}

func TestOpenAICompat_Complete_ErrorIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	a := &OpenAICompatAdapter{name: "mistral", baseURL: srv.URL, apiKey: "k", model: "m"}
	_, err := a.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Provider != "mistral" {
		t.Fatalf("want ProviderError, got %v", err)
	}
}

func TestStatusFromMessage(t *testing.T) {
	if got := statusFromMessage("error, status code: 429, status: 429 Too Many Requests"); got != 429 {
		t.Fatalf("status = %d", got)
	}
	if got := statusFromMessage("dial tcp: refused"); got != 0 {
		t.Fatalf("status = %d", got)
	}
}
