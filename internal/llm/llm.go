// Package llm is the provider gateway of the coach. It turns a normalized
// conversation into one call against a third-party LLM API chosen by the
// user's ServiceConfig, and normalizes every vendor response into a single
// content string.
//
// Each vendor is a ProviderAdapter. The OpenAI-compatible family (OpenAI,
// Mistral, Groq, Ollama, custom endpoints) goes through the eino OpenAI chat
// model, Anthropic through the eino Claude chat model and Google through the
// Gemini SDK. Adapters issue exactly one request per turn.
package llm

import (
	"context"
	"fmt"
)

// Conversation roles understood by every adapter.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Image is an inline image attached to a user message.
type Image struct {
	MIMEType string
	Data     []byte
}

// Message is one normalized conversation entry.
type Message struct {
	Role    string
	Content string
	Image   *Image
}

// Request is what an adapter receives: the merged system prompt and the
// remaining turns in chronological order.
type Request struct {
	System   string
	Messages []Message
}

// HasImage reports whether any turn carries an image.
func (r Request) HasImage() bool {
	for _, m := range r.Messages {
		if m.Image != nil {
			return true
		}
	}
	return false
}

// ProviderAdapter is one vendor integration.
type ProviderAdapter interface {
	// Name is the service_type tag the adapter serves.
	Name() string
	// SupportsImages reports whether inline images can be sent.
	SupportsImages() bool
	// Complete issues a single synchronous call and returns the text answer.
	Complete(ctx context.Context, req Request) (string, error)
}

// Completer is the narrow view the coach depends on.
type Completer interface {
	CompleteActive(ctx context.Context, userID string, msgs []Message) (string, error)
}

// ProviderError is a non-2xx or transport failure from a vendor. Status is 0
// for transport failures.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: request failed: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Body)
}

// UnsupportedCapabilityError is returned when a request needs a feature the
// selected provider lacks, for example images on a text-only vendor.
type UnsupportedCapabilityError struct {
	Provider   string
	Capability string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("%s does not support %s input", e.Provider, e.Capability)
}

// ConfigError reports an unusable ServiceConfig: missing, unknown type or
// missing endpoint.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return "ai service config: " + e.Reason + ": " + e.Err.Error()
	}
	return "ai service config: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }
