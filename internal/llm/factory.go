package llm

import (
	"net/http"
	"strings"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// Default models used when a ServiceConfig leaves model_name empty.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultGoogleModel    = "gemini-1.5-flash"
	DefaultMistralModel   = "mistral-small-latest"
	DefaultGroqModel      = "llama-3.1-8b-instant"
	DefaultOllamaModel    = "llama3.1"
)

// Vendor endpoints. CustomURL on the config overrides them.
const (
	openAIBaseURL    = "https://api.openai.com/v1"
	anthropicBaseURL = "https://api.anthropic.com"
	mistralBaseURL   = "https://api.mistral.ai/v1"
	groqBaseURL      = "https://api.groq.com/openai/v1"
	ollamaBaseURL    = "http://localhost:11434"
)

// System prompt rune limits for vendors that reject long instructions.
const (
	groqSystemLimit    = 6000
	mistralSystemLimit = 8000
	googleSystemLimit  = 8000
	ollamaSystemLimit  = 4000
)

// Factory builds an adapter for a config with its decrypted key.
type Factory func(cfg *domain.ServiceConfig, apiKey string) (ProviderAdapter, error)

// DefaultFactories returns the adapter constructors for every supported
// service_type.
func DefaultFactories(client *http.Client) map[string]Factory {
	if client == nil {
		client = http.DefaultClient
	}
	return map[string]Factory{
		domain.ServiceOpenAI: func(cfg *domain.ServiceConfig, key string) (ProviderAdapter, error) {
			return &OpenAICompatAdapter{
				name:    domain.ServiceOpenAI,
				baseURL: pick(cfg.CustomURL, openAIBaseURL),
				apiKey:  key,
				model:   pick(cfg.ModelName, DefaultOpenAIModel),
				images:  true,
			}, nil
		},
		domain.ServiceMistral: func(cfg *domain.ServiceConfig, key string) (ProviderAdapter, error) {
			return &OpenAICompatAdapter{
				name:      domain.ServiceMistral,
				baseURL:   pick(cfg.CustomURL, mistralBaseURL),
				apiKey:    key,
				model:     pick(cfg.ModelName, DefaultMistralModel),
				maxSystem: mistralSystemLimit,
			}, nil
		},
		domain.ServiceGroq: func(cfg *domain.ServiceConfig, key string) (ProviderAdapter, error) {
			return &OpenAICompatAdapter{
				name:      domain.ServiceGroq,
				baseURL:   pick(cfg.CustomURL, groqBaseURL),
				apiKey:    key,
				model:     pick(cfg.ModelName, DefaultGroqModel),
				maxSystem: groqSystemLimit,
			}, nil
		},
		domain.ServiceOllama: func(cfg *domain.ServiceConfig, key string) (ProviderAdapter, error) {
			// Ollama ignores the key but the client insists on one.
			return &OpenAICompatAdapter{
				name:      domain.ServiceOllama,
				baseURL:   strings.TrimRight(pick(cfg.CustomURL, ollamaBaseURL), "/") + "/v1",
				apiKey:    pick(key, "ollama"),
				model:     pick(cfg.ModelName, DefaultOllamaModel),
				maxSystem: ollamaSystemLimit,
			}, nil
		},
		domain.ServiceCustom: func(cfg *domain.ServiceConfig, key string) (ProviderAdapter, error) {
			if strings.TrimSpace(cfg.CustomURL) == "" {
				return nil, &ConfigError{Reason: "custom service requires custom_url"}
			}
			if strings.TrimSpace(cfg.ModelName) == "" {
				return nil, &ConfigError{Reason: "custom service requires model_name"}
			}
			return &OpenAICompatAdapter{
				name:    domain.ServiceCustom,
				baseURL: cfg.CustomURL,
				apiKey:  key,
				model:   cfg.ModelName,
			}, nil
		},
		domain.ServiceAnthropic: func(cfg *domain.ServiceConfig, key string) (ProviderAdapter, error) {
			return &AnthropicAdapter{
				baseURL: pick(cfg.CustomURL, anthropicBaseURL),
				apiKey:  key,
				model:   pick(cfg.ModelName, DefaultAnthropicModel),
				client:  client,
			}, nil
		},
		domain.ServiceGoogle: func(cfg *domain.ServiceConfig, key string) (ProviderAdapter, error) {
			return &GoogleAdapter{
				apiKey:    key,
				model:     pick(cfg.ModelName, DefaultGoogleModel),
				maxSystem: googleSystemLimit,
			}, nil
		},
	}
}

func pick(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
