package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func createConfig(t *testing.T, r http.Handler, user string, body map[string]any) ServiceConfigResponse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/chat/ai-service-settings", user, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	var out ServiceConfigResponse
	decodeInto(t, w, &out)
	return out
}

func TestSettings_CreateListActivate(t *testing.T) {
	r := newTestRouter(dbDeps(t, newHandlerDB(t)))

	first := createConfig(t, r, "u1", map[string]any{
		"service_name": "My OpenAI", "service_type": "openai", "api_key": "sk-test-123", "model_name": "gpt-4o-mini",
	})
	if !first.IsActive || !first.HasAPIKey || first.ServiceType != "openai" {
		t.Fatalf("unexpected first config: %+v", first)
	}
	second := createConfig(t, r, "u1", map[string]any{"service_name": "Local", "service_type": "ollama"})
	if second.IsActive || second.HasAPIKey {
		t.Fatalf("second config should be inactive without a key: %+v", second)
	}

	w := do(r, http.MethodGet, "/api/chat/ai-service-settings", "u1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	if strings.Contains(w.Body.String(), "sk-test-123") {
		t.Fatalf("API key leaked in list response")
	}
	var list []ServiceConfigResponse
	decodeInto(t, w, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 configs, got %d", len(list))
	}

	w = do(r, http.MethodPost, "/api/chat/ai-service-settings/"+second.ID+"/activate", "u1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("activate status=%d body=%s", w.Code, w.Body.String())
	}
	decodeInto(t, do(r, http.MethodGet, "/api/chat/ai-service-settings", "u1", nil, nil), &list)
	active := 0
	for _, c := range list {
		if c.IsActive {
			active++
			if c.ID != second.ID {
				t.Fatalf("wrong config active: %+v", c)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active config, got %d", active)
	}
}

func TestSettings_UpdateAndDelete(t *testing.T) {
	r := newTestRouter(dbDeps(t, newHandlerDB(t)))
	cfg := createConfig(t, r, "u1", map[string]any{"service_name": "A", "service_type": "openai", "api_key": "k"})

	w := doJSON(r, http.MethodPut, "/api/chat/ai-service-settings/"+cfg.ID, "u1", map[string]any{"model_name": "gpt-4o", "api_key": ""})
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", w.Code, w.Body.String())
	}
	var upd ServiceConfigResponse
	decodeInto(t, w, &upd)
	if upd.ModelName != "gpt-4o" || upd.ServiceName != "A" || upd.HasAPIKey {
		t.Fatalf("unexpected update: %+v", upd)
	}

	if w := do(r, http.MethodDelete, "/api/chat/ai-service-settings/"+cfg.ID, "u2", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status=%d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/chat/ai-service-settings/"+cfg.ID, "u1", nil, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/chat/ai-service-settings/"+cfg.ID, "u1", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", w.Code)
	}
}

func TestSettings_Errors(t *testing.T) {
	r := newTestRouter(dbDeps(t, newHandlerDB(t)))
	cfg := createConfig(t, r, "u1", map[string]any{"service_name": "A", "service_type": "openai"})

	cases := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		status int
	}{
		{"bad id", http.MethodPut, "/api/chat/ai-service-settings/not-a-uuid", "u1", map[string]any{}, 400},
		{"unknown type", http.MethodPost, "/api/chat/ai-service-settings", "u1", map[string]any{"service_type": "skynet"}, 400},
		{"missing type", http.MethodPost, "/api/chat/ai-service-settings", "u1", map[string]any{"service_name": "x"}, 400},
		{"custom without url", http.MethodPost, "/api/chat/ai-service-settings", "u1", map[string]any{"service_type": "custom"}, 400},
		{"custom with ftp url", http.MethodPost, "/api/chat/ai-service-settings", "u1", map[string]any{"service_type": "custom", "custom_url": "ftp://x"}, 400},
		{"activate foreign", http.MethodPost, "/api/chat/ai-service-settings/" + cfg.ID + "/activate", "u2", nil, 404},
		{"activate missing", http.MethodPost, "/api/chat/ai-service-settings/" + uuid.NewString() + "/activate", "u1", nil, 404},
		{"anonymous", http.MethodGet, "/api/chat/ai-service-settings", "", nil, 401},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, tc.method, tc.path, tc.user, tc.body)
			if w.Code != tc.status {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.status, w.Body.String())
			}
		})
	}
}
