package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-sparky-backend/internal/http/middleware"
	"github.com/tbourn/go-sparky-backend/internal/nutrition"
	"github.com/tbourn/go-sparky-backend/internal/repo"
	"github.com/tbourn/go-sparky-backend/internal/secrets"
	"github.com/tbourn/go-sparky-backend/internal/services"
)

// ---------- test DB + router ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// dbDeps wires the real history, settings and preferences services.
func dbDeps(t *testing.T, db *gorm.DB) Deps {
	t.Helper()
	cipher, err := secrets.New("handler-test-secret")
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	return Deps{
		History:     &services.HistoryService{DB: db},
		Settings:    &services.SettingsService{DB: db, Cipher: cipher},
		Preferences: &services.PreferencesService{DB: db},
	}
}

func newTestRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(d)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Auth(middleware.AuthOptions{}))
	api := r.Group("/api")
	api.POST("/chat/process-input", h.ProcessInput)
	api.GET("/chat/history", h.ListHistory)
	api.POST("/chat/history", h.AppendHistory)
	api.DELETE("/chat/history", h.ClearHistory)
	api.POST("/chat/history/clear-old", h.ClearOldHistory)
	api.GET("/chat/ai-service-settings", h.ListServiceConfigs)
	api.POST("/chat/ai-service-settings", h.CreateServiceConfig)
	api.PUT("/chat/ai-service-settings/:id", h.UpdateServiceConfig)
	api.DELETE("/chat/ai-service-settings/:id", h.DeleteServiceConfig)
	api.POST("/chat/ai-service-settings/:id/activate", h.ActivateServiceConfig)
	api.GET("/preferences", h.GetPreferences)
	api.PUT("/preferences", h.UpdatePreferences)
	api.GET("/foods/fatsecret/search", h.SearchFoods)
	api.GET("/foods/fatsecret/nutrients", h.FoodNutrients)
	return r
}

// do sends a request as user (empty means anonymous).
func do(r http.Handler, method, path, user string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	return do(r, method, path, user, bytes.NewReader(b), http.Header{"Content-Type": {"application/json"}})
}

// multipartBody builds a form with optional file part "image".
func multipartBody(t *testing.T, fields map[string]string, image []byte) (io.Reader, http.Header) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "meal.bin")
		if err != nil {
			t.Fatalf("file: %v", err)
		}
		_, _ = fw.Write(image)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return &buf, http.Header{"Content-Type": {mw.FormDataContentType()}}
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// ---------- fakes ----------

type fakeCoach struct {
	mu    sync.Mutex
	calls []services.ProcessInput
	resp  services.CoachResponse
}

func (f *fakeCoach) ProcessInput(_ context.Context, in services.ProcessInput) services.CoachResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, in)
	return f.resp
}

type memReplay struct {
	mu      sync.Mutex
	stored  map[string]services.CoachResponse
	lookErr error
}

func newMemReplay() *memReplay {
	return &memReplay{stored: map[string]services.CoachResponse{}}
}

func (m *memReplay) Lookup(_ context.Context, userID, key string) (*services.CoachResponse, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookErr != nil {
		return nil, false, m.lookErr
	}
	r, ok := m.stored[userID+"|"+key]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (m *memReplay) Save(_ context.Context, userID, key string, resp services.CoachResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored[userID+"|"+key] = resp
	return nil
}

type fakeFoods struct {
	query        string
	page, per    int
	nutrientsErr error
}

func (f *fakeFoods) Search(_ context.Context, query string, page, perPage int) (*nutrition.SearchResult, error) {
	f.query, f.page, f.per = query, page, perPage
	return &nutrition.SearchResult{
		Foods: []nutrition.FoodSummary{{ID: "33691", Name: "Greek Yogurt", Type: "Generic"}},
		Page:  page,
		Total: 1,
	}, nil
}

func (f *fakeFoods) Nutrients(_ context.Context, id string) (*nutrition.FoodDetail, error) {
	if f.nutrientsErr != nil {
		return nil, f.nutrientsErr
	}
	return &nutrition.FoodDetail{ID: id, Name: "Greek Yogurt"}, nil
}
