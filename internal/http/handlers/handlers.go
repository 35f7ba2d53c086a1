// Package handlers provides the HTTP endpoints of the Sparky API.
//
// Handlers are transport-thin: they read the caller identity set by the auth
// middleware, validate input, call a service and translate the result into
// JSON. Every dependency is an interface so tests can substitute fakes.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/http/middleware"
	"github.com/tbourn/go-sparky-backend/internal/nutrition"
	"github.com/tbourn/go-sparky-backend/internal/services"
	"github.com/tbourn/go-sparky-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// Coach runs one chat turn. It never fails; failures come back as a
// response with action "none".
type Coach interface {
	ProcessInput(ctx context.Context, in services.ProcessInput) services.CoachResponse
}

// ReplayStore remembers chat turn responses by transaction id.
type ReplayStore interface {
	Lookup(ctx context.Context, userID, key string) (*services.CoachResponse, bool, error)
	Save(ctx context.Context, userID, key string, resp services.CoachResponse) error
}

// HistoryService manages the chat transcript.
type HistoryService interface {
	Append(ctx context.Context, userID, role, content string, metadata map[string]any) (*domain.ChatTurn, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]domain.ChatTurn, int64, error)
	Stats(ctx context.Context, userID string) (int64, *time.Time, error)
	Clear(ctx context.Context, userID string) (int64, error)
	ApplyRetention(ctx context.Context, userID string, sessionStart bool) (int64, error)
}

// SettingsService manages AI provider configurations.
type SettingsService interface {
	List(ctx context.Context, userID string) ([]domain.ServiceConfig, error)
	Create(ctx context.Context, userID string, in services.ServiceConfigInput) (*domain.ServiceConfig, error)
	Update(ctx context.Context, userID, id string, in services.ServiceConfigInput) (*domain.ServiceConfig, error)
	Delete(ctx context.Context, userID, id string) error
	Activate(ctx context.Context, userID, id string) (*domain.ServiceConfig, error)
}

// PreferencesService reads and writes coach preferences.
type PreferencesService interface {
	Get(ctx context.Context, userID string) (*domain.UserPreferences, error)
	Update(ctx context.Context, userID string, in services.PreferencesInput) (*domain.UserPreferences, error)
}

// FoodSearch is the FatSecret proxy. *nutrition.Client satisfies it.
type FoodSearch interface {
	Search(ctx context.Context, query string, page, perPage int) (*nutrition.SearchResult, error)
	Nutrients(ctx context.Context, id string) (*nutrition.FoodDetail, error)
}

//
// Handler wiring
//

// Deps lists the services behind the endpoints. Foods may be nil when the
// FatSecret integration is not configured.
type Deps struct {
	Coach       Coach
	Replay      ReplayStore
	History     HistoryService
	Settings    SettingsService
	Preferences PreferencesService
	Foods       FoodSearch

	// MaxImageBytes caps the image part of a chat turn.
	MaxImageBytes int64
}

// Handlers groups the HTTP endpoints of the API.
type Handlers struct {
	coach    Coach
	replay   ReplayStore
	history  HistoryService
	settings SettingsService
	prefs    PreferencesService
	foods    FoodSearch

	maxImageBytes int64
}

// New constructs Handlers bound to d.
func New(d Deps) *Handlers {
	maxImg := d.MaxImageBytes
	if maxImg <= 0 {
		maxImg = 5 << 20
	}
	return &Handlers{
		coach:         d.Coach,
		replay:        d.Replay,
		history:       d.History,
		settings:      d.Settings,
		prefs:         d.Preferences,
		foods:         d.Foods,
		maxImageBytes: maxImg,
	}
}

// userID returns the caller identity set by the auth middleware. When none
// is present it writes a 401 and reports false.
func userID(c *gin.Context) (string, bool) {
	uid := middleware.UserID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing user identity")
		return "", false
	}
	return uid, true
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 200
	)
	page = max(utils.AtoiDefault(c.Query("page"), defaultPage), 1)
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}
