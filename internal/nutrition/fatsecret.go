// Package nutrition is a thin client for the FatSecret platform API, used to
// look up foods and their per-serving nutrients. Access tokens come from the
// OAuth2 client-credentials flow and, like nutrient lookups, are kept in the
// shared cache so several instances reuse them.
package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tbourn/go-sparky-backend/internal/cache"
)

const (
	tokenCacheKey  = "fatsecret:token"
	foodCacheKey   = "fatsecret:food:"
	nutrientTTL    = 5 * time.Minute
	tokenEarlySkew = 60 * time.Second
	maxSearchPage  = 50
)

// ErrDisabled is returned when no FatSecret credentials are configured.
var ErrDisabled = errors.New("fatsecret integration is not configured")

// APIError is an error payload returned by FatSecret, usually with HTTP 200.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("fatsecret: error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("fatsecret: status %d: %s", e.Status, e.Message)
}

// Options configures a Client.
type Options struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	HTTPClient   *http.Client
	Cache        cache.Cache
}

// Client calls the FatSecret REST API.
type Client struct {
	baseURL string
	http    *http.Client
	creds   *clientcredentials.Config
	cache   cache.Cache
}

// New builds a Client. It returns ErrDisabled when credentials are missing.
func New(opts Options) (*Client, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, ErrDisabled
	}
	if opts.Cache == nil {
		return nil, errors.New("fatsecret: cache is required")
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: opts.BaseURL,
		http:    hc,
		creds: &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
			Scopes:       []string{"basic"},
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		cache: opts.Cache,
	}, nil
}

type cachedToken struct {
	AccessToken string    `json:"access_token"`
	Expiry      time.Time `json:"expiry"`
}

// token returns a bearer token, from cache while it has more than a minute
// left.
func (c *Client) token(ctx context.Context) (string, error) {
	var ct cachedToken
	if ok, err := cache.GetJSON(ctx, c.cache, tokenCacheKey, &ct); err != nil {
		log.Warn().Err(err).Msg("fatsecret token cache read")
	} else if ok && ct.AccessToken != "" {
		return ct.AccessToken, nil
	}

	tok, err := c.creds.Token(context.WithValue(ctx, oauth2.HTTPClient, c.http))
	if err != nil {
		return "", fmt.Errorf("fatsecret token: %w", err)
	}
	ttl := time.Hour
	if !tok.Expiry.IsZero() {
		ttl = time.Until(tok.Expiry) - tokenEarlySkew
	}
	if ttl > 0 {
		ct = cachedToken{AccessToken: tok.AccessToken, Expiry: tok.Expiry}
		if err := cache.SetJSON(ctx, c.cache, tokenCacheKey, ct, ttl); err != nil {
			log.Warn().Err(err).Msg("fatsecret token cache write")
		}
	}
	return tok.AccessToken, nil
}

// call POSTs a method with form params and decodes the JSON answer into dst.
func (c *Client) call(ctx context.Context, method string, params url.Values, dst any) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}
	params.Set("method", method)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+tok)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fatsecret %s: %w", method, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("fatsecret %s: read body: %w", method, err)
	}

	if res.StatusCode == http.StatusUnauthorized {
		// Force a fresh token next time.
		_ = c.cache.Delete(ctx, tokenCacheKey)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{Status: res.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var envelope struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return &APIError{Status: res.StatusCode, Code: envelope.Error.Code, Message: envelope.Error.Message}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("fatsecret %s: decode: %w", method, err)
	}
	return nil
}

// Search runs foods.search. page is zero based.
func (c *Client) Search(ctx context.Context, query string, page, perPage int) (*SearchResult, error) {
	ctx, span := otel.Tracer("nutrition/FatSecret").Start(ctx, "Search",
		trace.WithAttributes(attribute.String("query", query), attribute.Int("page", page)),
	)
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{}, nil
	}
	if page < 0 {
		page = 0
	}
	if perPage <= 0 || perPage > maxSearchPage {
		perPage = 20
	}
	params := url.Values{}
	params.Set("search_expression", query)
	params.Set("page_number", strconv.Itoa(page))
	params.Set("max_results", strconv.Itoa(perPage))

	var raw struct {
		Foods struct {
			Food         many[foodSummaryWire] `json:"food"`
			PageNumber   flexNum               `json:"page_number"`
			TotalResults flexNum               `json:"total_results"`
		} `json:"foods"`
	}
	if err := c.call(ctx, "foods.search", params, &raw); err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := &SearchResult{Page: int(raw.Foods.PageNumber), Total: int(raw.Foods.TotalResults)}
	for _, f := range raw.Foods.Food {
		out.Foods = append(out.Foods, FoodSummary{
			ID:          f.ID,
			Name:        f.Name,
			Brand:       f.Brand,
			Type:        f.Type,
			Description: f.Description,
		})
	}
	return out, nil
}

// Nutrients runs food.get.v2 for id. Results are cached for five minutes.
func (c *Client) Nutrients(ctx context.Context, id string) (*FoodDetail, error) {
	ctx, span := otel.Tracer("nutrition/FatSecret").Start(ctx, "Nutrients",
		trace.WithAttributes(attribute.String("food.id", id)),
	)
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("fatsecret: food id is required")
	}
	var cached FoodDetail
	if ok, err := cache.GetJSON(ctx, c.cache, foodCacheKey+id, &cached); err == nil && ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}

	params := url.Values{}
	params.Set("food_id", id)
	var raw struct {
		Food struct {
			ID       string `json:"food_id"`
			Name     string `json:"food_name"`
			Brand    string `json:"brand_name"`
			Type     string `json:"food_type"`
			Servings struct {
				Serving many[servingWire] `json:"serving"`
			} `json:"servings"`
		} `json:"food"`
	}
	if err := c.call(ctx, "food.get.v2", params, &raw); err != nil {
		span.RecordError(err)
		return nil, err
	}

	d := &FoodDetail{ID: raw.Food.ID, Name: raw.Food.Name, Brand: raw.Food.Brand, Type: raw.Food.Type}
	for _, s := range raw.Food.Servings.Serving {
		d.Servings = append(d.Servings, s.toServing())
	}
	if err := cache.SetJSON(ctx, c.cache, foodCacheKey+id, d, nutrientTTL); err != nil {
		log.Warn().Err(err).Str("food_id", id).Msg("fatsecret nutrient cache write")
	}
	return d, nil
}
