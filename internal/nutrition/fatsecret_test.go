package nutrition

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/tbourn/go-sparky-backend/internal/cache"
)

type fakeFatSecret struct {
	srv        *httptest.Server
	tokenCalls atomic.Int32
	apiCalls   atomic.Int32
}

func newFakeFatSecret(t *testing.T) *fakeFatSecret {
	t.Helper()
	f := &fakeFatSecret{}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		if id, secret, ok := r.BasicAuth(); !ok || id != "cid" || secret != "csecret" {
			http.Error(w, "bad client", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":86400}`))
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		f.apiCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_ = r.ParseForm()
		if r.Form.Get("format") != "json" {
			http.Error(w, "format", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.Form.Get("method") {
		case "foods.search":
			if r.Form.Get("search_expression") == "one" {
				_, _ = w.Write([]byte(`{"foods":{"food":{"food_id":"1","food_name":"Apple","food_type":"Generic","food_description":"Per 100g - Calories: 52kcal"},"page_number":"0","total_results":"1"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"foods":{"food":[{"food_id":"1","food_name":"Apple","food_type":"Generic"},{"food_id":"2","food_name":"Apple Pie","brand_name":"Bakery","food_type":"Brand"}],"page_number":"1","total_results":"42"}}`))
		case "food.get.v2":
			if r.Form.Get("food_id") == "404" {
				_, _ = w.Write([]byte(`{"error":{"code":106,"message":"Invalid ID"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"food":{"food_id":"1","food_name":"Apple","food_type":"Generic","servings":{"serving":{"serving_id":"9","serving_description":"1 medium","metric_serving_amount":"182.000","metric_serving_unit":"g","calories":"95","protein":"0.47","carbohydrate":"25.13","fat":"0.31","fiber":"4.4","sodium":"2"}}}}`))
		default:
			http.Error(w, "method", http.StatusBadRequest)
		}
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func newTestClient(t *testing.T, f *fakeFatSecret) *Client {
	t.Helper()
	c, err := New(Options{
		ClientID:     "cid",
		ClientSecret: "csecret",
		BaseURL:      f.srv.URL + "/api",
		TokenURL:     f.srv.URL + "/token",
		HTTPClient:   f.srv.Client(),
		Cache:        cache.NewMemory(100),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_Disabled(t *testing.T) {
	if _, err := New(Options{ClientID: "x"}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("want ErrDisabled, got %v", err)
	}
}

func TestSearch_ListAndSingle(t *testing.T) {
	f := newFakeFatSecret(t)
	c := newTestClient(t, f)
	ctx := context.Background()

	res, err := c.Search(ctx, "apple", 1, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Foods) != 2 || res.Total != 42 || res.Page != 1 || res.Foods[1].Brand != "Bakery" {
		t.Fatalf("result = %+v", res)
	}

	one, err := c.Search(ctx, "one", 0, 0)
	if err != nil || len(one.Foods) != 1 || one.Foods[0].Name != "Apple" {
		t.Fatalf("single = %+v, %v", one, err)
	}
	if got := f.tokenCalls.Load(); got != 1 {
		t.Fatalf("token should be cached, fetched %d times", got)
	}

	empty, err := c.Search(ctx, "   ", 0, 0)
	if err != nil || len(empty.Foods) != 0 || f.apiCalls.Load() != 2 {
		t.Fatalf("blank query should not hit the API")
	}
}

func TestNutrients_DecodesAndCaches(t *testing.T) {
	f := newFakeFatSecret(t)
	c := newTestClient(t, f)
	ctx := context.Background()

	d, err := c.Nutrients(ctx, "1")
	if err != nil {
		t.Fatalf("Nutrients: %v", err)
	}
	if len(d.Servings) != 1 {
		t.Fatalf("servings = %+v", d.Servings)
	}
	s := d.Servings[0]
	if s.Calories != 95 || s.Carbohydrate != 25.13 || s.MetricAmount != 182 || s.Fiber == nil || *s.Fiber != 4.4 {
		t.Fatalf("serving = %+v", s)
	}
	if s.Cholesterol != nil {
		t.Fatalf("missing nutrient should be nil")
	}

	if _, err := c.Nutrients(ctx, "1"); err != nil {
		t.Fatalf("cached Nutrients: %v", err)
	}
	if got := f.apiCalls.Load(); got != 1 {
		t.Fatalf("second lookup should come from cache, api calls = %d", got)
	}
}

func TestNutrients_APIError(t *testing.T) {
	c := newTestClient(t, newFakeFatSecret(t))
	_, err := c.Nutrients(context.Background(), "404")
	var ae *APIError
	if !errors.As(err, &ae) || ae.Code != 106 {
		t.Fatalf("want APIError 106, got %v", err)
	}
	if _, err := c.Nutrients(context.Background(), " "); err == nil {
		t.Fatalf("empty id should fail")
	}
}

func TestToken_BadCredentials(t *testing.T) {
	f := newFakeFatSecret(t)
	c, _ := New(Options{
		ClientID: "cid", ClientSecret: "wrong",
		BaseURL: f.srv.URL + "/api", TokenURL: f.srv.URL + "/token",
		HTTPClient: f.srv.Client(), Cache: cache.NewMemory(10),
	})
	if _, err := c.Search(context.Background(), "apple", 0, 0); err == nil {
		t.Fatalf("expected token error")
	}
	if f.apiCalls.Load() != 0 {
		t.Fatalf("API must not be called without a token")
	}
}
