package handlers

import (
	"net/http"
	"testing"

	"github.com/tbourn/go-sparky-backend/internal/nutrition"
)

func TestSearchFoods(t *testing.T) {
	foods := &fakeFoods{}
	r := newTestRouter(Deps{Foods: foods})

	w := do(r, http.MethodGet, "/api/foods/fatsecret/search?query=greek%20yogurt&page=2&max_results=5", "u1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if foods.query != "greek yogurt" || foods.page != 2 || foods.per != 5 {
		t.Fatalf("params not passed: %+v", foods)
	}
	var res nutrition.SearchResult
	decodeInto(t, w, &res)
	if len(res.Foods) != 1 || res.Foods[0].ID != "33691" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if w := do(r, http.MethodGet, "/api/foods/fatsecret/search?query=%20", "u1", nil, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("blank query status=%d", w.Code)
	}
	do(r, http.MethodGet, "/api/foods/fatsecret/search?query=egg&page=-3", "u1", nil, nil)
	if foods.page != 0 {
		t.Fatalf("negative page should clamp to 0, got %d", foods.page)
	}
}

func TestFoodNutrients(t *testing.T) {
	foods := &fakeFoods{}
	r := newTestRouter(Deps{Foods: foods})

	w := do(r, http.MethodGet, "/api/foods/fatsecret/nutrients?food_id=33691", "u1", nil, nil)
	var d nutrition.FoodDetail
	decodeInto(t, w, &d)
	if w.Code != http.StatusOK || d.ID != "33691" {
		t.Fatalf("got %d %+v", w.Code, d)
	}

	if w := do(r, http.MethodGet, "/api/foods/fatsecret/nutrients", "u1", nil, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing id status=%d", w.Code)
	}

	foods.nutrientsErr = &nutrition.APIError{Status: 200, Code: 106, Message: "Invalid ID"}
	w = do(r, http.MethodGet, "/api/foods/fatsecret/nutrients?food_id=1", "u1", nil, nil)
	var er ErrorResponse
	decodeInto(t, w, &er)
	if w.Code != http.StatusBadGateway || er.Code != ErrCodeUpstreamFailed {
		t.Fatalf("upstream error: %d %+v", w.Code, er)
	}
}

func TestFoods_Disabled(t *testing.T) {
	r := newTestRouter(Deps{})
	for _, path := range []string{"/api/foods/fatsecret/search?query=egg", "/api/foods/fatsecret/nutrients?food_id=1"} {
		w := do(r, http.MethodGet, path, "u1", nil, nil)
		var er ErrorResponse
		decodeInto(t, w, &er)
		if w.Code != http.StatusServiceUnavailable || er.Code != ErrCodeIntegrationDisabled {
			t.Fatalf("%s: %d %+v", path, w.Code, er)
		}
	}
}
