package services

import (
	"errors"
	"strings"
	"testing"
)

func TestFoodOptionsPrompt(t *testing.T) {
	if got := FoodOptionsPrompt(" dragonfruit ", "cup"); got != "GENERATE_FOOD_OPTIONS:dragonfruit in cup" {
		t.Fatalf("prompt = %q", got)
	}
	if got := FoodOptionsPrompt("kale", ""); got != "GENERATE_FOOD_OPTIONS:kale in serving" {
		t.Fatalf("prompt = %q", got)
	}
}

func TestParseFoodOptions_CoalescesKeys(t *testing.T) {
	raw := "```json\n" + `[
		{"name":"Dragonfruit, raw","calories":60,"protein":1.2,"carbs":13,"fat":0.4,"serving_size":1,"serving_unit":"cup","dietary_fiber":3},
		{"food_name":"Dragonfruit smoothie","kcal":"180 kcal","protein_g":"3","carbohydrates":40,"total_fat":1,"servingSize":"12","unit":"oz","fiber":"4g","sodium":20},
		{"calories":10}
	]` + "\n```"
	opts, err := ParseFoodOptions(raw)
	if err != nil {
		t.Fatalf("ParseFoodOptions: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("nameless entry should be dropped, got %d", len(opts))
	}
	a, b := opts[0], opts[1]
	if a.Name != "Dragonfruit, raw" || a.Calories != 60 || a.ServingUnit != "cup" || a.DietaryFiber == nil || *a.DietaryFiber != 3 {
		t.Fatalf("first = %+v", a)
	}
	if b.Name != "Dragonfruit smoothie" || b.Calories != 180 || b.Protein != 3 || b.Carbs != 40 || b.Fat != 1 {
		t.Fatalf("second macros = %+v", b)
	}
	if b.ServingSize != 12 || b.ServingUnit != "oz" || b.DietaryFiber == nil || *b.DietaryFiber != 4 || b.Sodium == nil || *b.Sodium != 20 {
		t.Fatalf("second serving/micros = %+v", b)
	}
	if b.Cholesterol != nil {
		t.Fatalf("absent micronutrient should stay nil")
	}
}

func TestParseFoodOptions_WrappedAndDefaults(t *testing.T) {
	opts, err := ParseFoodOptions(`{"options": [{"name": "Kale chips", "calories": 150,}]}`)
	if err != nil || len(opts) != 1 {
		t.Fatalf("wrapped: %+v %v", opts, err)
	}
	if opts[0].ServingSize != 1 || opts[0].ServingUnit != "serving" {
		t.Fatalf("defaults not applied: %+v", opts[0])
	}

	opts, err = ParseFoodOptions(`{"name":"Single","calories":5}`)
	if err != nil || len(opts) != 1 || opts[0].Name != "Single" {
		t.Fatalf("single object: %+v %v", opts, err)
	}
}

func TestParseFoodOptions_Garbage(t *testing.T) {
	_, err := ParseFoodOptions("I don't know that food.")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want ParseError, got %v", err)
	}
}

func TestFormatFoodOptions(t *testing.T) {
	out := formatFoodOptions("kale", []FoodOption{{Name: "Kale, raw", Calories: 33, Protein: 2.9, Carbs: 6, Fat: 0.6, ServingSize: 1, ServingUnit: "cup"}})
	if !strings.Contains(out, `"kale"`) || !strings.Contains(out, "1. Kale, raw (1 cup): 33 cal, 2.9g protein, 6g carbs, 0.6g fat") {
		t.Fatalf("formatted = %q", out)
	}
}
