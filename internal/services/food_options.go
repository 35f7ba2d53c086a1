package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// foodOptionsMarker prefixes the follow-up request that asks the provider
// for nutrition estimates of an unknown food.
const foodOptionsMarker = "GENERATE_FOOD_OPTIONS:"

const foodOptionsInstructions = `You estimate nutrition facts. The user message has the form
GENERATE_FOOD_OPTIONS:<food name> in <unit>
Answer with a JSON array of 2 to 4 plausible variants of that food and nothing else:
[{"name": string, "calories": number, "protein": number, "carbs": number, "fat": number,
  "serving_size": number, "serving_unit": string,
  "saturated_fat": number, "sodium": number, "dietary_fiber": number, "sugars": number}]
Values are per serving. Use grams for macros and milligrams for sodium.`

// FoodOption is one provider-estimated nutrition candidate.
type FoodOption struct {
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_unit"`
	domain.Micronutrients
}

// FoodOptionsPrompt is the user message that requests options for name.
func FoodOptionsPrompt(name, unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "serving"
	}
	return foodOptionsMarker + strings.TrimSpace(name) + " in " + unit
}

// Keys accepted for each field, in priority order. Providers are
// inconsistent about naming, so several spellings are tried.
var (
	nameKeys        = []string{"name", "food_name", "foodName", "food", "description"}
	caloriesKeys    = []string{"calories", "kcal", "energy", "calories_kcal", "energy_kcal"}
	proteinKeys     = []string{"protein", "protein_g", "proteins"}
	carbsKeys       = []string{"carbs", "carbohydrates", "carbohydrate", "carbs_g", "total_carbohydrate"}
	fatKeys         = []string{"fat", "fat_g", "total_fat", "fats"}
	servingSizeKeys = []string{"serving_size", "servingSize", "serving_qty", "serving_amount", "amount"}
	servingUnitKeys = []string{"serving_unit", "servingUnit", "unit", "serving_size_unit"}
)

// ParseFoodOptions decodes the provider's option list. The array may be
// fenced, wrapped in an object under "options" or "foods", or slightly
// malformed. Entries without a name are dropped.
func ParseFoodOptions(raw string) ([]FoodOption, error) {
	var items []map[string]any

	if body, ok := extractJSON(raw, '[', ']'); ok && json.Unmarshal([]byte(body), &items) == nil {
		return coalesceOptions(items), nil
	}
	if body, ok := extractJSON(raw, '{', '}'); ok {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal([]byte(body), &wrapper); err == nil {
			for _, k := range []string{"options", "foods", "food_options", "results"} {
				if v, ok := wrapper[k]; ok && json.Unmarshal(v, &items) == nil {
					return coalesceOptions(items), nil
				}
			}
			var single map[string]any
			if json.Unmarshal([]byte(body), &single) == nil {
				if opts := coalesceOptions([]map[string]any{single}); len(opts) > 0 {
					return opts, nil
				}
			}
		}
	}
	return nil, &ParseError{Raw: raw, Reason: "no food options"}
}

func coalesceOptions(items []map[string]any) []FoodOption {
	out := make([]FoodOption, 0, len(items))
	for _, m := range items {
		name := strings.TrimSpace(pickString(m, nameKeys))
		if name == "" {
			continue
		}
		opt := FoodOption{
			Name:        name,
			Calories:    pickNumber(m, caloriesKeys),
			Protein:     pickNumber(m, proteinKeys),
			Carbs:       pickNumber(m, carbsKeys),
			Fat:         pickNumber(m, fatKeys),
			ServingSize: pickNumber(m, servingSizeKeys),
			ServingUnit: strings.TrimSpace(pickString(m, servingUnitKeys)),
		}
		if opt.ServingSize <= 0 {
			opt.ServingSize = 1
		}
		if opt.ServingUnit == "" {
			opt.ServingUnit = "serving"
		}
		opt.Micronutrients = domain.Micronutrients{
			SaturatedFat:       pickOptional(m, "saturated_fat", "saturatedFat"),
			PolyunsaturatedFat: pickOptional(m, "polyunsaturated_fat", "polyunsaturatedFat"),
			MonounsaturatedFat: pickOptional(m, "monounsaturated_fat", "monounsaturatedFat"),
			TransFat:           pickOptional(m, "trans_fat", "transFat"),
			Cholesterol:        pickOptional(m, "cholesterol"),
			Sodium:             pickOptional(m, "sodium"),
			Potassium:          pickOptional(m, "potassium"),
			DietaryFiber:       pickOptional(m, "dietary_fiber", "dietaryFiber", "fiber"),
			Sugars:             pickOptional(m, "sugars", "sugar"),
			VitaminA:           pickOptional(m, "vitamin_a", "vitaminA"),
			VitaminC:           pickOptional(m, "vitamin_c", "vitaminC"),
			Calcium:            pickOptional(m, "calcium"),
			Iron:               pickOptional(m, "iron"),
		}
		out = append(out, opt)
	}
	return out
}

func (o FoodOption) toFood(userID string) *domain.Food {
	return &domain.Food{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           o.Name,
		IsCustom:       true,
		Calories:       o.Calories,
		Protein:        o.Protein,
		Carbs:          o.Carbs,
		Fat:            o.Fat,
		ServingSize:    o.ServingSize,
		ServingUnit:    o.ServingUnit,
		Micronutrients: o.Micronutrients,
	}
}

func pickString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func pickNumber(m map[string]any, keys []string) float64 {
	for _, k := range keys {
		if f, ok := toFloat(m[k]); ok {
			return f
		}
	}
	return 0
}

func pickOptional(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if f, ok := toFloat(m[k]); ok {
			return &f
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		return leadingNumber(x)
	default:
		return 0, false
	}
}

// formatFoodOptions renders the numbered list shown to the user.
func formatFoodOptions(name string, opts []FoodOption) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I couldn't find %q in your foods. Here are some estimates, reply with a number to log one:\n", name)
	for i, o := range opts {
		fmt.Fprintf(&b, "\n%d. %s (%s %s): %s cal, %sg protein, %sg carbs, %sg fat",
			i+1, o.Name, formatNum(o.ServingSize), o.ServingUnit,
			formatNum(o.Calories), formatNum(o.Protein), formatNum(o.Carbs), formatNum(o.Fat))
	}
	return b.String()
}
