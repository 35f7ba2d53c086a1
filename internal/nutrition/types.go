package nutrition

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FoodSummary is one foods.search hit.
type FoodSummary struct {
	ID          string `json:"food_id"`
	Name        string `json:"food_name"`
	Brand       string `json:"brand_name,omitempty"`
	Type        string `json:"food_type"`
	Description string `json:"food_description"`
}

// SearchResult is a page of foods.search.
type SearchResult struct {
	Foods []FoodSummary `json:"foods"`
	Page  int           `json:"page"`
	Total int           `json:"total"`
}

// Serving holds the nutrients of one serving size. Optional values are nil
// when FatSecret does not report them.
type Serving struct {
	ID                 string   `json:"serving_id"`
	Description        string   `json:"serving_description"`
	MetricAmount       float64  `json:"metric_serving_amount,omitempty"`
	MetricUnit         string   `json:"metric_serving_unit,omitempty"`
	NumberOfUnits      float64  `json:"number_of_units,omitempty"`
	MeasurementDesc    string   `json:"measurement_description,omitempty"`
	Calories           float64  `json:"calories"`
	Protein            float64  `json:"protein"`
	Carbohydrate       float64  `json:"carbohydrate"`
	Fat                float64  `json:"fat"`
	SaturatedFat       *float64 `json:"saturated_fat,omitempty"`
	PolyunsaturatedFat *float64 `json:"polyunsaturated_fat,omitempty"`
	MonounsaturatedFat *float64 `json:"monounsaturated_fat,omitempty"`
	TransFat           *float64 `json:"trans_fat,omitempty"`
	Cholesterol        *float64 `json:"cholesterol,omitempty"`
	Sodium             *float64 `json:"sodium,omitempty"`
	Potassium          *float64 `json:"potassium,omitempty"`
	Fiber              *float64 `json:"fiber,omitempty"`
	Sugar              *float64 `json:"sugar,omitempty"`
	VitaminA           *float64 `json:"vitamin_a,omitempty"`
	VitaminC           *float64 `json:"vitamin_c,omitempty"`
	Calcium            *float64 `json:"calcium,omitempty"`
	Iron               *float64 `json:"iron,omitempty"`
}

// FoodDetail is the food.get.v2 answer.
type FoodDetail struct {
	ID       string    `json:"food_id"`
	Name     string    `json:"food_name"`
	Brand    string    `json:"brand_name,omitempty"`
	Type     string    `json:"food_type"`
	Servings []Serving `json:"servings"`
}

type foodSummaryWire struct {
	ID          string `json:"food_id"`
	Name        string `json:"food_name"`
	Brand       string `json:"brand_name"`
	Type        string `json:"food_type"`
	Description string `json:"food_description"`
}

type servingWire struct {
	ID                 string   `json:"serving_id"`
	Description        string   `json:"serving_description"`
	MetricAmount       flexNum  `json:"metric_serving_amount"`
	MetricUnit         string   `json:"metric_serving_unit"`
	NumberOfUnits      flexNum  `json:"number_of_units"`
	MeasurementDesc    string   `json:"measurement_description"`
	Calories           flexNum  `json:"calories"`
	Protein            flexNum  `json:"protein"`
	Carbohydrate       flexNum  `json:"carbohydrate"`
	Fat                flexNum  `json:"fat"`
	SaturatedFat       *flexNum `json:"saturated_fat"`
	PolyunsaturatedFat *flexNum `json:"polyunsaturated_fat"`
	MonounsaturatedFat *flexNum `json:"monounsaturated_fat"`
	TransFat           *flexNum `json:"trans_fat"`
	Cholesterol        *flexNum `json:"cholesterol"`
	Sodium             *flexNum `json:"sodium"`
	Potassium          *flexNum `json:"potassium"`
	Fiber              *flexNum `json:"fiber"`
	Sugar              *flexNum `json:"sugar"`
	VitaminA           *flexNum `json:"vitamin_a"`
	VitaminC           *flexNum `json:"vitamin_c"`
	Calcium            *flexNum `json:"calcium"`
	Iron               *flexNum `json:"iron"`
}

func (w servingWire) toServing() Serving {
	return Serving{
		ID:                 w.ID,
		Description:        w.Description,
		MetricAmount:       float64(w.MetricAmount),
		MetricUnit:         w.MetricUnit,
		NumberOfUnits:      float64(w.NumberOfUnits),
		MeasurementDesc:    w.MeasurementDesc,
		Calories:           float64(w.Calories),
		Protein:            float64(w.Protein),
		Carbohydrate:       float64(w.Carbohydrate),
		Fat:                float64(w.Fat),
		SaturatedFat:       w.SaturatedFat.ptr(),
		PolyunsaturatedFat: w.PolyunsaturatedFat.ptr(),
		MonounsaturatedFat: w.MonounsaturatedFat.ptr(),
		TransFat:           w.TransFat.ptr(),
		Cholesterol:        w.Cholesterol.ptr(),
		Sodium:             w.Sodium.ptr(),
		Potassium:          w.Potassium.ptr(),
		Fiber:              w.Fiber.ptr(),
		Sugar:              w.Sugar.ptr(),
		VitaminA:           w.VitaminA.ptr(),
		VitaminC:           w.VitaminC.ptr(),
		Calcium:            w.Calcium.ptr(),
		Iron:               w.Iron.ptr(),
	}
}

// flexNum decodes FatSecret numbers, which arrive as JSON strings.
type flexNum float64

func (n *flexNum) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = flexNum(f)
	return nil
}

func (n *flexNum) ptr() *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

// many decodes a field that is an object for one result and an array for
// several.
type many[T any] []T

func (m *many[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = nil
		return nil
	}
	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*m = items
		return nil
	}
	var one T
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*m = many[T]{one}
	return nil
}
