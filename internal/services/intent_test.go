package services

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseIntent_FencedMatchesPlain(t *testing.T) {
	plain := `{"intent":"log_food","data":{"food_name":"Apple","quantity":2,"unit":"piece","meal_type":"snack"},"entryDate":"yesterday"}`
	fenced := "Sure! Here you go:\n```json\n" + plain + "\n```\nEnjoy."

	a, err := ParseIntent(plain)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	b, err := ParseIntent(fenced)
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("fenced and plain differ:\n%+v\n%+v", a, b)
	}
	if a.Intent != IntentLogFood || a.Food == nil || a.Food.FoodName != "Apple" || a.Food.Quantity != 2 || a.EntryDate != "yesterday" {
		t.Fatalf("unexpected result: %+v", a)
	}
}

func TestParseIntent_ProseAndRepair(t *testing.T) {
	raw := `Here is the result: {"intent": "log_exercise", "data": {"exercise_name": "running", "duration_minutes": "30", "distance": 3,},}`
	res, err := ParseIntent(raw)
	if err != nil {
		t.Fatalf("ParseIntent: %v", err)
	}
	if res.Exercise == nil || res.Exercise.DurationMinutes != 30 || res.Exercise.Distance != 3 {
		t.Fatalf("exercise = %+v", res.Exercise)
	}
}

func TestParseIntent_Variants(t *testing.T) {
	res, err := ParseIntent(`{"intent":"log_measurement","data":{"measurements":[{"type":"weight","value":70,"unit":"kg"},{"type":"custom","name":"Body fat","value":"18.5%"}]}}`)
	if err != nil || res.Measurement == nil || len(res.Measurement.Measurements) != 2 {
		t.Fatalf("measurement: %+v %v", res, err)
	}
	if res.Measurement.Measurements[1].Value != 18.5 {
		t.Fatalf("numeric string not parsed: %+v", res.Measurement.Measurements[1])
	}

	res, err = ParseIntent(`{"intent":"log_water","data":{}}`)
	if err != nil || res.Water == nil || res.Water.GlassesConsumed != nil {
		t.Fatalf("water: %+v %v", res, err)
	}

	res, err = ParseIntent(`{"intent":"ASK_QUESTION","response":"Protein helps recovery."}`)
	if err != nil || res.Intent != IntentAskQuestion || res.Response != "Protein helps recovery." {
		t.Fatalf("question: %+v %v", res, err)
	}

	res, err = ParseIntent(`{"intent":"log_food","entry_date":"06-18","data":{"food_name":"Oats"}}`)
	if err != nil || res.EntryDate != "06-18" {
		t.Fatalf("entry_date alias: %+v %v", res, err)
	}
}

func TestParseIntent_Errors(t *testing.T) {
	cases := map[string]string{
		"prose only":        "I think you had a great day!",
		"unknown intent":    `{"intent":"order_pizza","data":{}}`,
		"missing intent":    `{"data":{"food_name":"x"}}`,
		"missing data":      `{"intent":"log_food"}`,
		"invalid payload":   `{"intent":"log_food","data":{"quantity":2}}`,
		"negative duration": `{"intent":"log_exercise","data":{"exercise_name":"run","duration_minutes":-5}}`,
		"empty chat":        `{"intent":"chat"}`,
		"empty batch":       `{"intent":"log_measurement","data":{"measurements":[]}}`,
	}
	for name, raw := range cases {
		_, err := ParseIntent(raw)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: want ParseError, got %v", name, err)
		}
		if pe.Raw != raw {
			t.Fatalf("%s: raw not kept", name)
		}
	}
}

func TestNumber_Unmarshal(t *testing.T) {
	for in, want := range map[string]float64{`2`: 2, `"2"`: 2, `"95 kcal"`: 95, `"1,5"`: 1.5, `"1,200 kcal"`: 1200, `null`: 0} {
		var n Number
		if err := n.UnmarshalJSON([]byte(in)); err != nil || float64(n) != want {
			t.Fatalf("Number(%s) = %v, %v; want %v", in, n, err, want)
		}
	}
	var n Number
	if err := n.UnmarshalJSON([]byte(`"lots"`)); err == nil {
		t.Fatalf("non-numeric string should fail")
	}
}
