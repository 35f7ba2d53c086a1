package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/repo"
	"github.com/tbourn/go-sparky-backend/internal/search"
)

// broadSearchPool is how many "contains" hits are ranked before the best
// few are kept.
const broadSearchPool = 20

// maxFoodCandidates caps the broad match candidates considered for a log.
const maxFoodCandidates = 3

// PendingFoodChoice is the context kept while the user picks a FoodOption.
// It travels to the client in metadata and comes back with the next turn.
type PendingFoodChoice struct {
	FoodName  string       `json:"food_name"`
	Unit      string       `json:"unit"`
	Quantity  float64      `json:"quantity"`
	MealType  string       `json:"meal_type"`
	EntryDate string       `json:"entry_date"`
	Options   []FoodOption `json:"options,omitempty"`
}

// FoodHandler logs food diary entries.
type FoodHandler struct {
	DB     *gorm.DB
	Ranker *search.Ranker
}

// NewFoodHandler returns a FoodHandler with the default ranker.
func NewFoodHandler(db *gorm.DB) *FoodHandler {
	return &FoodHandler{DB: db, Ranker: search.NewRanker(search.WithMaxResults(maxFoodCandidates))}
}

// Log writes an entry for the best stored match of d.FoodName. The user's
// own custom food with the exact name always wins; otherwise the closest of
// the user's and public foods containing the name is used. A miss returns a
// *NotFoundError alongside a response whose metadata carries is_fallback and
// the pending context for option generation.
func (h *FoodHandler) Log(ctx context.Context, userID string, d LogFood, date string) (CoachResponse, error) {
	name := strings.TrimSpace(d.FoodName)
	if name == "" {
		err := &ValidationError{Field: "food_name", Message: "tell me which food you ate"}
		return reply(ActionNone, "I couldn't tell which food you ate. Could you say it again?", nil), err
	}
	qty := float64(d.Quantity)
	if qty <= 0 {
		qty = 1
	}
	meal := normalizeMealType(d.MealType)

	food, alternatives, err := h.find(ctx, userID, name)
	if err != nil {
		return reply(ActionNone, "Sorry, I couldn't search your foods right now.", nil), err
	}
	if food == nil {
		pending := PendingFoodChoice{FoodName: name, Unit: d.Unit, Quantity: qty, MealType: meal, EntryDate: date}
		meta := map[string]any{
			"is_fallback": true,
			"food_name":   name,
			"unit":        d.Unit,
			"quantity":    qty,
			"meal_type":   meal,
			"entry_date":  date,
			"pending":     pending,
		}
		return reply(ActionNone, fmt.Sprintf("I couldn't find %q in your foods.", name), meta),
			&NotFoundError{Kind: "food", Name: name}
	}

	unit := d.Unit
	if strings.TrimSpace(unit) == "" {
		unit = food.ServingUnit
	}
	entry, err := repo.CreateFoodEntry(ctx, h.DB, userID, food.ID, meal, qty, unit, date)
	if err != nil {
		return reply(ActionNone, "Sorry, I couldn't save that food entry.", nil), err
	}

	cal := foodCalories(food, qty)
	meta := map[string]any{
		"food_id":    food.ID,
		"entry_id":   entry.ID,
		"food_name":  food.Name,
		"calories":   cal,
		"meal_type":  meal,
		"entry_date": date,
	}
	if len(alternatives) > 0 {
		meta["alternatives"] = alternatives
	}
	text := fmt.Sprintf("Logged %s %s of %s for %s (%s calories).", formatNum(qty), unit, food.Name, meal, formatNum(cal))
	return reply(ActionFoodLogged, text, meta), nil
}

// AddFoodOption stores the option the user picked (1-based choice) as a new
// custom food and logs it using the pending context.
func (h *FoodHandler) AddFoodOption(ctx context.Context, userID string, choice int, pending PendingFoodChoice) (CoachResponse, error) {
	if choice < 1 || choice > len(pending.Options) {
		err := &ValidationError{Field: "choice", Message: fmt.Sprintf("pick a number between 1 and %d", len(pending.Options))}
		return reply(ActionNone, "Please reply with one of the option numbers.", nil), err
	}
	opt := pending.Options[choice-1]
	food := opt.toFood(userID)
	qty := pending.Quantity
	if qty <= 0 {
		qty = 1
	}
	unit := pending.Unit
	if strings.TrimSpace(unit) == "" {
		unit = food.ServingUnit
	}
	meal := normalizeMealType(pending.MealType)

	var entry *domain.FoodEntry
	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateFood(ctx, tx, food); err != nil {
			return err
		}
		e, err := repo.CreateFoodEntry(ctx, tx, userID, food.ID, meal, qty, unit, pending.EntryDate)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return reply(ActionNone, "Sorry, I couldn't save that food.", nil), err
	}

	cal := foodCalories(food, qty)
	meta := map[string]any{
		"food_id":    food.ID,
		"entry_id":   entry.ID,
		"food_name":  food.Name,
		"calories":   cal,
		"meal_type":  meal,
		"entry_date": pending.EntryDate,
	}
	text := fmt.Sprintf("Added %s and logged %s %s for %s (%s calories).", food.Name, formatNum(qty), unit, meal, formatNum(cal))
	return reply(ActionFoodLogged, text, meta), nil
}

func (h *FoodHandler) find(ctx context.Context, userID, name string) (*domain.Food, []string, error) {
	exact, err := repo.FindCustomFoodExact(ctx, h.DB, userID, name)
	if err == nil {
		return exact, nil, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, nil, err
	}

	hits, err := repo.SearchFoods(ctx, h.DB, userID, name, broadSearchPool)
	if err != nil || len(hits) == 0 {
		return nil, nil, err
	}
	byID := make(map[string]*domain.Food, len(hits))
	cands := make([]search.Candidate, 0, len(hits))
	for i := range hits {
		byID[hits[i].ID] = &hits[i]
		cands = append(cands, search.Candidate{ID: hits[i].ID, Name: hits[i].Name})
	}
	ranked := h.ranker().Rank(name, cands, maxFoodCandidates)
	alts := make([]string, 0, len(ranked)-1)
	for _, r := range ranked[1:] {
		alts = append(alts, r.Name)
	}
	return byID[ranked[0].ID], alts, nil
}

func (h *FoodHandler) ranker() *search.Ranker {
	if h.Ranker == nil {
		h.Ranker = search.NewRanker(search.WithMaxResults(maxFoodCandidates))
	}
	return h.Ranker
}

// foodCalories scales per-serving calories to qty servings, rounded to one
// decimal.
func foodCalories(f *domain.Food, qty float64) float64 {
	size := f.ServingSize
	if size <= 0 {
		size = 1
	}
	return math.Round(f.Calories*qty/size*10) / 10
}

func normalizeMealType(s string) string {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnacks:
		return m
	case "snack":
		return domain.MealSnacks
	case "supper":
		return domain.MealDinner
	case "brunch":
		return domain.MealLunch
	default:
		return domain.MealSnacks
	}
}
