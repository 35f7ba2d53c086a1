package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&ChatTurn{}, &ServiceConfig{}, &UserPreferences{},
		&Food{}, &FoodEntry{}, &Exercise{}, &ExerciseEntry{},
		&CheckInMeasurement{}, &CustomCategory{}, &CustomMeasurement{},
		&WaterIntake{}, &Idempotency{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	want := map[string]string{
		ChatTurn{}.TableName():           "sparky_chat_history",
		ServiceConfig{}.TableName():      "ai_service_settings",
		UserPreferences{}.TableName():    "user_preferences",
		Food{}.TableName():               "foods",
		FoodEntry{}.TableName():          "food_entries",
		Exercise{}.TableName():           "exercises",
		ExerciseEntry{}.TableName():      "exercise_entries",
		CheckInMeasurement{}.TableName(): "check_in_measurements",
		CustomCategory{}.TableName():     "custom_categories",
		CustomMeasurement{}.TableName():  "custom_measurements",
		WaterIntake{}.TableName():        "water_intake",
		Idempotency{}.TableName():        "idempotency",
	}
	for got, exp := range want {
		if got != exp {
			t.Fatalf("table name %q; want %q", got, exp)
		}
	}
}

func TestMigrations_Indexes(t *testing.T) {
	db := newDomainDB(t)
	m := db.Migrator()

	checks := []struct {
		model any
		index string
	}{
		{&ChatTurn{}, "idx_history_user_created"},
		{&ServiceConfig{}, "idx_ai_settings_user_active"},
		{&CheckInMeasurement{}, "ux_checkin_user_date"},
		{&WaterIntake{}, "ux_water_user_date"},
		{&CustomCategory{}, "ux_custom_category_user_name"},
		{&Idempotency{}, "ux_user_scope_key"},
	}
	for _, c := range checks {
		if !m.HasIndex(c.model, c.index) {
			t.Fatalf("expected index %s on %T", c.index, c.model)
		}
	}
}

func TestChatTurn_RoleConstraintAndMetadata(t *testing.T) {
	db := newDomainDB(t)

	ok := &ChatTurn{ID: uuid.NewString(), UserID: "u1", Content: "hi", Role: RoleUser,
		Metadata: datatypes.JSON(`{"pending":"food_choice"}`)}
	if err := db.Create(ok).Error; err != nil {
		t.Fatalf("insert user turn: %v", err)
	}
	bad := &ChatTurn{ID: uuid.NewString(), UserID: "u1", Content: "x", Role: "system"}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected check constraint violation for role=system")
	}

	var got ChatTurn
	if err := db.First(&got, "id = ?", ok.ID).Error; err != nil {
		t.Fatalf("readback: %v", err)
	}
	if string(got.Metadata) != `{"pending":"food_choice"}` {
		t.Fatalf("metadata mismatch: %s", got.Metadata)
	}
}

func TestCheckIn_UniquePerUserDate(t *testing.T) {
	db := newDomainDB(t)
	w := 70.0
	a := &CheckInMeasurement{ID: "a", UserID: "u1", EntryDate: "2024-03-15", Weight: &w}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	b := &CheckInMeasurement{ID: "b", UserID: "u1", EntryDate: "2024-03-15"}
	if err := db.Create(b).Error; err == nil {
		t.Fatalf("expected unique violation on (user_id, entry_date)")
	}
	c := &CheckInMeasurement{ID: "c", UserID: "u2", EntryDate: "2024-03-15"}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("other user same date should insert: %v", err)
	}
}

func TestFoodEntry_CascadeOnFoodDelete(t *testing.T) {
	db := newDomainDB(t)
	now := time.Now().UTC()
	f := &Food{ID: "f1", UserID: "u1", Name: "Apple", IsCustom: true, Calories: 95, ServingSize: 1, ServingUnit: "piece"}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("insert food: %v", err)
	}
	e := &FoodEntry{ID: "e1", UserID: "u1", FoodID: "f1", MealType: MealSnacks, Quantity: 2, Unit: "piece", EntryDate: "2024-03-15", CreatedAt: now}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("insert entry: %v", err)
	}
	if err := db.Create(&FoodEntry{ID: "e2", UserID: "u1", FoodID: "f1", MealType: "snack", Quantity: 1, Unit: "piece", EntryDate: "2024-03-15"}).Error; err == nil {
		t.Fatalf("expected meal_type check violation for 'snack'")
	}

	if err := db.Delete(&Food{}, "id = ?", "f1").Error; err != nil {
		t.Fatalf("delete food: %v", err)
	}
	var cnt int64
	if err := db.Model(&FoodEntry{}).Where("food_id = ?", "f1").Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected food entries to cascade-delete, got %d", cnt)
	}
}

func TestServiceConfig_HasAPIKey(t *testing.T) {
	if (ServiceConfig{}).HasAPIKey() {
		t.Fatalf("empty config should report no key")
	}
	if !(ServiceConfig{EncryptedAPIKey: "abc"}).HasAPIKey() {
		t.Fatalf("expected HasAPIKey true")
	}
}
