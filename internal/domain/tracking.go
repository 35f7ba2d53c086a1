package domain

import "time"

// Meal types accepted for food entries.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnacks    = "snacks"
)

// Micronutrients are optional per-serving values. Nil means unknown.
type Micronutrients struct {
	SaturatedFat       *float64 `json:"saturated_fat,omitempty"`
	PolyunsaturatedFat *float64 `json:"polyunsaturated_fat,omitempty"`
	MonounsaturatedFat *float64 `json:"monounsaturated_fat,omitempty"`
	TransFat           *float64 `json:"trans_fat,omitempty"`
	Cholesterol        *float64 `json:"cholesterol,omitempty"`
	Sodium             *float64 `json:"sodium,omitempty"`
	Potassium          *float64 `json:"potassium,omitempty"`
	DietaryFiber       *float64 `json:"dietary_fiber,omitempty"`
	Sugars             *float64 `json:"sugars,omitempty"`
	VitaminA           *float64 `json:"vitamin_a,omitempty"`
	VitaminC           *float64 `json:"vitamin_c,omitempty"`
	Calcium            *float64 `json:"calcium,omitempty"`
	Iron               *float64 `json:"iron,omitempty"`
}

// Food is a nutrition item. Custom foods belong to a user; public foods are
// visible to everyone through SharedWithPublic.
type Food struct {
	ID               string  `json:"id"                 gorm:"type:char(36);primaryKey"`
	UserID           string  `json:"user_id"            gorm:"type:varchar(64);not null;default:'';index"`
	Name             string  `json:"name"               gorm:"type:varchar(255);not null;index"`
	Brand            string  `json:"brand,omitempty"    gorm:"type:varchar(255);not null;default:''"`
	IsCustom         bool    `json:"is_custom"          gorm:"not null;default:false"`
	SharedWithPublic bool    `json:"shared_with_public" gorm:"not null;default:false;index"`
	Calories         float64 `json:"calories"           gorm:"not null;default:0"`
	Protein          float64 `json:"protein"            gorm:"not null;default:0"`
	Carbs            float64 `json:"carbs"              gorm:"not null;default:0"`
	Fat              float64 `json:"fat"                gorm:"not null;default:0"`
	ServingSize      float64 `json:"serving_size"       gorm:"not null;default:1"`
	ServingUnit      string  `json:"serving_unit"       gorm:"type:varchar(32);not null;default:'serving'"`
	Micronutrients   `gorm:"embedded"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the database table name for Food.
func (Food) TableName() string { return "foods" }

// FoodEntry is one logged portion of a food on a given day.
type FoodEntry struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_food_entries_user_date,priority:1"`
	FoodID    string    `json:"food_id"    gorm:"type:char(36);not null;index"`
	MealType  string    `json:"meal_type"  gorm:"type:varchar(16);not null;check:meal_type IN ('breakfast','lunch','dinner','snacks')"`
	Quantity  float64   `json:"quantity"   gorm:"not null"`
	Unit      string    `json:"unit"       gorm:"type:varchar(32);not null"`
	EntryDate string    `json:"entry_date" gorm:"type:varchar(10);not null;index:idx_food_entries_user_date,priority:2"`
	CreatedAt time.Time `json:"created_at"`

	Food Food `json:"-" gorm:"foreignKey:FoodID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for FoodEntry.
func (FoodEntry) TableName() string { return "food_entries" }

// Exercise is an activity with an hourly calorie estimate.
type Exercise struct {
	ID               string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	UserID           string    `json:"user_id"            gorm:"type:varchar(64);not null;default:'';index"`
	Name             string    `json:"name"               gorm:"type:varchar(255);not null;index"`
	Category         string    `json:"category"           gorm:"type:varchar(64);not null;default:'general'"`
	CaloriesPerHour  float64   `json:"calories_per_hour"  gorm:"not null;default:300"`
	IsCustom         bool      `json:"is_custom"          gorm:"not null;default:false"`
	SharedWithPublic bool      `json:"shared_with_public" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the database table name for Exercise.
func (Exercise) TableName() string { return "exercises" }

// ExerciseEntry is one logged workout.
type ExerciseEntry struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID          string    `json:"user_id"          gorm:"type:varchar(64);not null;index:idx_exercise_entries_user_date,priority:1"`
	ExerciseID      string    `json:"exercise_id"      gorm:"type:char(36);not null;index"`
	DurationMinutes float64   `json:"duration_minutes" gorm:"not null"`
	CaloriesBurned  float64   `json:"calories_burned"  gorm:"not null"`
	EntryDate       string    `json:"entry_date"       gorm:"type:varchar(10);not null;index:idx_exercise_entries_user_date,priority:2"`
	Notes           string    `json:"notes,omitempty"  gorm:"type:text;not null;default:''"`
	CreatedAt       time.Time `json:"created_at"`

	Exercise Exercise `json:"-" gorm:"foreignKey:ExerciseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ExerciseEntry.
func (ExerciseEntry) TableName() string { return "exercise_entries" }

// CheckInMeasurement holds the standard body measurements for one day.
// There is at most one row per (user_id, entry_date).
type CheckInMeasurement struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;uniqueIndex:ux_checkin_user_date,priority:1"`
	EntryDate string    `json:"entry_date" gorm:"type:varchar(10);not null;uniqueIndex:ux_checkin_user_date,priority:2"`
	Weight    *float64  `json:"weight,omitempty"`
	Neck      *float64  `json:"neck,omitempty"`
	Waist     *float64  `json:"waist,omitempty"`
	Hips      *float64  `json:"hips,omitempty"`
	Steps     *int      `json:"steps,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for CheckInMeasurement.
func (CheckInMeasurement) TableName() string { return "check_in_measurements" }

// CustomCategory is a user-defined measurement series such as "Body fat".
type CustomCategory struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID          string    `json:"user_id"          gorm:"type:varchar(64);not null;uniqueIndex:ux_custom_category_user_name,priority:1"`
	Name            string    `json:"name"             gorm:"type:varchar(128);not null;uniqueIndex:ux_custom_category_user_name,priority:2"`
	MeasurementType string    `json:"measurement_type" gorm:"type:varchar(32);not null;default:'numeric'"`
	Frequency       string    `json:"frequency"        gorm:"type:varchar(32);not null;default:'Daily'"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName returns the database table name for CustomCategory.
func (CustomCategory) TableName() string { return "custom_categories" }

// CustomMeasurement is one timestamped value in a custom category.
type CustomMeasurement struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	UserID         string    `json:"user_id"         gorm:"type:varchar(64);not null;index:idx_custom_measurements_user_date,priority:1"`
	CategoryID     string    `json:"category_id"     gorm:"type:char(36);not null;index"`
	Value          float64   `json:"value"           gorm:"not null"`
	EntryDate      string    `json:"entry_date"      gorm:"type:varchar(10);not null;index:idx_custom_measurements_user_date,priority:2"`
	EntryHour      int       `json:"entry_hour"      gorm:"not null;default:0"`
	EntryTimestamp time.Time `json:"entry_timestamp" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`

	Category CustomCategory `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CustomMeasurement.
func (CustomMeasurement) TableName() string { return "custom_measurements" }

// WaterIntake is the number of glasses drunk on one day, one row per
// (user_id, entry_date).
type WaterIntake struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID          string    `json:"user_id"          gorm:"type:varchar(64);not null;uniqueIndex:ux_water_user_date,priority:1"`
	EntryDate       string    `json:"entry_date"       gorm:"type:varchar(10);not null;uniqueIndex:ux_water_user_date,priority:2"`
	GlassesConsumed int       `json:"glasses_consumed" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for WaterIntake.
func (WaterIntake) TableName() string { return "water_intake" }
