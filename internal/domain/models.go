// Package domain defines the persistence models for the Sparky coach: chat
// history, AI service settings, user preferences and the idempotency ledger.
// The tracking tables written by the coach (foods, exercises, measurements,
// water) live in tracking.go. All types are mapped with GORM.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one stored user or assistant message in the coach transcript.
// Turns are immutable once written and are removed in bulk by retention.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner of the turn; leads the (user_id, created_at) index.
//   - Content: message text as shown to the user.
//   - Role: "user" or "assistant" (enforced by DB constraint).
//   - Metadata: optional JSON envelope (pending food choices, image keys).
//   - CreatedAt: insertion time, used for ordering and retention.
type ChatTurn struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_history_user_created,priority:1"`
	Content   string         `json:"content"    gorm:"type:text;not null"`
	Role      string         `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_history_user_created,priority:2"`
}

// TableName returns the database table name for ChatTurn.
func (ChatTurn) TableName() string { return "sparky_chat_history" }

// Supported provider tags for ServiceConfig.ServiceType.
const (
	ServiceOpenAI    = "openai"
	ServiceAnthropic = "anthropic"
	ServiceGoogle    = "google"
	ServiceMistral   = "mistral"
	ServiceGroq      = "groq"
	ServiceOllama    = "ollama"
	ServiceCustom    = "custom"
)

// ServiceConfig is a user's saved LLM provider. The API key is stored as
// AES-GCM ciphertext with its per-write IV and is never serialized.
//
// Fields:
//   - ServiceType: provider tag, one of the Service* constants.
//   - EncryptedAPIKey / APIKeyIV: base64 ciphertext and 12-byte nonce.
//   - CustomURL: base URL override (required for ollama and custom).
//   - ModelName: provider model id; adapters fall back to a default.
//   - SystemPrompt: extra instructions appended to the coach prompt.
//   - IsActive: the config used for chat turns. At most one per user is
//     kept active by the settings service.
type ServiceConfig struct {
	ID              string    `json:"id"            gorm:"type:char(36);primaryKey"`
	UserID          string    `json:"user_id"       gorm:"type:varchar(64);not null;index:idx_ai_settings_user_active,priority:1"`
	ServiceName     string    `json:"service_name"  gorm:"type:varchar(128);not null;default:''"`
	ServiceType     string    `json:"service_type"  gorm:"type:varchar(32);not null"`
	EncryptedAPIKey string    `json:"-"             gorm:"type:text;not null;default:''"`
	APIKeyIV        string    `json:"-"             gorm:"column:api_key_iv;type:varchar(64);not null;default:''"`
	CustomURL       string    `json:"custom_url,omitempty"    gorm:"type:varchar(512);not null;default:''"`
	ModelName       string    `json:"model_name,omitempty"    gorm:"type:varchar(128);not null;default:''"`
	SystemPrompt    string    `json:"system_prompt,omitempty" gorm:"type:text;not null;default:''"`
	IsActive        bool      `json:"is_active"     gorm:"not null;default:false;index:idx_ai_settings_user_active,priority:2"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for ServiceConfig.
func (ServiceConfig) TableName() string { return "ai_service_settings" }

// HasAPIKey reports whether an encrypted key is stored.
func (s ServiceConfig) HasAPIKey() bool { return s.EncryptedAPIKey != "" }

// History retention policies for UserPreferences.AutoClearHistory.
const (
	RetentionNever   = "never"
	Retention7Days   = "7days"
	RetentionAll     = "all"
	RetentionSession = "session"
)

// UserPreferences holds per-user coach settings.
type UserPreferences struct {
	UserID           string    `json:"user_id"            gorm:"type:varchar(64);primaryKey"`
	AutoClearHistory string    `json:"auto_clear_history" gorm:"type:varchar(16);not null;default:'never';check:auto_clear_history IN ('never','7days','all','session')"`
	Timezone         string    `json:"timezone"           gorm:"type:varchar(64);not null;default:'UTC'"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the database table name for UserPreferences.
func (UserPreferences) TableName() string { return "user_preferences" }
