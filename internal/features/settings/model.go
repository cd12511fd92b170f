package settings

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SettingsType string

const (
	// SettingsTypeDashboardCatalog holds server-side overrides of the widget catalogue.
	SettingsTypeDashboardCatalog SettingsType = "dashboard_catalog"
)

// Settings is an application-wide settings document, one per type.
type Settings struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type      SettingsType       `json:"type" bson:"type"`                           // Unique index on type
	Catalog   string             `json:"catalog,omitempty" bson:"catalog,omitempty"` // JSON encoded widget.Catalog
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// UserSettings is the per-user key/value store. Each value is an opaque JSON document.
type UserSettings struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Values    map[string]string  `json:"values" bson:"values"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
