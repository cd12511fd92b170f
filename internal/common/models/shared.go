package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate    AuditAction = "CREATE"
	AuditActionUpdate    AuditAction = "UPDATE"
	AuditActionDelete    AuditAction = "DELETE"
	AuditActionSettings  AuditAction = "SETTINGS"
	AuditActionDashboard AuditAction = "DASHBOARD"
	AuditActionShare     AuditAction = "SHARE"
	AuditActionImport    AuditAction = "IMPORT"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`                       // Feature area, e.g. "dashboards"
	RecordID  string             `bson:"record_id" json:"record_id"`                 // Dashboard name or settings key
	ActorID   string             `bson:"actor_id" json:"actor_id"`                   // User ID who performed the action
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"` // field -> {old, new}
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Log is one application log line persisted by the logger's database sink.
type Log struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ApplicationId string             `bson:"application_id" json:"application_id"`
	Message       string             `bson:"message" json:"message"`
	IpAddress     string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserId        string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Caller        string             `bson:"caller,omitempty" json:"caller,omitempty"`
	LogLevelId    int                `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc  time.Time          `bson:"created_on_utc" json:"created_on_utc"`
}
