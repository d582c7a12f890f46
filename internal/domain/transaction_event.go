package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Transaction event types.
const (
	TxEventCreated   = "CREATED"
	TxEventCompleted = "COMPLETED"
	TxEventFailed    = "FAILED"
)

// TransactionEvent is one row of the ledger audit trail: every create
// and status transition is recorded here with the acting user and a
// JSON payload of what changed.
type TransactionEvent struct {
	EventID     uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	TxID        uuid.UUID      `gorm:"column:tx_id;type:uuid;not null;index" json:"tx_id"`
	StartupID   uuid.UUID      `gorm:"column:startup_id;type:uuid;not null;index" json:"startup_id"`
	EventType   string         `gorm:"column:event_type;type:varchar(20);not null" json:"event_type"`
	ActorUserID *uuid.UUID     `gorm:"column:actor_user_id;type:uuid" json:"actor_user_id"`
	EventData   datatypes.JSON `gorm:"column:event_data;type:jsonb" json:"event_data"`
	CreatedAt   time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (TransactionEvent) TableName() string {
	return "TransactionEvents"
}

func (e *TransactionEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
