package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment methods.
const (
	MethodWalletTransfer = "wallet-transfer"
	MethodBankTransfer   = "bank-transfer"
)

// Transaction statuses. Pending is the only transient state; completed
// and failed are terminal.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction is a ledger entry for one payment attempt. Amount and
// method never change after create; only status moves, and only
// pending -> completed or pending -> failed.
type Transaction struct {
	TxID       uuid.UUID `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	InvestorID uuid.UUID `gorm:"column:investor_id;type:uuid;not null;index" json:"investor_id"`
	StartupID  uuid.UUID `gorm:"column:startup_id;type:uuid;not null;index" json:"startup_id"`
	AmountCents int64    `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Method     string    `gorm:"column:method;type:varchar(20);not null" json:"method"`
	Status     string    `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	Reference  *string   `gorm:"column:reference" json:"reference"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "Transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}
