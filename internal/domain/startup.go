package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Funding stages a campaign can declare.
const (
	StagePreSeed = "pre-seed"
	StageSeed    = "seed"
	StageSeriesA = "series-a"
	StageSeriesB = "series-b"
	StageSeriesC = "series-c"
)

// ValidStages is the set of allowed funding_stage values.
var ValidStages = []string{StagePreSeed, StageSeed, StageSeriesA, StageSeriesB, StageSeriesC}

// IsValidStage returns true if stage is one of the allowed enum values.
func IsValidStage(stage string) bool {
	for _, s := range ValidStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Startup is a fundraising campaign. Exactly one per owning user
// (unique index on user_id). Money is stored in integer minor units;
// FundsRaisedCents is only ever touched by the ledger's atomic
// increment and must equal the sum of completed transaction amounts.
type Startup struct {
	StartupID        uuid.UUID  `gorm:"column:startup_id;type:uuid;primaryKey" json:"startup_id"`
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	Name             string     `gorm:"column:name;not null" json:"name"`
	Description      string     `gorm:"column:description;type:text" json:"description"`
	Pitch            string     `gorm:"column:pitch;type:text" json:"pitch"`
	FundingStage     string     `gorm:"column:funding_stage;type:varchar(20);not null" json:"funding_stage"`
	FundingGoalCents int64      `gorm:"column:funding_goal_cents;not null" json:"funding_goal_cents"`
	FundsRaisedCents int64      `gorm:"column:funds_raised_cents;not null;default:0" json:"funds_raised_cents"`
	WalletAddress    *string    `gorm:"column:wallet_address" json:"wallet_address"`
	UpiID            *string    `gorm:"column:upi_id" json:"upi_id"`
	CampaignEndsAt   *time.Time `gorm:"column:campaign_ends_at" json:"campaign_ends_at"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (Startup) TableName() string {
	return "Startups"
}

func (s *Startup) BeforeCreate(tx *gorm.DB) error {
	if s.StartupID == uuid.Nil {
		s.StartupID = uuid.New()
	}
	return nil
}
