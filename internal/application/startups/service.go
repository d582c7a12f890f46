package startups

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"seedlink-backend/internal/domain"
	"seedlink-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates startup-profile operations.
type Service struct {
	DB *gorm.DB
}

// CreateStartupInput is the create-profile payload. FundingGoal is a
// decimal amount; it is converted to minor units here.
type CreateStartupInput struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Pitch          string     `json:"pitch"`
	FundingStage   string     `json:"funding_stage"`
	FundingGoal    float64    `json:"funding_goal"`
	WalletAddress  *string    `json:"wallet_address"`
	UpiID          *string    `json:"upi_id"`
	CampaignEndsAt *time.Time `json:"campaign_ends_at"`
}

// CreateStartup creates the campaign profile for a startup user. A user
// may own at most one profile.
func (s *Service) CreateStartup(ctx context.Context, userID uuid.UUID, in CreateStartupInput) (*domain.Startup, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("Startup name is required")
	}
	if !domain.IsValidStage(in.FundingStage) {
		return nil, errors.New("Invalid funding stage")
	}
	if in.FundingGoal <= 0 {
		return nil, errors.New("Funding goal must be a positive number")
	}
	if in.WalletAddress != nil && *in.WalletAddress != "" && !validation.IsValidWalletAddress(*in.WalletAddress) {
		return nil, errors.New("Invalid wallet address")
	}
	if in.UpiID != nil && *in.UpiID != "" && !validation.IsValidUpiID(*in.UpiID) {
		return nil, errors.New("Invalid UPI ID")
	}

	var existing domain.Startup
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return nil, errors.New("Startup profile already exists for this user")
	}

	startup := &domain.Startup{
		UserID:           userID,
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		Pitch:            in.Pitch,
		FundingStage:     in.FundingStage,
		FundingGoalCents: int64(math.Round(in.FundingGoal * 100)),
		WalletAddress:    in.WalletAddress,
		UpiID:            in.UpiID,
		CampaignEndsAt:   in.CampaignEndsAt,
	}
	if err := s.DB.WithContext(ctx).Create(startup).Error; err != nil {
		return nil, err
	}
	return startup, nil
}

// GetByID returns one startup by id.
func (s *Service) GetByID(ctx context.Context, startupID uuid.UUID) (*domain.Startup, error) {
	var startup domain.Startup
	if err := s.DB.WithContext(ctx).Where("startup_id = ?", startupID).First(&startup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Startup not found")
		}
		return nil, err
	}
	return &startup, nil
}

// GetByOwner returns the startup owned by userID.
func (s *Service) GetByOwner(ctx context.Context, userID uuid.UUID) (*domain.Startup, error) {
	var startup domain.Startup
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&startup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Startup not found")
		}
		return nil, err
	}
	return &startup, nil
}

// GetAll returns all startups, optionally filtered by funding stage,
// newest first.
func (s *Service) GetAll(ctx context.Context, stage string) ([]domain.Startup, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Startup{})
	if stage != "" {
		if !domain.IsValidStage(stage) {
			return nil, errors.New("Invalid funding stage")
		}
		q = q.Where("funding_stage = ?", stage)
	}
	var out []domain.Startup
	if err := q.Order(`"createdAt" DESC`).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStartup updates allowed profile fields on the caller's startup.
// funds_raised_cents is never writable here; only the ledger touches it.
func (s *Service) UpdateStartup(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*domain.Startup, error) {
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}

	allowed := map[string]bool{
		"name": true, "description": true, "pitch": true, "funding_stage": true,
		"funding_goal": true, "wallet_address": true, "upi_id": true, "campaign_ends_at": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		upd[k] = v
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}

	if stage, ok := upd["funding_stage"].(string); ok && !domain.IsValidStage(stage) {
		return nil, errors.New("Invalid funding stage")
	}
	if goal, ok := upd["funding_goal"].(float64); ok {
		if goal <= 0 {
			return nil, errors.New("Funding goal must be a positive number")
		}
		upd["funding_goal_cents"] = int64(math.Round(goal * 100))
		delete(upd, "funding_goal")
	}
	if wa, ok := upd["wallet_address"].(string); ok && wa != "" && !validation.IsValidWalletAddress(wa) {
		return nil, errors.New("Invalid wallet address")
	}
	if vpa, ok := upd["upi_id"].(string); ok && vpa != "" && !validation.IsValidUpiID(vpa) {
		return nil, errors.New("Invalid UPI ID")
	}

	result := s.DB.WithContext(ctx).Model(&domain.Startup{}).Where("user_id = ?", userID).Updates(upd)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("Startup not found")
	}

	return s.GetByOwner(ctx, userID)
}
