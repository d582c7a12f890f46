package updates

import (
	"context"
	"errors"
	"strings"

	"seedlink-backend/internal/application/emails"
	"seedlink-backend/internal/domain"
	"seedlink-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service encapsulates investor-update operations.
type Service struct {
	DB          *gorm.DB
	EmailSender emails.Sender
}

var (
	ErrStartupNotFound = errors.New("Startup not found")
	ErrNoContribution  = errors.New("Only investors who have backed this startup can view its updates")
)

// PostUpdateInput is the create-update payload.
type PostUpdateInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
}

// PostUpdate creates an update on the caller's startup and notifies the
// eligible investors by email, best effort.
func (s *Service) PostUpdate(ctx context.Context, ownerID uuid.UUID, in PostUpdateInput) (*domain.Update, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.New("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, errors.New("Content is required")
	}
	if in.Visibility == "" {
		in.Visibility = domain.VisibilityAll
	}
	if in.Visibility != domain.VisibilityAll && in.Visibility != domain.VisibilityMajor {
		return nil, errors.New("Invalid visibility scope")
	}

	var startup domain.Startup
	if err := s.DB.WithContext(ctx).Where("user_id = ?", ownerID).First(&startup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStartupNotFound
		}
		return nil, err
	}

	update := &domain.Update{
		StartupID:  startup.StartupID,
		Title:      strings.TrimSpace(in.Title),
		Content:    in.Content,
		Visibility: in.Visibility,
	}
	if err := s.DB.WithContext(ctx).Create(update).Error; err != nil {
		return nil, err
	}

	if s.EmailSender != nil {
		go s.notifyInvestors(&startup, update)
	}

	return update, nil
}

// ListForInvestor returns the updates an investor may read for one
// startup. Requires at least one completed contribution; "major"
// updates additionally require the investor's completed total to reach
// the major-investor share of the funding goal.
func (s *Service) ListForInvestor(ctx context.Context, investorID, startupID uuid.UUID) ([]domain.Update, error) {
	var startup domain.Startup
	if err := s.DB.WithContext(ctx).Where("startup_id = ?", startupID).First(&startup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStartupNotFound
		}
		return nil, err
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&domain.Transaction{}).
		Where("investor_id = ? AND startup_id = ? AND status = ?", investorID, startupID, domain.StatusCompleted).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error; err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNoContribution
	}

	q := s.DB.WithContext(ctx).Where("startup_id = ?", startupID)
	if !isMajor(total, startup.FundingGoalCents) {
		q = q.Where("visibility = ?", domain.VisibilityAll)
	}
	var out []domain.Update
	if err := q.Order(`"createdAt" DESC`).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListForOwner returns all updates on the caller's startup.
func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Update, error) {
	var startup domain.Startup
	if err := s.DB.WithContext(ctx).Where("user_id = ?", ownerID).First(&startup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStartupNotFound
		}
		return nil, err
	}
	var out []domain.Update
	if err := s.DB.WithContext(ctx).Where("startup_id = ?", startup.StartupID).
		Order(`"createdAt" DESC`).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// isMajor: completed total reaches MajorInvestorGoalPercent of the goal.
func isMajor(totalCents, goalCents int64) bool {
	if goalCents <= 0 {
		return false
	}
	return totalCents*100 >= goalCents*constants.MajorInvestorGoalPercent
}

type investorTotal struct {
	InvestorID uuid.UUID `gorm:"column:investor_id"`
	TotalCents int64     `gorm:"column:total_cents"`
}

// notifyInvestors emails every investor the new update is visible to.
// Runs in its own goroutine; failures are logged and dropped.
func (s *Service) notifyInvestors(startup *domain.Startup, update *domain.Update) {
	ctx := context.Background()

	var totals []investorTotal
	if err := s.DB.WithContext(ctx).Model(&domain.Transaction{}).
		Where("startup_id = ? AND status = ?", startup.StartupID, domain.StatusCompleted).
		Select("investor_id, SUM(amount_cents) AS total_cents").
		Group("investor_id").
		Scan(&totals).Error; err != nil {
		log.Warn().Err(err).Str("startup_id", startup.StartupID.String()).Msg("update notification: investor totals query failed")
		return
	}

	for _, t := range totals {
		if update.Visibility == domain.VisibilityMajor && !isMajor(t.TotalCents, startup.FundingGoalCents) {
			continue
		}
		var investor domain.User
		if err := s.DB.WithContext(ctx).Where("user_id = ?", t.InvestorID).First(&investor).Error; err != nil {
			continue
		}
		if err := s.EmailSender.SendInvestorUpdate(ctx, investor.Email, startup.Name, update.Title); err != nil {
			log.Warn().Err(err).Str("email", investor.Email).Msg("update notification: send failed")
		}
	}
}
