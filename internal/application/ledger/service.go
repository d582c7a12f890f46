package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"seedlink-backend/internal/application/emails"
	"seedlink-backend/internal/domain"
	"seedlink-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is the transaction recorder and funds aggregator. Every write
// path runs inside a single DB transaction so a ledger row and its
// funds increment commit or roll back as a unit.
type Service struct {
	DB          *gorm.DB
	EmailSender emails.Sender
}

// InvestInput is a payment attempt handed over by a payment-method
// adapter: decimal amount already converted to minor units, plus the
// opaque reference the adapter produced.
type InvestInput struct {
	StartupID   uuid.UUID
	AmountCents int64
	Method      string
	Reference   *string
}

// Invest records a payment attempt by an investor. Wallet transfers are
// recorded completed and fold into the startup's raised total
// immediately; bank transfers stay pending until the owner verifies the
// reference.
func (s *Service) Invest(ctx context.Context, investorID uuid.UUID, in InvestInput) (*domain.Transaction, error) {
	if in.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.Method != domain.MethodWalletTransfer && in.Method != domain.MethodBankTransfer {
		return nil, ErrInvalidMethod
	}
	if err := validateReference(in.Method, in.Reference); err != nil {
		return nil, err
	}

	var created domain.Transaction

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var startup domain.Startup
		if err := tx.Where("startup_id = ?", in.StartupID).First(&startup).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrStartupNotFound
			}
			return err
		}
		if startup.UserID == investorID {
			return ErrOwnStartup
		}

		status := domain.StatusPending
		if in.Method == domain.MethodWalletTransfer {
			status = domain.StatusCompleted
		}

		created = domain.Transaction{
			InvestorID:  investorID,
			StartupID:   in.StartupID,
			AmountCents: in.AmountCents,
			Method:      in.Method,
			Status:      status,
			Reference:   in.Reference,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		if err := recordEvent(tx, &created, domain.TxEventCreated, &investorID); err != nil {
			return err
		}

		if status == domain.StatusCompleted {
			if err := addFunds(tx, in.StartupID, in.AmountCents); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created.Status == domain.StatusPending && s.EmailSender != nil {
		go s.notifyOwnerPending(created)
	}

	return &created, nil
}

// notifyOwnerPending emails the startup owner that a bank transfer is
// waiting for verification. Runs after commit, best effort.
func (s *Service) notifyOwnerPending(row domain.Transaction) {
	ctx := context.Background()

	var startup domain.Startup
	if err := s.DB.WithContext(ctx).Where("startup_id = ?", row.StartupID).First(&startup).Error; err != nil {
		return
	}
	var owner domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", startup.UserID).First(&owner).Error; err != nil {
		return
	}

	amount := fmt.Sprintf("%.2f", float64(row.AmountCents)/100)
	reference := ""
	if row.Reference != nil {
		reference = *row.Reference
	}
	if err := s.EmailSender.SendPaymentPending(ctx, owner.Email, amount, reference); err != nil {
		log.Warn().Err(err).Str("tx_id", row.TxID.String()).Msg("pending payment notification: send failed")
	}
}

// Approve transitions a pending transaction to completed and applies
// the funds increment exactly once. Only the owner of the referenced
// startup may approve; a second approval of the same row fails with
// ErrAlreadyProcessed and never increments again.
func (s *Service) Approve(ctx context.Context, actorID, txID uuid.UUID) (*domain.Transaction, error) {
	return s.transition(ctx, actorID, txID, domain.StatusCompleted)
}

// Reject transitions a pending transaction to failed. No funds movement.
func (s *Service) Reject(ctx context.Context, actorID, txID uuid.UUID) (*domain.Transaction, error) {
	return s.transition(ctx, actorID, txID, domain.StatusFailed)
}

func (s *Service) transition(ctx context.Context, actorID, txID uuid.UUID, to string) (*domain.Transaction, error) {
	var out domain.Transaction

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row domain.Transaction
		if err := tx.Where("tx_id = ?", txID).First(&row).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTxNotFound
			}
			return err
		}

		var startup domain.Startup
		if err := tx.Where("startup_id = ?", row.StartupID).First(&startup).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrStartupNotFound
			}
			return err
		}
		if startup.UserID != actorID {
			return ErrNotOwner
		}

		// Conditional transition: only a pending row moves. Zero rows
		// affected means the row was already completed or failed, so a
		// duplicate approval can never increment twice.
		res := tx.Model(&domain.Transaction{}).
			Where("tx_id = ? AND status = ?", txID, domain.StatusPending).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		if to == domain.StatusCompleted {
			if err := addFunds(tx, row.StartupID, row.AmountCents); err != nil {
				return err
			}
		}

		row.Status = to
		eventType := domain.TxEventCompleted
		if to == domain.StatusFailed {
			eventType = domain.TxEventFailed
		}
		if err := recordEvent(tx, &row, eventType, &actorID); err != nil {
			return err
		}

		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// addFunds is the funds aggregator: one atomic SQL increment, never a
// read-modify-write, so concurrent completions cannot lose updates.
func addFunds(tx *gorm.DB, startupID uuid.UUID, amountCents int64) error {
	res := tx.Model(&domain.Startup{}).
		Where("startup_id = ?", startupID).
		UpdateColumn("funds_raised_cents", gorm.Expr("funds_raised_cents + ?", amountCents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStartupNotFound
	}
	return nil
}

func recordEvent(tx *gorm.DB, row *domain.Transaction, eventType string, actor *uuid.UUID) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"amount_cents": row.AmountCents,
		"method":       row.Method,
		"status":       row.Status,
		"reference":    row.Reference,
	})
	return tx.Create(&domain.TransactionEvent{
		TxID:        row.TxID,
		StartupID:   row.StartupID,
		EventType:   eventType,
		ActorUserID: actor,
		EventData:   datatypes.JSON(payload),
	}).Error
}

func validateReference(method string, ref *string) error {
	if ref == nil || *ref == "" {
		return ErrInvalidReference
	}
	switch method {
	case domain.MethodWalletTransfer:
		if !validation.IsValidTxHash(*ref) {
			return ErrInvalidReference
		}
	case domain.MethodBankTransfer:
		if !validation.IsValidUTR(*ref) {
			return ErrInvalidReference
		}
	}
	return nil
}

// ListForInvestor returns the investor's transactions, newest first.
func (s *Service) ListForInvestor(ctx context.Context, investorID uuid.UUID) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := s.DB.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order(`"createdAt" DESC`).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// ListForStartup returns all transactions against the startup owned by
// ownerID, newest first. Pending bank transfers appear here for the
// owner's verification queue.
func (s *Service) ListForStartup(ctx context.Context, ownerID uuid.UUID) ([]domain.Transaction, error) {
	startup, err := s.ownedStartup(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var txs []domain.Transaction
	if err := s.DB.WithContext(ctx).
		Where("startup_id = ?", startup.StartupID).
		Order(`"createdAt" DESC`).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// PendingForStartup returns only the pending rows awaiting verification.
func (s *Service) PendingForStartup(ctx context.Context, ownerID uuid.UUID) ([]domain.Transaction, error) {
	startup, err := s.ownedStartup(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var txs []domain.Transaction
	if err := s.DB.WithContext(ctx).
		Where("startup_id = ? AND status = ?", startup.StartupID, domain.StatusPending).
		Order(`"createdAt" ASC`).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// EventsForStartup returns the audit trail for the startup owned by ownerID.
func (s *Service) EventsForStartup(ctx context.Context, ownerID uuid.UUID) ([]domain.TransactionEvent, error) {
	startup, err := s.ownedStartup(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var events []domain.TransactionEvent
	if err := s.DB.WithContext(ctx).
		Where("startup_id = ?", startup.StartupID).
		Order(`"createdAt" ASC`).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CompletedTotalCents returns the sum of completed contributions by one
// investor to one startup. Used by the updates read path to decide the
// investor's tier.
func (s *Service) CompletedTotalCents(ctx context.Context, investorID, startupID uuid.UUID) (int64, error) {
	var total int64
	err := s.DB.WithContext(ctx).Model(&domain.Transaction{}).
		Where("investor_id = ? AND startup_id = ? AND status = ?", investorID, startupID, domain.StatusCompleted).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) ownedStartup(ctx context.Context, ownerID uuid.UUID) (*domain.Startup, error) {
	var startup domain.Startup
	if err := s.DB.WithContext(ctx).Where("user_id = ?", ownerID).First(&startup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStartupNotFound
		}
		return nil, err
	}
	return &startup, nil
}
