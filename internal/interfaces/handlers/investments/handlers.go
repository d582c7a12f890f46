package investments

import (
	"math"

	ledgersvc "seedlink-backend/internal/application/ledger"
	"seedlink-backend/internal/domain"
	"seedlink-backend/internal/middleware"
	"seedlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *ledgersvc.Service
}

// InvestRequest body: startup_id, amount (decimal), method
// (wallet-transfer or bank-transfer), reference (tx hash or UTR).
type InvestRequest struct {
	StartupID string  `json:"startup_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

// Invest POST /api/v1/investments/invest — investor role only
// (middleware applied on route). Wallet transfers complete immediately;
// bank transfers are recorded pending.
func (h *Handlers) Invest(c *fiber.Ctx) error {
	var req InvestRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if req.StartupID == "" || req.Amount == 0 || req.Method == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	startupID, err := uuid.Parse(req.StartupID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for startup_id", 400, nil)
	}
	if req.Amount <= 0 {
		return response.Error(c, "Amount must be a positive number", 400, nil)
	}

	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	amountCents := int64(math.Round(req.Amount * 100))
	var ref *string
	if req.Reference != "" {
		ref = &req.Reference
	}

	tx, err := h.Service.Invest(c.Context(), actor, ledgersvc.InvestInput{
		StartupID:   startupID,
		AmountCents: amountCents,
		Method:      req.Method,
		Reference:   ref,
	})
	if err != nil {
		return mapLedgerError(c, err)
	}
	return response.SuccessCreated(c, "Investment recorded", fiber.Map{"transaction": publicTx(tx)}, nil)
}

// VerifyRequest body: tx_id of the pending transaction.
type VerifyRequest struct {
	TxID string `json:"tx_id"`
}

// Approve POST /api/v1/investments/approve — startup owner confirms a
// pending bank transfer. A repeat call returns 409 and never
// double-counts the funds.
func (h *Handlers) Approve(c *fiber.Ctx) error {
	return h.verify(c, true)
}

// Reject POST /api/v1/investments/reject — startup owner marks a
// pending bank transfer failed.
func (h *Handlers) Reject(c *fiber.Ctx) error {
	return h.verify(c, false)
}

func (h *Handlers) verify(c *fiber.Ctx, approve bool) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "tx_id is required", 400, nil)
	}
	if req.TxID == "" {
		return response.Error(c, "tx_id is required", 400, nil)
	}
	txID, err := uuid.Parse(req.TxID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for tx_id", 400, nil)
	}

	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var tx *domain.Transaction
	if approve {
		tx, err = h.Service.Approve(c.Context(), actor, txID)
	} else {
		tx, err = h.Service.Reject(c.Context(), actor, txID)
	}
	if err != nil {
		return mapLedgerError(c, err)
	}

	msg := "Transaction approved"
	if !approve {
		msg = "Transaction rejected"
	}
	return response.Success(c, msg, fiber.Map{"transaction": publicTx(tx)}, nil)
}

// MyInvestments GET /api/v1/investments/my-investments — the caller's
// transactions across all startups.
func (h *Handlers) MyInvestments(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	txs, err := h.Service.ListForInvestor(c.Context(), actor)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Transactions fetched successfully", fiber.Map{"transactions": publicTxs(txs)}, nil)
}

// StartupTransactions GET /api/v1/investments/startup-transactions —
// all transactions against the caller's startup.
func (h *Handlers) StartupTransactions(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	txs, err := h.Service.ListForStartup(c.Context(), actor)
	if err != nil {
		return mapLedgerError(c, err)
	}
	return response.Success(c, "Transactions fetched successfully", fiber.Map{"transactions": publicTxs(txs)}, nil)
}

// PendingTransactions GET /api/v1/investments/pending-transactions —
// the caller's verification queue, oldest first.
func (h *Handlers) PendingTransactions(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	txs, err := h.Service.PendingForStartup(c.Context(), actor)
	if err != nil {
		return mapLedgerError(c, err)
	}
	return response.Success(c, "Pending transactions fetched successfully", fiber.Map{"transactions": publicTxs(txs)}, nil)
}

// Events GET /api/v1/investments/events — audit trail for the caller's startup.
func (h *Handlers) Events(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	events, err := h.Service.EventsForStartup(c.Context(), actor)
	if err != nil {
		return mapLedgerError(c, err)
	}
	return response.Success(c, "Events fetched successfully", fiber.Map{"events": events}, nil)
}

func getActor(c *fiber.Ctx) uuid.UUID {
	u := middleware.GetUser(c)
	m, ok := u.(map[string]interface{})
	if !ok {
		return uuid.Nil
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func mapLedgerError(c *fiber.Ctx, err error) error {
	statusMap := map[error]int{
		ledgersvc.ErrInvalidAmount:    400,
		ledgersvc.ErrInvalidMethod:    400,
		ledgersvc.ErrInvalidReference: 400,
		ledgersvc.ErrOwnStartup:       400,
		ledgersvc.ErrStartupNotFound:  404,
		ledgersvc.ErrTxNotFound:       404,
		ledgersvc.ErrNotOwner:         403,
		ledgersvc.ErrAlreadyProcessed: 409,
	}
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

func publicTx(t *domain.Transaction) fiber.Map {
	return fiber.Map{
		"tx_id":       t.TxID.String(),
		"investor_id": t.InvestorID.String(),
		"startup_id":  t.StartupID.String(),
		"amount":      float64(t.AmountCents) / 100,
		"method":      t.Method,
		"status":      t.Status,
		"reference":   t.Reference,
		"createdAt":   t.CreatedAt,
		"updatedAt":   t.UpdatedAt,
	}
}

func publicTxs(txs []domain.Transaction) []fiber.Map {
	out := make([]fiber.Map, 0, len(txs))
	for i := range txs {
		out = append(out, publicTx(&txs[i]))
	}
	return out
}
