package investments

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	ledgersvc "seedlink-backend/internal/application/ledger"
	"seedlink-backend/internal/domain"
	"seedlink-backend/internal/middleware"
	"seedlink-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const validTxHash = "0x4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
const validUTR = "UTR123456789"

func setupInvestTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Startup{},
		&domain.Transaction{}, &domain.TransactionEvent{},
	))
	svc := &ledgersvc.Service{DB: db}
	return &Handlers{Service: svc}, db
}

func seedStartup(t *testing.T, db *gorm.DB) (uuid.UUID, uuid.UUID) {
	ownerID := uuid.New()
	require.NoError(t, db.Create(&domain.User{
		UserID: ownerID, UserName: "founder-" + ownerID.String()[:8],
		Email: ownerID.String()[:8] + "@test.com", PasswordHash: "x",
		Fullname: "Founder", Role: "startup",
	}).Error)
	startup := &domain.Startup{
		UserID: ownerID, Name: "Acme", FundingStage: domain.StageSeed,
		FundingGoalCents: 1_000_000,
	}
	require.NoError(t, db.Create(startup).Error)
	return startup.StartupID, ownerID
}

func sessionUser(userID uuid.UUID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": userID.String(),
			"role":    role,
		})
		return c.Next()
	}
}

func TestInvest_MissingFields(t *testing.T) {
	h, _ := setupInvestTest(t)
	app := fiber.New()
	app.Post("/invest", h.Invest)

	body, _ := json.Marshal(map[string]interface{}{})
	req := httptest.NewRequest("POST", "/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestInvest_NegativeAmount(t *testing.T) {
	h, db := setupInvestTest(t)
	startupID, _ := seedStartup(t, db)
	app := fiber.New()
	app.Use(sessionUser(uuid.New(), constants.RoleInvestor))
	app.Post("/invest", h.Invest)

	body, _ := json.Marshal(map[string]interface{}{
		"startup_id": startupID.String(),
		"amount":     -5.0,
		"method":     domain.MethodWalletTransfer,
		"reference":  validTxHash,
	})
	req := httptest.NewRequest("POST", "/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&domain.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestInvest_WalletTransferCompletes(t *testing.T) {
	h, db := setupInvestTest(t)
	startupID, _ := seedStartup(t, db)
	app := fiber.New()
	app.Use(sessionUser(uuid.New(), constants.RoleInvestor))
	app.Post("/invest", h.Invest)

	body, _ := json.Marshal(map[string]interface{}{
		"startup_id": startupID.String(),
		"amount":     250.75,
		"method":     domain.MethodWalletTransfer,
		"reference":  validTxHash,
	})
	req := httptest.NewRequest("POST", "/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	assert.Equal(t, "success", out["status"])
	data, _ := out["data"].(map[string]interface{})
	tx, _ := data["transaction"].(map[string]interface{})
	require.NotNil(t, tx)
	assert.Equal(t, domain.StatusCompleted, tx["status"])
	assert.Equal(t, 250.75, tx["amount"])

	var s domain.Startup
	require.NoError(t, db.Where("startup_id = ?", startupID).First(&s).Error)
	assert.Equal(t, int64(25075), s.FundsRaisedCents)
}

func TestInvest_RequiresInvestorRole(t *testing.T) {
	h, db := setupInvestTest(t)
	startupID, ownerID := seedStartup(t, db)
	app := fiber.New()
	app.Use(sessionUser(ownerID, constants.RoleStartup))
	app.Post("/invest", middleware.AuthorizePermission(constants.Invest), h.Invest)

	body, _ := json.Marshal(map[string]interface{}{
		"startup_id": startupID.String(),
		"amount":     10.0,
		"method":     domain.MethodWalletTransfer,
		"reference":  validTxHash,
	})
	req := httptest.NewRequest("POST", "/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestApprove_FullFlow(t *testing.T) {
	h, db := setupInvestTest(t)
	startupID, ownerID := seedStartup(t, db)
	investorID := uuid.New()

	investApp := fiber.New()
	investApp.Use(sessionUser(investorID, constants.RoleInvestor))
	investApp.Post("/invest", h.Invest)

	body, _ := json.Marshal(map[string]interface{}{
		"startup_id": startupID.String(),
		"amount":     100.0,
		"method":     domain.MethodBankTransfer,
		"reference":  validUTR,
	})
	req := httptest.NewRequest("POST", "/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := investApp.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	data, _ := out["data"].(map[string]interface{})
	tx, _ := data["transaction"].(map[string]interface{})
	require.NotNil(t, tx)
	assert.Equal(t, domain.StatusPending, tx["status"])
	txID, _ := tx["tx_id"].(string)
	require.NotEmpty(t, txID)

	ownerApp := fiber.New()
	ownerApp.Use(sessionUser(ownerID, constants.RoleStartup))
	ownerApp.Post("/approve", h.Approve)

	approveBody, _ := json.Marshal(map[string]interface{}{"tx_id": txID})
	req = httptest.NewRequest("POST", "/approve", bytes.NewReader(approveBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = ownerApp.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var s domain.Startup
	require.NoError(t, db.Where("startup_id = ?", startupID).First(&s).Error)
	assert.Equal(t, int64(10000), s.FundsRaisedCents)

	// Second approval: 409 and funds unchanged
	req = httptest.NewRequest("POST", "/approve", bytes.NewReader(approveBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = ownerApp.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	require.NoError(t, db.Where("startup_id = ?", startupID).First(&s).Error)
	assert.Equal(t, int64(10000), s.FundsRaisedCents)
}

func TestApprove_NonOwnerForbidden(t *testing.T) {
	h, db := setupInvestTest(t)
	startupID, _ := seedStartup(t, db)
	investorID := uuid.New()

	investApp := fiber.New()
	investApp.Use(sessionUser(investorID, constants.RoleInvestor))
	investApp.Post("/invest", h.Invest)

	body, _ := json.Marshal(map[string]interface{}{
		"startup_id": startupID.String(),
		"amount":     100.0,
		"method":     domain.MethodBankTransfer,
		"reference":  validUTR,
	})
	req := httptest.NewRequest("POST", "/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := investApp.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	data, _ := out["data"].(map[string]interface{})
	tx, _ := data["transaction"].(map[string]interface{})
	txID, _ := tx["tx_id"].(string)

	// A different startup user (not the owner of this campaign)
	strangerApp := fiber.New()
	strangerApp.Use(sessionUser(uuid.New(), constants.RoleStartup))
	strangerApp.Post("/approve", h.Approve)

	approveBody, _ := json.Marshal(map[string]interface{}{"tx_id": txID})
	req = httptest.NewRequest("POST", "/approve", bytes.NewReader(approveBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = strangerApp.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestPendingTransactions_OwnerQueue(t *testing.T) {
	h, db := setupInvestTest(t)
	startupID, ownerID := seedStartup(t, db)
	investorID := uuid.New()

	ref := validUTR
	require.NoError(t, db.Create(&domain.Transaction{
		InvestorID: investorID, StartupID: startupID,
		AmountCents: 5000, Method: domain.MethodBankTransfer,
		Status: domain.StatusPending, Reference: &ref,
	}).Error)
	require.NoError(t, db.Create(&domain.Transaction{
		InvestorID: investorID, StartupID: startupID,
		AmountCents: 7000, Method: domain.MethodWalletTransfer,
		Status: domain.StatusCompleted, Reference: &ref,
	}).Error)

	app := fiber.New()
	app.Use(sessionUser(ownerID, constants.RoleStartup))
	app.Get("/pending-transactions", h.PendingTransactions)

	req := httptest.NewRequest("GET", "/pending-transactions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	data, _ := out["data"].(map[string]interface{})
	txs, _ := data["transactions"].([]interface{})
	require.Len(t, txs, 1)
	first, _ := txs[0].(map[string]interface{})
	assert.Equal(t, domain.StatusPending, first["status"])
}
