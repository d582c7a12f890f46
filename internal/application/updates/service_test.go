package updates

import (
	"context"
	"testing"

	"seedlink-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUpdatesTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Startup{},
		&domain.Transaction{}, &domain.Update{},
	))
	return &Service{DB: db}, db
}

func seedCampaign(t *testing.T, db *gorm.DB, goalCents int64) (uuid.UUID, uuid.UUID) {
	ownerID := uuid.New()
	require.NoError(t, db.Create(&domain.User{
		UserID: ownerID, UserName: "owner-" + ownerID.String()[:8],
		Email: ownerID.String()[:8] + "@test.com", PasswordHash: "x",
		Fullname: "Owner", Role: "startup",
	}).Error)
	startup := &domain.Startup{
		UserID: ownerID, Name: "Acme", FundingStage: domain.StageSeed,
		FundingGoalCents: goalCents,
	}
	require.NoError(t, db.Create(startup).Error)
	return startup.StartupID, ownerID
}

func seedContribution(t *testing.T, db *gorm.DB, investorID, startupID uuid.UUID, cents int64, status string) {
	require.NoError(t, db.Create(&domain.Transaction{
		InvestorID: investorID, StartupID: startupID,
		AmountCents: cents, Method: domain.MethodWalletTransfer, Status: status,
	}).Error)
}

func TestPostUpdate_Validation(t *testing.T) {
	svc, db := setupUpdatesTest(t)
	_, ownerID := seedCampaign(t, db, 1_000_000)

	_, err := svc.PostUpdate(context.Background(), ownerID, PostUpdateInput{Title: "", Content: "body"})
	assert.EqualError(t, err, "Title is required")

	_, err = svc.PostUpdate(context.Background(), ownerID, PostUpdateInput{Title: "t", Content: "c", Visibility: "friends"})
	assert.EqualError(t, err, "Invalid visibility scope")

	_, err = svc.PostUpdate(context.Background(), uuid.New(), PostUpdateInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrStartupNotFound)
}

func TestPostUpdate_DefaultsToAllVisibility(t *testing.T) {
	svc, db := setupUpdatesTest(t)
	_, ownerID := seedCampaign(t, db, 1_000_000)

	u, err := svc.PostUpdate(context.Background(), ownerID, PostUpdateInput{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityAll, u.Visibility)
}

func TestListForInvestor_RequiresContribution(t *testing.T) {
	svc, db := setupUpdatesTest(t)
	startupID, ownerID := seedCampaign(t, db, 1_000_000)
	_, err := svc.PostUpdate(context.Background(), ownerID, PostUpdateInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	outsider := uuid.New()
	_, err = svc.ListForInvestor(context.Background(), outsider, startupID)
	assert.ErrorIs(t, err, ErrNoContribution)

	// A pending contribution does not grant access either
	seedContribution(t, db, outsider, startupID, 10_000, domain.StatusPending)
	_, err = svc.ListForInvestor(context.Background(), outsider, startupID)
	assert.ErrorIs(t, err, ErrNoContribution)
}

func TestListForInvestor_TierGating(t *testing.T) {
	svc, db := setupUpdatesTest(t)
	startupID, ownerID := seedCampaign(t, db, 1_000_000) // 5% threshold = 50_000 cents

	_, err := svc.PostUpdate(context.Background(), ownerID, PostUpdateInput{Title: "public", Content: "c"})
	require.NoError(t, err)
	_, err = svc.PostUpdate(context.Background(), ownerID, PostUpdateInput{Title: "insiders", Content: "c", Visibility: domain.VisibilityMajor})
	require.NoError(t, err)

	minor := uuid.New()
	seedContribution(t, db, minor, startupID, 10_000, domain.StatusCompleted)
	out, err := svc.ListForInvestor(context.Background(), minor, startupID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "public", out[0].Title)

	major := uuid.New()
	seedContribution(t, db, major, startupID, 50_000, domain.StatusCompleted)
	out, err = svc.ListForInvestor(context.Background(), major, startupID)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestListForOwner_ReturnsBothScopes(t *testing.T) {
	svc, db := setupUpdatesTest(t)
	_, ownerID := seedCampaign(t, db, 1_000_000)

	_, err := svc.PostUpdate(context.Background(), ownerID, PostUpdateInput{Title: "a", Content: "c"})
	require.NoError(t, err)
	_, err = svc.PostUpdate(context.Background(), ownerID, PostUpdateInput{Title: "b", Content: "c", Visibility: domain.VisibilityMajor})
	require.NoError(t, err)

	out, err := svc.ListForOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
