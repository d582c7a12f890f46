package startups

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

func setupStartupsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Startup{}))
	return &Service{DB: db}, db
}

func TestCreateStartup_ConvertsGoalToCents(t *testing.T) {
	svc, _ := setupStartupsTest(t)
	ownerID := uuid.New()

	s, err := svc.CreateStartup(context.Background(), ownerID, CreateStartupInput{
		Name: "Acme", FundingStage: domain.StageSeed, FundingGoal: 12345.67,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), s.FundingGoalCents)
	assert.Equal(t, int64(0), s.FundsRaisedCents)
}

func TestCreateStartup_Validation(t *testing.T) {
	svc, _ := setupStartupsTest(t)
	ownerID := uuid.New()

	cases := []struct {
		in  CreateStartupInput
		msg string
	}{
		{CreateStartupInput{Name: " ", FundingStage: domain.StageSeed, FundingGoal: 100}, "Startup name is required"},
		{CreateStartupInput{Name: "A", FundingStage: "ipo", FundingGoal: 100}, "Invalid funding stage"},
		{CreateStartupInput{Name: "A", FundingStage: domain.StageSeed, FundingGoal: -1}, "Funding goal must be a positive number"},
	}
	for _, tc := range cases {
		_, err := svc.CreateStartup(context.Background(), ownerID, tc.in)
		assert.EqualError(t, err, tc.msg)
	}
}

func TestCreateStartup_OnePerUser(t *testing.T) {
	svc, _ := setupStartupsTest(t)
	ownerID := uuid.New()

	_, err := svc.CreateStartup(context.Background(), ownerID, CreateStartupInput{
		Name: "Acme", FundingStage: domain.StageSeed, FundingGoal: 100,
	})
	require.NoError(t, err)

	_, err = svc.CreateStartup(context.Background(), ownerID, CreateStartupInput{
		Name: "Acme 2", FundingStage: domain.StageSeed, FundingGoal: 100,
	})
	assert.EqualError(t, err, "Startup profile already exists for this user")
}

func TestUpdateStartup_FundsRaisedNotWritable(t *testing.T) {
	svc, db := setupStartupsTest(t)
	ownerID := uuid.New()

	created, err := svc.CreateStartup(context.Background(), ownerID, CreateStartupInput{
		Name: "Acme", FundingStage: domain.StageSeed, FundingGoal: 100,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStartup(context.Background(), ownerID, map[string]interface{}{
		"funds_raised_cents": float64(999999),
	})
	assert.EqualError(t, err, "No valid update fields provided")

	var s domain.Startup
	require.NoError(t, db.Where("startup_id = ?", created.StartupID).First(&s).Error)
	assert.Equal(t, int64(0), s.FundsRaisedCents)
}

func TestUpdateStartup_AllowedFields(t *testing.T) {
	svc, _ := setupStartupsTest(t)
	ownerID := uuid.New()

	_, err := svc.CreateStartup(context.Background(), ownerID, CreateStartupInput{
		Name: "Acme", FundingStage: domain.StageSeed, FundingGoal: 100,
	})
	require.NoError(t, err)

	s, err := svc.UpdateStartup(context.Background(), ownerID, map[string]interface{}{
		"name":          "Acme Robotics",
		"funding_stage": domain.StageSeriesA,
		"funding_goal":  float64(2500),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics", s.Name)
	assert.Equal(t, domain.StageSeriesA, s.FundingStage)
	assert.Equal(t, int64(250000), s.FundingGoalCents)
}

func TestGetAll_StageFilter(t *testing.T) {
	svc, _ := setupStartupsTest(t)

	_, err := svc.CreateStartup(context.Background(), uuid.New(), CreateStartupInput{
		Name: "A", FundingStage: domain.StageSeed, FundingGoal: 100,
	})
	require.NoError(t, err)
	_, err = svc.CreateStartup(context.Background(), uuid.New(), CreateStartupInput{
		Name: "B", FundingStage: domain.StageSeriesA, FundingGoal: 100,
	})
	require.NoError(t, err)

	out, err := svc.GetAll(context.Background(), domain.StageSeed)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0].Name)

	_, err = svc.GetAll(context.Background(), "ipo")
	assert.EqualError(t, err, "Invalid funding stage")

	all, err := svc.GetAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
