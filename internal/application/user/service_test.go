package user

import (
	"context"
	"testing"

	"seedlink-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) (*Service, *gorm.DB, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return &Service{DB: db, Rdb: rdb}, db, rdb
}

func validRegister(role string) RegisterInput {
	return RegisterInput{
		UserName: "jdoe",
		Email:    "jdoe@example.com",
		Password: "Secur3!pass",
		Fullname: "jane doe",
		Role:     role,
	}
}

func TestRegister_RoleMustBeStartupOrInvestor(t *testing.T) {
	svc, _, _ := setupUserService(t)

	for _, role := range []string{"admin", "superuser", ""} {
		in := validRegister(role)
		_, err := svc.Register(context.Background(), in)
		assert.EqualError(t, err, "Role must be either startup or investor")
	}

	u, err := svc.Register(context.Background(), validRegister("investor"))
	require.NoError(t, err)
	assert.Equal(t, "investor", u.Role)
	assert.Equal(t, "Jane Doe", u.Fullname)
}

func TestRegister_DuplicateEmailAndUsername(t *testing.T) {
	svc, _, _ := setupUserService(t)

	_, err := svc.Register(context.Background(), validRegister("investor"))
	require.NoError(t, err)

	dup := validRegister("startup")
	dup.UserName = "other"
	_, err = svc.Register(context.Background(), dup)
	assert.EqualError(t, err, "Email already registered")

	dup = validRegister("startup")
	dup.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dup)
	assert.EqualError(t, err, "Username already registered")
}

func TestUpdateUser_RoleIsImmutable(t *testing.T) {
	svc, _, _ := setupUserService(t)

	u, err := svc.Register(context.Background(), validRegister("investor"))
	require.NoError(t, err)

	_, err = svc.UpdateUser(context.Background(), u.UserID.String(), map[string]interface{}{
		"role": "startup",
	})
	assert.EqualError(t, err, "User role cannot be changed after registration")

	got, err := svc.ViewUser(context.Background(), u.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, "investor", got.Role)
}

func TestUpdateUser_AllowedFields(t *testing.T) {
	svc, _, _ := setupUserService(t)

	u, err := svc.Register(context.Background(), validRegister("startup"))
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), u.UserID.String(), map[string]interface{}{
		"fullname":       "john smith",
		"wallet_address": "0x52908400098527886E0F7030069857D2E4169EE7",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Smith", updated.Fullname)
	require.NotNil(t, updated.WalletAddress)
}

func TestRemoveUser_Policies(t *testing.T) {
	svc, db, rdb := setupUserService(t)

	admin := &domain.User{UserName: "admin1", Email: "admin@test.com", PasswordHash: "x", Fullname: "Admin", Role: "admin"}
	require.NoError(t, db.Create(admin).Error)
	admin2 := &domain.User{UserName: "admin2", Email: "admin2@test.com", PasswordHash: "x", Fullname: "Admin", Role: "admin"}
	require.NoError(t, db.Create(admin2).Error)
	target := &domain.User{UserName: "target1", Email: "t@test.com", PasswordHash: "x", Fullname: "T", Role: "investor"}
	require.NoError(t, db.Create(target).Error)

	// Self-removal rejected
	err := svc.RemoveUser(context.Background(), RemoveUserInput{
		ActorUserID: admin.UserID.String(), ActorRole: "admin", TargetUserID: admin.UserID.String(),
	})
	assert.EqualError(t, err, "You cannot remove your own account")

	// Admins cannot remove admins
	err = svc.RemoveUser(context.Background(), RemoveUserInput{
		ActorUserID: admin.UserID.String(), ActorRole: "admin", TargetUserID: admin2.UserID.String(),
	})
	assert.EqualError(t, err, "Admins cannot remove other admins")

	// Unknown target
	err = svc.RemoveUser(context.Background(), RemoveUserInput{
		ActorUserID: admin.UserID.String(), ActorRole: "admin", TargetUserID: uuid.New().String(),
	})
	assert.EqualError(t, err, "Target user not found")

	// Valid removal soft-deletes and destroys sessions
	require.NoError(t, rdb.SAdd(context.Background(), "user_sessions:"+target.UserID.String(), "sid1").Err())
	require.NoError(t, rdb.Set(context.Background(), "session:sid1", "{}", 0).Err())

	err = svc.RemoveUser(context.Background(), RemoveUserInput{
		ActorUserID: admin.UserID.String(), ActorRole: "admin", TargetUserID: target.UserID.String(),
	})
	require.NoError(t, err)

	var gone domain.User
	err = db.Where("user_id = ?", target.UserID).First(&gone).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := rdb.Exists(context.Background(), "session:sid1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}
