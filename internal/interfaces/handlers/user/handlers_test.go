package user

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	usersvc "seedlink-backend/internal/application/user"
	"seedlink-backend/internal/domain"
	"seedlink-backend/internal/middleware"
	"seedlink-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*Handlers, *gorm.DB) {
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
	svc := &usersvc.Service{DB: db, Rdb: rdb}
	handlers := &Handlers{
		Service: svc,
		Config:  middleware.SessionConfig{AllowCrossSiteDev: false, IsProduction: false},
	}
	return handlers, db
}

func TestRegister_MissingFields(t *testing.T) {
	h, _ := setupUserTest(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	body, _ := json.Marshal(map[string]string{"user_name": "u1", "email": "u1@test.com"})
	req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	h, _ := setupUserTest(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	body, _ := json.Marshal(map[string]string{
		"user_name": "u1", "email": "u1@test.com", "password": "Secur3!pass",
		"fullname": "User One", "role": "admin",
	})
	req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegister_SuccessSetsSessionCookie(t *testing.T) {
	h, _ := setupUserTest(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	body, _ := json.Marshal(map[string]string{
		"user_name": "jdoe", "email": "jdoe@test.com", "password": "Secur3!pass",
		"fullname": "Jane Doe", "role": "investor",
	})
	req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "success", out["status"])
	data, _ := out["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	require.NotNil(t, user)
	assert.Equal(t, "investor", user["role"])
	assert.Nil(t, user["password_hash"])

	cookies := resp.Header.Values("Set-Cookie")
	assert.NotEmpty(t, cookies)
	assert.Contains(t, cookies[0], "seedlink.sid=")
}

func TestUpdateUser_RoleChangeForbidden(t *testing.T) {
	h, db := setupUserTest(t)
	uid := uuid.New()
	require.NoError(t, db.Create(&domain.User{
		UserID: uid, UserName: "jdoe", Email: "jdoe@test.com",
		PasswordHash: "x", Fullname: "Jane Doe", Role: constants.RoleInvestor,
	}).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": uid.String(), "role": constants.RoleInvestor})
		return c.Next()
	})
	app.Put("/update-user", h.UpdateUser)

	body, _ := json.Marshal(map[string]string{"role": "startup"})
	req := httptest.NewRequest("PUT", "/update-user", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRemoveUser_ForbiddenForNonAdmin(t *testing.T) {
	h, db := setupUserTest(t)
	uid := uuid.New()
	target := uuid.New()
	require.NoError(t, db.Create(&domain.User{
		UserID: target, UserName: "t1", Email: "t@test.com",
		PasswordHash: "x", Fullname: "T", Role: constants.RoleInvestor,
	}).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": uid.String(), "role": constants.RoleStartup})
		return c.Next()
	})
	app.Use(middleware.AuthorizePermission(constants.RemoveUser))
	app.Delete("/remove-user", h.RemoveUser)

	body, _ := json.Marshal(map[string]string{"user_id": target.String()})
	req := httptest.NewRequest("DELETE", "/remove-user", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestViewUser_ReturnsSessionUser(t *testing.T) {
	h, db := setupUserTest(t)
	uid := uuid.New()
	require.NoError(t, db.Create(&domain.User{
		UserID: uid, UserName: "jdoe", Email: "jdoe@test.com",
		PasswordHash: "x", Fullname: "Jane Doe", Role: constants.RoleInvestor,
	}).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": uid.String(), "role": constants.RoleInvestor})
		return c.Next()
	})
	app.Get("/view-user", h.ViewUser)

	req := httptest.NewRequest("GET", "/view-user", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	data, _ := out["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	assert.Equal(t, "jdoe@test.com", user["email"])
}
