package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"courtflow_go/db"
	"courtflow_go/models"
	"courtflow_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	setupTestDB(t)

	t.Run("Success", func(t *testing.T) {
		_, c, rec := setupEchoJSON(t, http.MethodPost, "/api/auth/register", map[string]string{
			"name":     "New Client",
			"email":    "New.Client@Test.com",
			"password": "supersecret1",
		})

		err := Register(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NotEmpty(t, resp["token"])

		user := resp["user"].(map[string]interface{})
		assert.Equal(t, models.RoleClient, user["role"])
		assert.Equal(t, "new.client@test.com", user["email"])
		// Password hash never serialized
		_, exposed := user["password"]
		assert.False(t, exposed)
	})

	t.Run("Duplicate email rejected", func(t *testing.T) {
		_, c, _ := setupEchoJSON(t, http.MethodPost, "/api/auth/register", map[string]string{
			"name":     "Again",
			"email":    "new.client@test.com",
			"password": "supersecret1",
		})

		err := Register(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
	})

	t.Run("Short password rejected", func(t *testing.T) {
		_, c, _ := setupEchoJSON(t, http.MethodPost, "/api/auth/register", map[string]string{
			"name":     "Short",
			"email":    "short@test.com",
			"password": "short",
		})

		err := Register(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestLogin(t *testing.T) {
	database := setupTestDB(t)

	hash, err := services.HashPassword("correct-horse-1")
	assert.NoError(t, err)

	database.Create(&models.User{
		ID: "user-l1", Name: "Login User", Email: "login@test.com",
		Password: hash, Role: models.RoleClient, IsActive: true,
	})
	database.Create(&models.User{
		ID: "user-l2", Name: "Disabled User", Email: "disabled@test.com",
		Password: hash, Role: models.RoleClient, IsActive: false,
	})

	t.Run("Success", func(t *testing.T) {
		_, c, rec := setupEchoJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "login@test.com",
			"password": "correct-horse-1",
		})

		err := Login(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NotEmpty(t, resp["token"])

		// Session persisted and resolvable
		session, err := services.ValidateSession(db.DB, resp["token"].(string))
		assert.NoError(t, err)
		assert.Equal(t, "user-l1", session.UserID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, c, _ := setupEchoJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "login@test.com",
			"password": "wrong-password",
		})

		err := Login(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("Unknown email gets the same error", func(t *testing.T) {
		_, c, _ := setupEchoJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "nobody@test.com",
			"password": "correct-horse-1",
		})

		err := Login(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		assert.Equal(t, "Invalid email or password", httpErr.Message)
	})

	t.Run("Deactivated account rejected", func(t *testing.T) {
		_, c, _ := setupEchoJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "disabled@test.com",
			"password": "correct-horse-1",
		})

		err := Login(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestResetPasswordFlow(t *testing.T) {
	database := setupTestDB(t)

	hash, err := services.HashPassword("old-password-1")
	assert.NoError(t, err)

	user := &models.User{
		ID: "user-rp1", Name: "Reset User", Email: "reset@test.com",
		Password: hash, Role: models.RoleClient, IsActive: true,
	}
	database.Create(user)

	// An active session that must be revoked by the reset
	session, err := services.CreateSession(database, user.ID, "127.0.0.1", "test")
	assert.NoError(t, err)

	resetToken, err := services.CreatePasswordResetToken(database, user.ID)
	assert.NoError(t, err)

	t.Run("Valid token resets password and revokes sessions", func(t *testing.T) {
		_, c, rec := setupEchoJSON(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
			"token":    resetToken.Token,
			"password": "new-password-1",
		})

		err := ResetPassword(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.User
		database.First(&updated, "id = ?", user.ID)
		assert.True(t, services.CheckPassword("new-password-1", updated.Password))

		_, err = services.ValidateSession(database, session.Token)
		assert.Error(t, err)
	})

	t.Run("Token is single-use", func(t *testing.T) {
		_, c, _ := setupEchoJSON(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
			"token":    resetToken.Token,
			"password": "another-password-1",
		})

		err := ResetPassword(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestForgotPassword(t *testing.T) {
	database := setupTestDB(t)

	hash, _ := services.HashPassword("whatever-123")
	database.Create(&models.User{
		ID: "user-fp1", Name: "Forgot User", Email: "forgot@test.com",
		Password: hash, Role: models.RoleClient, IsActive: true,
	})

	t.Run("Known email creates a token", func(t *testing.T) {
		_, c, rec := setupEchoJSON(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{
			"email": "forgot@test.com",
		})

		err := ForgotPassword(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var count int64
		database.Model(&models.PasswordResetToken{}).Where("user_id = ?", "user-fp1").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Unknown email gets the same response", func(t *testing.T) {
		_, c, rec := setupEchoJSON(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{
			"email": "stranger@test.com",
		})

		err := ForgotPassword(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
