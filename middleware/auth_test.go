package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtflow_go/db"
	"courtflow_go/models"
	"courtflow_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(&models.User{}, &models.Session{})
	assert.NoError(t, err)

	db.DB = testDB
	return testDB
}

func runWithAuth(token string) (int, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireAuth()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return httpErr.Code, err
	}
	return rec.Code, err
}

func TestRequireAuth(t *testing.T) {
	database := setupAuthTestDB(t)

	user := &models.User{ID: "user-m1", Name: "User", Email: "user-m1@test.com", Password: "x", Role: models.RoleClient, IsActive: true}
	database.Create(user)

	session, err := services.CreateSession(database, user.ID, "127.0.0.1", "test")
	assert.NoError(t, err)

	t.Run("Valid token passes and sets user", func(t *testing.T) {
		code, err := runWithAuth(session.Token)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("Missing header rejected", func(t *testing.T) {
		code, err := runWithAuth("")
		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("Unknown token rejected", func(t *testing.T) {
		code, err := runWithAuth("deadbeef")
		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("Expired session rejected and removed", func(t *testing.T) {
		expired := &models.Session{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Token:     "expired-token-m1",
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		database.Create(expired)

		code, err := runWithAuth(expired.Token)
		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, code)

		var count int64
		database.Model(&models.Session{}).Where("token = ?", expired.Token).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Deactivated user rejected", func(t *testing.T) {
		disabled := &models.User{ID: "user-m2", Name: "Disabled", Email: "user-m2@test.com", Password: "x", Role: models.RoleClient, IsActive: false}
		database.Create(disabled)

		disabledSession, err := services.CreateSession(database, disabled.ID, "127.0.0.1", "test")
		assert.NoError(t, err)

		code, err := runWithAuth(disabledSession.Token)
		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	run := func(user *models.User) error {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if user != nil {
			c.Set(ContextKeyUser, user)
		}
		return handler(c)
	}

	t.Run("Matching role passes", func(t *testing.T) {
		err := run(&models.User{ID: "a", Role: models.RoleAdmin})
		assert.NoError(t, err)
	})

	t.Run("Other role rejected", func(t *testing.T) {
		err := run(&models.User{ID: "c", Role: models.RoleClient})
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})

	t.Run("No user rejected", func(t *testing.T) {
		err := run(nil)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
