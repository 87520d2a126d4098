package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"courtflow_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetNotifications(t *testing.T) {
	database := setupTestDB(t)

	user := &models.User{ID: "user-n1", Name: "User", Email: "user-n1@test.com", Role: models.RoleClient, IsActive: true}
	database.Create(user)

	readAt := time.Now().Add(-time.Hour)
	database.Create(&models.Notification{
		ID: "notif-n1", UserID: user.ID, Type: models.NotificationTypeSystem,
		Title: "Old read one", Message: "Read already", ReadAt: &readAt,
	})
	database.Create(&models.Notification{
		ID: "notif-n2", UserID: user.ID, Type: models.NotificationTypeCaseFiled,
		Title: "Unread one", Message: "Still unread",
	})

	t.Run("Unread sorted first with count", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/notifications", nil)
		c.Set("user", user)

		err := GetNotifications(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(1), resp["unread_count"])

		notifications := resp["notifications"].([]interface{})
		assert.Len(t, notifications, 2)
		first := notifications[0].(map[string]interface{})
		assert.Equal(t, "Unread one", first["title"])
	})
}

func TestMarkNotificationRead(t *testing.T) {
	database := setupTestDB(t)

	user := &models.User{ID: "user-n2", Name: "User", Email: "user-n2@test.com", Role: models.RoleClient, IsActive: true}
	other := &models.User{ID: "user-n3", Name: "Other", Email: "user-n3@test.com", Role: models.RoleClient, IsActive: true}
	database.Create(user)
	database.Create(other)

	database.Create(&models.Notification{
		ID: "notif-n3", UserID: user.ID, Type: models.NotificationTypeCaseStatus,
		Title: "Mine", Message: "Mark me",
	})

	t.Run("Owner marks read", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPut, "/api/notifications/notif-n3/read", nil)
		c.SetParamNames("id")
		c.SetParamValues("notif-n3")
		c.Set("user", user)

		err := MarkNotificationRead(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var notification models.Notification
		database.First(&notification, "id = ?", "notif-n3")
		assert.True(t, notification.IsRead())
	})

	t.Run("Other user's notification is invisible", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodPut, "/api/notifications/notif-n3/read", nil)
		c.SetParamNames("id")
		c.SetParamValues("notif-n3")
		c.Set("user", other)

		err := MarkNotificationRead(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestMarkAllNotificationsRead(t *testing.T) {
	database := setupTestDB(t)

	user := &models.User{ID: "user-n4", Name: "User", Email: "user-n4@test.com", Role: models.RoleClient, IsActive: true}
	database.Create(user)

	database.Create(&models.Notification{ID: "notif-n4", UserID: user.ID, Type: models.NotificationTypeSystem, Title: "One", Message: "m"})
	database.Create(&models.Notification{ID: "notif-n5", UserID: user.ID, Type: models.NotificationTypeSystem, Title: "Two", Message: "m"})

	_, c, rec := setupEcho(http.MethodPut, "/api/notifications/read-all", nil)
	c.Set("user", user)

	err := MarkAllNotificationsRead(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var unread int64
	database.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", user.ID).
		Count(&unread)
	assert.Equal(t, int64(0), unread)
}
