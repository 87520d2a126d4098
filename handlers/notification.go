package handlers

import (
	"net/http"
	"strconv"

	"courtflow_go/db"
	"courtflow_go/middleware"
	"courtflow_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GetNotifications returns the caller's notifications, unread first
func GetNotifications(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	notificationService := services.NewNotificationService(db.DB)
	notifications, err := notificationService.GetNotifications(user.ID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}

	unreadCount, err := notificationService.GetUnreadCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count unread notifications")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unreadCount,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read
func MarkNotificationRead(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	notificationService := services.NewNotificationService(db.DB)
	err := notificationService.MarkAsRead(c.Param("id"), user.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification as read")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every unread notification for the caller
func MarkAllNotificationsRead(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	notificationService := services.NewNotificationService(db.DB)
	if err := notificationService.MarkAllAsRead(user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications as read")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}
