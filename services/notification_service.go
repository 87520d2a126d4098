package services

import (
	"fmt"
	"log"
	"time"

	"courtflow_go/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (s *NotificationService) GetNotifications(userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var notifications []models.Notification
	err := s.DB.Where("user_id = ?", userID).
		Order("read_at IS NULL DESC, created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) GetUnreadNotifications(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("user_id = ? AND read_at IS NULL", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(notificationID, userID string) error {
	now := time.Now()
	// Ensure the notification belongs to the user
	result := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(userID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", now).Error
}

func (s *NotificationService) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) CreateNotification(notification *models.Notification) error {
	return s.DB.Create(notification).Error
}

// notifyCaseEvent creates a case notification as a best-effort side channel.
// Failures are logged and never propagate to the caller; a lost notification
// must not fail or roll back the case transition that triggered it.
func notifyCaseEvent(dbConn *gorm.DB, userID, caseID, notificationType, title, message string) {
	notification := &models.Notification{
		UserID:  userID,
		CaseID:  &caseID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		LinkURL: fmt.Sprintf("/cases/%s", caseID),
	}
	if err := dbConn.Create(notification).Error; err != nil {
		log.Printf("[WARNING] Failed to create %s notification for user %s: %v", notificationType, userID, err)
	}
}
