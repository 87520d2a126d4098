package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"courtflow_go/db"
	"courtflow_go/middleware"
	"courtflow_go/models"
	"courtflow_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type scheduleHearingRequest struct {
	ScheduledAt string `json:"scheduled_at"` // RFC 3339
	Location    string `json:"location"`
	Purpose     string `json:"purpose"`
	CourtID     string `json:"court_id"`
}

type updateHearingRequest struct {
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
	ScheduledAt *string `json:"scheduled_at"`
}

// GetHearings lists hearings scoped to the caller's role
func GetHearings(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	query := db.DB.Model(&models.Hearing{}).
		Preload("Case").Preload("Court").
		Order("scheduled_at ASC")

	switch {
	case user.IsAdmin():
		// No scoping
	case user.IsJudge():
		query = query.Where("judge_id = ?", user.ID)
	default:
		query = query.Joins("JOIN cases ON cases.id = hearings.case_id").
			Where("cases.client_id = ?", user.ID)
	}

	if c.QueryParam("upcoming") == "true" {
		query = query.Where("scheduled_at > ? AND hearings.status = ?", time.Now(), models.HearingStatusScheduled)
	}

	var hearings []models.Hearing
	if err := query.Find(&hearings).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch hearings")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"hearings": hearings})
}

// ScheduleHearing schedules a hearing on a case. Admins and the assigned
// judge only; closed cases never accept new hearings.
func ScheduleHearing(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var kase models.Case
	err := db.DB.Preload("Client").First(&kase, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}

	if !services.CanPerformCaseAction(user, &kase, services.CaseActionSchedule) {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot schedule hearings on this case")
	}
	if kase.IsClosed() {
		closedErr := &services.CaseClosedError{CaseNumber: kase.CaseNumber}
		return echo.NewHTTPError(http.StatusBadRequest, closedErr.Error())
	}

	var req scheduleHearingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "scheduled_at must be an RFC 3339 timestamp")
	}
	if !scheduledAt.After(time.Now()) {
		return echo.NewHTTPError(http.StatusBadRequest, "Hearings must be scheduled in the future")
	}

	courtID := kase.CourtID
	if req.CourtID != "" {
		var court models.Court
		if err := db.DB.First(&court, "id = ?", req.CourtID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Court not found")
		}
		courtID = &court.ID
	}

	hearing := models.Hearing{
		CaseID:        kase.ID,
		CourtID:       courtID,
		JudgeID:       kase.JudgeID,
		ScheduledAt:   scheduledAt,
		Location:      strings.TrimSpace(req.Location),
		Purpose:       strings.TrimSpace(req.Purpose),
		Status:        models.HearingStatusScheduled,
		ScheduledByID: &user.ID,
	}
	if err := db.DB.Create(&hearing).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to schedule hearing")
	}

	when := scheduledAt.Format("January 2, 2006 at 15:04")
	notificationService := services.NewNotificationService(db.DB)
	notificationService.CreateNotification(&models.Notification{
		UserID:  kase.ClientID,
		CaseID:  &kase.ID,
		Type:    models.NotificationTypeHearing,
		Title:   "Hearing Scheduled",
		Message: fmt.Sprintf("A hearing for your case %s has been scheduled on %s.", kase.CaseNumber, when),
		LinkURL: fmt.Sprintf("/cases/%s", kase.ID),
	})

	cfg := getConfig(c)
	services.SendEmailAsync(cfg, services.BuildHearingScheduledEmail(
		cfg.AppURL, kase.Client.Email, kase.Client.Name, kase.CaseNumber, kase.ID, when, hearing.Location))

	return c.JSON(http.StatusCreated, &hearing)
}

// UpdateHearing updates a hearing's status, notes or schedule. Admins and
// the judge assigned to the underlying case only.
func UpdateHearing(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var hearing models.Hearing
	err := db.DB.Preload("Case").First(&hearing, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Hearing not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch hearing")
	}

	if !services.CanPerformCaseAction(user, &hearing.Case, services.CaseActionSchedule) {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot update this hearing")
	}

	var req updateHearingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !models.IsValidHearingStatus(status) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid hearing status")
		}
		updates["status"] = status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.ScheduledAt != nil {
		scheduledAt, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "scheduled_at must be an RFC 3339 timestamp")
		}
		if !scheduledAt.After(time.Now()) {
			return echo.NewHTTPError(http.StatusBadRequest, "Hearings must be scheduled in the future")
		}
		updates["scheduled_at"] = scheduledAt
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&hearing).Updates(updates).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update hearing")
		}
	}

	return c.JSON(http.StatusOK, &hearing)
}
