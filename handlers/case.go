package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"courtflow_go/db"
	"courtflow_go/middleware"
	"courtflow_go/models"
	"courtflow_go/services"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Sanitization policies for client-supplied case text. Titles allow no
// markup at all; descriptions keep the UGC-safe subset.
var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

type fileCaseRequest struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	CaseType         string       `json:"case_type"`
	Defendant        models.Party `json:"defendant"`
	Plaintiff        models.Party `json:"plaintiff"`
	CourtID          string       `json:"court_id"`
	ConfirmDuplicate bool         `json:"confirm_duplicate"`
}

type checkDuplicatesRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DefendantName string `json:"defendant_name"`
	CaseType      string `json:"case_type"`
	CourtID       string `json:"court_id"`
}

// GetCases lists cases scoped to the caller's role: admins see everything,
// judges their assigned cases, clients their own filings. Supports status,
// type, judge and keyword filters plus pagination.
func GetCases(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	query := db.DB.Model(&models.Case{}).
		Preload("Client").Preload("Judge").Preload("Court")

	switch {
	case user.IsAdmin():
		// No scoping
	case user.IsJudge():
		query = query.Where("judge_id = ?", user.ID)
	default:
		query = query.Where("client_id = ?", user.ID)
	}

	if status := c.QueryParam("status"); status != "" {
		canonical, ok := models.ParseCaseStatus(status)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status filter")
		}
		query = query.Where("status = ?", canonical)
	}
	if caseType := c.QueryParam("case_type"); caseType != "" {
		query = query.Where("case_type = ?", caseType)
	}
	if judgeID := c.QueryParam("judge_id"); judgeID != "" && user.IsAdmin() {
		query = query.Where("judge_id = ?", judgeID)
	}
	if keyword := strings.TrimSpace(c.QueryParam("q")); keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR case_number LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count cases")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var cases []models.Case
	err := query.Order("filed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cases).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch cases")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cases": cases,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetCase returns a single case with its hearings and documents
func GetCase(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var kase models.Case
	err := db.DB.Preload("Client").Preload("Judge").Preload("Court").
		Preload("Hearings").Preload("Documents").
		First(&kase, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}

	if !services.CanPerformCaseAction(user, &kase, services.CaseActionView) {
		return echo.NewHTTPError(http.StatusForbidden, "You do not have access to this case")
	}

	return c.JSON(http.StatusOK, &kase)
}

// CheckDuplicates runs the duplicate heuristic against the caller's open
// cases without filing anything. Clients only.
func CheckDuplicates(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !user.IsClient() {
		return echo.NewHTTPError(http.StatusForbidden, "Only clients can check for duplicate cases")
	}

	var req checkDuplicatesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title and description are required")
	}

	matches := services.CheckDuplicatesSafe(db.DB, user.ID, services.CaseCandidate{
		Title:         title,
		Description:   description,
		DefendantName: strings.TrimSpace(req.DefendantName),
		CaseType:      strings.TrimSpace(req.CaseType),
		CourtID:       strings.TrimSpace(req.CourtID),
	})
	if matches == nil {
		matches = []services.DuplicateMatch{}
	}

	message := "No similar cases found."
	if len(matches) > 0 {
		message = fmt.Sprintf("Found %d existing case(s) that look similar. Please review them before filing.", len(matches))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"has_duplicates": len(matches) > 0,
		"duplicates":     matches,
		"message":        message,
	})
}

// FileCase files a new case for the authenticated client. Unless the client
// confirms, a filing that looks like a duplicate of an existing open case is
// rejected with 409 and the matches.
func FileCase(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !services.CanPerformCaseAction(user, nil, services.CaseActionFile) {
		return echo.NewHTTPError(http.StatusForbidden, "Only clients can file cases")
	}

	var req fileCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	title := strings.TrimSpace(strictPolicy.Sanitize(req.Title))
	description := strings.TrimSpace(ugcPolicy.Sanitize(req.Description))
	caseType := strings.TrimSpace(req.CaseType)
	defendantName := strings.TrimSpace(strictPolicy.Sanitize(req.Defendant.Name))

	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title is required")
	}
	if description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Description is required")
	}
	if caseType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Case type is required")
	}
	if defendantName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Defendant name is required")
	}

	var courtID *string
	if req.CourtID != "" {
		var court models.Court
		if err := db.DB.First(&court, "id = ?", req.CourtID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Court not found")
		}
		courtID = &court.ID
	}

	if !req.ConfirmDuplicate {
		matches := services.CheckDuplicatesSafe(db.DB, user.ID, services.CaseCandidate{
			Title:         title,
			Description:   description,
			DefendantName: defendantName,
			CaseType:      caseType,
			CourtID:       req.CourtID,
		})
		if len(matches) > 0 {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"error":      "This filing looks like a duplicate of an existing case. Set confirm_duplicate to file anyway.",
				"duplicates": matches,
			})
		}
	}

	caseNumber, err := services.EnsureUniqueCaseNumber(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate case number")
	}

	kase := models.Case{
		CaseNumber:  caseNumber,
		Title:       title,
		Description: description,
		CaseType:    caseType,
		Defendant: models.Party{
			Name:    defendantName,
			Phone:   strings.TrimSpace(req.Defendant.Phone),
			Email:   strings.TrimSpace(req.Defendant.Email),
			Address: strings.TrimSpace(req.Defendant.Address),
		},
		Plaintiff: models.Party{
			Name:    strings.TrimSpace(strictPolicy.Sanitize(req.Plaintiff.Name)),
			Phone:   strings.TrimSpace(req.Plaintiff.Phone),
			Email:   strings.TrimSpace(req.Plaintiff.Email),
			Address: strings.TrimSpace(req.Plaintiff.Address),
		},
		ClientID: user.ID,
		CourtID:  courtID,
		Status:   models.CaseStatusOpen,
	}
	if err := db.DB.Create(&kase).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to file case")
	}

	notificationService := services.NewNotificationService(db.DB)
	notificationService.CreateNotification(&models.Notification{
		UserID:  user.ID,
		CaseID:  &kase.ID,
		Type:    models.NotificationTypeCaseFiled,
		Title:   "Case Filed Successfully",
		Message: fmt.Sprintf("Your case %s has been filed and is awaiting judge assignment.", kase.CaseNumber),
		LinkURL: fmt.Sprintf("/cases/%s", kase.ID),
	})

	kase.Client = *user
	return c.JSON(http.StatusCreated, &kase)
}

// AssignJudge assigns a judge to a case (admin only) and moves it to
// In Progress. Closed cases are rejected.
func AssignJudge(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !services.CanPerformCaseAction(user, nil, services.CaseActionAssign) {
		return echo.NewHTTPError(http.StatusForbidden, "Only administrators can assign judges")
	}

	var kase models.Case
	err := db.DB.Preload("Client").First(&kase, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}

	var req struct {
		JudgeID string `json:"judge_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.JudgeID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "judge_id is required")
	}

	var judge models.User
	if err := db.DB.First(&judge, "id = ?", req.JudgeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Judge not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch judge")
	}
	if !judge.IsJudge() {
		return echo.NewHTTPError(http.StatusBadRequest, "The selected user is not a judge")
	}
	if !judge.IsActive {
		return echo.NewHTTPError(http.StatusBadRequest, "The selected judge is deactivated")
	}

	if err := services.AssignJudge(db.DB, &kase, &judge, user); err != nil {
		var closedErr *services.CaseClosedError
		if errors.As(err, &closedErr) {
			return echo.NewHTTPError(http.StatusBadRequest, closedErr.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to assign judge")
	}

	cfg := getConfig(c)
	services.SendEmailAsync(cfg, services.BuildCaseAssignedEmail(
		cfg.AppURL, kase.Client.Email, kase.Client.Name, judge.Name, kase.CaseNumber, kase.ID))

	return c.JSON(http.StatusOK, &kase)
}

// UpdateCaseStatus transitions a case to a new lifecycle status. Admins can
// update any case; judges only cases assigned to them.
func UpdateCaseStatus(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	target, ok := models.ParseCaseStatus(req.Status)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid status. Valid values are Open, In Progress and Closed.")
	}

	var kase models.Case
	err := db.DB.Preload("Client").First(&kase, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}

	if !services.CanPerformCaseAction(user, &kase, services.CaseActionUpdateStatus) {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot update the status of this case")
	}

	if err := services.TransitionCaseStatus(db.DB, &kase, target, user); err != nil {
		var closedErr *services.CaseClosedError
		var transitionErr *services.InvalidTransitionError
		switch {
		case errors.As(err, &closedErr):
			return echo.NewHTTPError(http.StatusBadRequest, closedErr.Error())
		case errors.As(err, &transitionErr):
			return echo.NewHTTPError(http.StatusBadRequest, transitionErr.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update case status")
		}
	}

	if target == models.CaseStatusClosed {
		cfg := getConfig(c)
		services.SendEmailAsync(cfg, services.BuildCaseClosedEmail(
			cfg.AppURL, kase.Client.Email, kase.Client.Name, kase.CaseNumber, kase.ID))
	}

	return c.JSON(http.StatusOK, &kase)
}

// DeleteCase soft-deletes a case (admin only)
func DeleteCase(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !services.CanPerformCaseAction(user, nil, services.CaseActionDelete) {
		return echo.NewHTTPError(http.StatusForbidden, "Only administrators can delete cases")
	}

	var kase models.Case
	err := db.DB.First(&kase, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}

	if err := db.DB.Delete(&kase).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete case")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Case deleted"})
}
