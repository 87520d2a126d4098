package handlers

import (
	"net/http"
	"strings"

	"courtflow_go/db"
	"courtflow_go/middleware"
	"courtflow_go/models"
	"courtflow_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type createUserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	CourtID  *string `json:"court_id"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	CourtID  *string `json:"court_id"`
	IsActive *bool   `json:"is_active"`
}

// GetUsers lists users for the admin console, optionally filtered by role
func GetUsers(c echo.Context) error {
	query := db.DB.Model(&models.User{}).Preload("Court").Order("created_at DESC")

	if role := c.QueryParam("role"); role != "" {
		if !models.IsValidUserRole(role) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid role filter")
		}
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch users")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

// GetJudges lists active judges for the assignment dropdown
func GetJudges(c echo.Context) error {
	var judges []models.User
	err := db.DB.Preload("Court").
		Where("role = ? AND is_active = ?", models.RoleJudge, true).
		Order("name ASC").
		Find(&judges).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch judges")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"judges": judges})
}

// CreateUser creates a user with any role (admin only, enforced by route middleware)
func CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and email are required")
	}
	if !models.IsValidUserRole(req.Role) {
		return echo.NewHTTPError(http.StatusBadRequest, "Role must be admin, judge or client")
	}
	if len(req.Password) < minPasswordLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}

	var count int64
	if err := db.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check existing accounts")
	}
	if count > 0 {
		return echo.NewHTTPError(http.StatusConflict, "An account with this email already exists")
	}

	// Only judges are attached to a court
	if req.CourtID != nil && req.Role != models.RoleJudge {
		return echo.NewHTTPError(http.StatusBadRequest, "Only judges can be attached to a court")
	}
	if req.CourtID != nil {
		var court models.Court
		if err := db.DB.First(&court, "id = ?", *req.CourtID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Court not found")
		}
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     req.Role,
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
		IsActive: true,
		CourtID:  req.CourtID,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	return c.JSON(http.StatusCreated, &user)
}

// UpdateUser updates mutable user fields (admin only)
func UpdateUser(c echo.Context) error {
	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.CourtID != nil {
		if !user.IsJudge() {
			return echo.NewHTTPError(http.StatusBadRequest, "Only judges can be attached to a court")
		}
		var court models.Court
		if err := db.DB.First(&court, "id = ?", *req.CourtID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Court not found")
		}
		updates["court_id"] = *req.CourtID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
		}
	}

	return c.JSON(http.StatusOK, &user)
}

// DeactivateUser disables an account and revokes its sessions (admin only).
// Accounts are never hard-deleted; cases keep their client reference.
func DeactivateUser(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}

	if actor != nil && actor.ID == user.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot deactivate your own account")
	}

	if err := db.DB.Model(&user).Update("is_active", false).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to deactivate user")
	}
	services.DeleteAllUserSessions(db.DB, user.ID)

	return c.JSON(http.StatusOK, map[string]string{"message": "User deactivated"})
}
