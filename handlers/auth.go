package handlers

import (
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

const minPasswordLength = 8

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Register handles client self-registration. Judges and admins are only
// created through the admin user endpoints.
func Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and email are required")
	}
	if !strings.Contains(req.Email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}

	// Check for existing account
	var count int64
	if err := db.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check existing accounts")
	}
	if count > 0 {
		return echo.NewHTTPError(http.StatusConflict, "An account with this email already exists")
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     models.RoleClient,
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
		IsActive: true,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	return c.JSON(http.StatusCreated, sessionResponse{
		User:      &user,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Login authenticates a user and returns a Bearer session token
func Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	var user models.User
	err := db.DB.Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	if !services.CheckPassword(req.Password, user.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account is deactivated")
	}

	now := time.Now()
	db.DB.Model(&user).Update("last_login_at", now)
	user.LastLoginAt = &now

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	return c.JSON(http.StatusOK, sessionResponse{
		User:      &user,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout deletes the current session
func Logout(c echo.Context) error {
	session := middleware.GetCurrentSession(c)
	if session != nil {
		if err := services.DeleteSession(db.DB, session.Token); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to log out")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the authenticated user
func Me(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return c.JSON(http.StatusOK, user)
}

// ForgotPassword issues a password reset token. The response is identical
// whether or not the email exists, to avoid leaking account presence.
func ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	genericResponse := map[string]string{
		"message": "If an account with that email exists, a password reset link has been sent.",
	}

	var user models.User
	if err := db.DB.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
		return c.JSON(http.StatusOK, genericResponse)
	}

	resetToken, err := services.CreatePasswordResetToken(db.DB, user.ID)
	if err != nil {
		return c.JSON(http.StatusOK, genericResponse)
	}

	cfg := getConfig(c)
	services.SendEmailAsync(cfg, services.BuildPasswordResetEmail(cfg.AppURL, user.Email, user.Name, resetToken.Token))

	return c.JSON(http.StatusOK, genericResponse)
}

// ResetPassword sets a new password from a valid reset token and invalidates
// all of the user's existing sessions.
func ResetPassword(c echo.Context) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Reset token is required")
	}
	if len(req.Password) < minPasswordLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}

	resetToken, err := services.ValidatePasswordResetToken(db.DB, req.Token)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired reset token")
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reset password")
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", resetToken.UserID).
		Update("password", hash).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reset password")
	}

	db.DB.Delete(resetToken)
	services.DeleteAllUserSessions(db.DB, resetToken.UserID)

	return c.JSON(http.StatusOK, map[string]string{"message": "Password has been reset. Please log in again."})
}
