package handlers

import (
	"net/http"
	"strings"

	"courtflow_go/db"
	"courtflow_go/models"

	"github.com/labstack/echo/v4"
)

// GetCourts lists all courts. Available to every authenticated role since
// clients pick a court when filing.
func GetCourts(c echo.Context) error {
	var courts []models.Court
	if err := db.DB.Order("name ASC").Find(&courts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch courts")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"courts": courts})
}

// CreateCourt registers a new court (admin only, enforced by route middleware)
func CreateCourt(c echo.Context) error {
	var req struct {
		Name      string `json:"name"`
		Location  string `json:"location"`
		CourtType string `json:"court_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Court name is required")
	}

	courtType := strings.ToUpper(strings.TrimSpace(req.CourtType))
	if courtType == "" {
		courtType = models.CourtTypeDistrict
	}
	switch courtType {
	case models.CourtTypeDistrict, models.CourtTypeHigh, models.CourtTypeSupreme,
		models.CourtTypeFamily, models.CourtTypeCivil, models.CourtTypeCriminal:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid court type")
	}

	var count int64
	if err := db.DB.Model(&models.Court{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check existing courts")
	}
	if count > 0 {
		return echo.NewHTTPError(http.StatusConflict, "A court with this name already exists")
	}

	court := models.Court{
		Name:      req.Name,
		Location:  strings.TrimSpace(req.Location),
		CourtType: courtType,
	}
	if err := db.DB.Create(&court).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create court")
	}

	return c.JSON(http.StatusCreated, &court)
}
