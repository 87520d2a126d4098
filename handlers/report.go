package handlers

import (
	"fmt"
	"net/http"
	"time"

	"courtflow_go/db"
	"courtflow_go/middleware"
	"courtflow_go/models"
	"courtflow_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GetReportsSummary returns the caseload analytics dashboard (admin only,
// enforced by route middleware)
func GetReportsSummary(c echo.Context) error {
	reportService := services.NewReportService(db.DB)
	summary, err := reportService.GetCaseloadSummary()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// ExportCasesReport streams an XLSX workbook of cases (admin only)
func ExportCasesReport(c echo.Context) error {
	reportService := services.NewReportService(db.DB)
	buf, err := reportService.ExportCasesXLSX(
		c.QueryParam("status"),
		c.QueryParam("start_date"),
		c.QueryParam("end_date"),
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export cases")
	}

	filename := fmt.Sprintf("cases_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// DownloadCaseSummaryPDF renders a printable case summary. Admins and the
// case's participants only.
func DownloadCaseSummaryPDF(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var kase models.Case
	err := db.DB.Preload("Client").Preload("Judge").Preload("Court").
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

	var hearings []models.Hearing
	if err := db.DB.Where("case_id = ?", kase.ID).Order("scheduled_at ASC").Find(&hearings).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch hearings")
	}

	html := services.BuildCaseSummaryHTML(&kase, hearings)
	pdf, err := services.GeneratePDF(getConfig(c), html, services.DefaultPDFOptions())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate PDF")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s_summary.pdf"`, kase.CaseNumber))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
