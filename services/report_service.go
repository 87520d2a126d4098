package services

import (
	"bytes"
	"fmt"
	"time"

	"courtflow_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CaseloadSummary aggregates the analytics shown on the admin dashboard
type CaseloadSummary struct {
	TotalCases       int64            `json:"total_cases"`
	CasesByStatus    map[string]int64 `json:"cases_by_status"`
	CasesByType      map[string]int64 `json:"cases_by_type"`
	MonthlyFilings   []MonthlyCount   `json:"monthly_filings"`
	JudgeWorkload    []JudgeWorkload  `json:"judge_workload"`
	TotalHearings    int64            `json:"total_hearings"`
	UpcomingHearings int64            `json:"upcoming_hearings"`
}

// MonthlyCount is the number of cases filed in one calendar month
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// JudgeWorkload is the number of active (non-closed) cases per judge
type JudgeWorkload struct {
	JudgeID   string `json:"judge_id"`
	JudgeName string `json:"judge_name"`
	Cases     int64  `json:"cases"`
}

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// GetCaseloadSummary computes the dashboard analytics
func (s *ReportService) GetCaseloadSummary() (*CaseloadSummary, error) {
	summary := &CaseloadSummary{
		CasesByStatus: make(map[string]int64),
		CasesByType:   make(map[string]int64),
	}

	if err := s.DB.Model(&models.Case{}).Count(&summary.TotalCases).Error; err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var byStatus []statusCount
	if err := s.DB.Model(&models.Case{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to group cases by status: %w", err)
	}
	for _, row := range byStatus {
		summary.CasesByStatus[row.Status] = row.Count
	}

	type typeCount struct {
		CaseType string
		Count    int64
	}
	var byType []typeCount
	if err := s.DB.Model(&models.Case{}).
		Select("case_type, COUNT(*) as count").
		Group("case_type").
		Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("failed to group cases by type: %w", err)
	}
	for _, row := range byType {
		summary.CasesByType[row.CaseType] = row.Count
	}

	// Filings per month over the last 12 months
	type monthRow struct {
		Month string
		Count int64
	}
	var months []monthRow
	since := time.Now().AddDate(-1, 0, 0)
	if err := s.DB.Model(&models.Case{}).
		Select("strftime('%Y-%m', filed_at) as month, COUNT(*) as count").
		Where("filed_at >= ?", since).
		Group("month").
		Order("month ASC").
		Scan(&months).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly filings: %w", err)
	}
	for _, row := range months {
		summary.MonthlyFilings = append(summary.MonthlyFilings, MonthlyCount{Month: row.Month, Count: row.Count})
	}

	// Active cases per judge
	var workload []JudgeWorkload
	if err := s.DB.Model(&models.Case{}).
		Select("cases.judge_id as judge_id, users.name as judge_name, COUNT(*) as cases").
		Joins("JOIN users ON users.id = cases.judge_id").
		Where("cases.judge_id IS NOT NULL AND cases.status <> ?", models.CaseStatusClosed).
		Group("cases.judge_id, users.name").
		Order("cases DESC").
		Scan(&workload).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate judge workload: %w", err)
	}
	summary.JudgeWorkload = workload

	if err := s.DB.Model(&models.Hearing{}).Count(&summary.TotalHearings).Error; err != nil {
		return nil, fmt.Errorf("failed to count hearings: %w", err)
	}
	if err := s.DB.Model(&models.Hearing{}).
		Where("scheduled_at > ? AND status = ?", time.Now(), models.HearingStatusScheduled).
		Count(&summary.UpcomingHearings).Error; err != nil {
		return nil, fmt.Errorf("failed to count upcoming hearings: %w", err)
	}

	return summary, nil
}

// ExportCasesXLSX builds an Excel workbook with one row per case, optionally
// filtered by status and filing date range (YYYY-MM-DD strings, empty = no filter)
func (s *ReportService) ExportCasesXLSX(status, startDate, endDate string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Cases"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Case Number", "Title", "Status", "Case Type", "Client", "Judge", "Court", "Defendant", "Filed At", "Closed At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	query := s.DB.Model(&models.Case{}).
		Preload("Client").Preload("Judge").Preload("Court").
		Order("filed_at DESC")
	if status != "" {
		if canonical, ok := models.ParseCaseStatus(status); ok {
			query = query.Where("status = ?", canonical)
		}
	}
	if startDate != "" {
		query = query.Where("filed_at >= ?", startDate)
	}
	if endDate != "" {
		// Add time to make it inclusive of the end date
		query = query.Where("filed_at <= ?", endDate+" 23:59:59")
	}

	var cases []models.Case
	row := 2
	batchSize := 100
	result := query.FindInBatches(&cases, batchSize, func(tx *gorm.DB, batch int) error {
		for _, kase := range cases {
			judgeName := ""
			if kase.Judge != nil {
				judgeName = kase.Judge.Name
			}
			courtName := ""
			if kase.Court != nil {
				courtName = kase.Court.Name
			}
			closedAt := ""
			if kase.ClosedAt != nil {
				closedAt = kase.ClosedAt.Format("2006-01-02")
			}

			values := []interface{}{
				kase.CaseNumber,
				kase.Title,
				kase.DisplayStatus(),
				kase.CaseType,
				kase.Client.Name,
				judgeName,
				courtName,
				kase.Defendant.Name,
				kase.FiledAt.Format("2006-01-02"),
				closedAt,
			}
			for i, value := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, value)
			}
			row++
		}
		return nil
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to export cases: %w", result.Error)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
