package services

import (
	"fmt"
	"time"

	"courtflow_go/models"

	"gorm.io/gorm"
)

// CaseAction enumerates the operations the authorization policy covers.
// Keeping the checks in one place stops the assign and status-update guards
// from drifting apart.
type CaseAction string

const (
	CaseActionView         CaseAction = "view"
	CaseActionFile         CaseAction = "file"
	CaseActionAssign       CaseAction = "assign"
	CaseActionUpdateStatus CaseAction = "update_status"
	CaseActionDelete       CaseAction = "delete"
	CaseActionSchedule     CaseAction = "schedule_hearing"
	CaseActionUpload       CaseAction = "upload_document"
)

// CaseClosedError is returned when a mutation is attempted on a closed case.
// Closed is terminal for every role, including admins.
type CaseClosedError struct {
	CaseNumber string
}

func (e *CaseClosedError) Error() string {
	return fmt.Sprintf("case %s is closed; closed cases are final and cannot be modified", e.CaseNumber)
}

// InvalidTransitionError is returned when a status update would move a case
// backwards in its lifecycle.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move case from %s back to %s; transitions are forward-only", e.From, e.To)
}

// statusRank orders the lifecycle states for the forward-only invariant
func statusRank(status string) int {
	switch status {
	case models.CaseStatusOpen:
		return 0
	case models.CaseStatusInProgress:
		return 1
	case models.CaseStatusClosed:
		return 2
	}
	return -1
}

// CanPerformCaseAction is the single authorization policy for case operations,
// keyed by role, action and the caller's relationship to the case.
func CanPerformCaseAction(user *models.User, kase *models.Case, action CaseAction) bool {
	if user == nil {
		return false
	}

	switch action {
	case CaseActionFile:
		return user.IsClient()
	case CaseActionAssign, CaseActionDelete:
		return user.IsAdmin()
	case CaseActionUpdateStatus, CaseActionSchedule:
		if user.IsAdmin() {
			return true
		}
		return user.IsJudge() && kase != nil && kase.IsAssignedTo(user.ID)
	case CaseActionView, CaseActionUpload:
		if user.IsAdmin() {
			return true
		}
		if kase == nil {
			return false
		}
		if user.IsJudge() {
			return kase.IsAssignedTo(user.ID)
		}
		return kase.ClientID == user.ID
	}
	return false
}

// GenerateCaseNumber generates the next case number
// Format: CASE-{YEAR}-{SEQUENCE}
// Example: CASE-2026-00042
func GenerateCaseNumber(dbConn *gorm.DB) (string, error) {
	currentYear := time.Now().Year()

	// Find the highest sequence number for this year
	var maxCase models.Case
	err := dbConn.Where("case_number LIKE ?", fmt.Sprintf("CASE-%d-%%", currentYear)).
		Order("case_number DESC").
		First(&maxCase).Error

	sequence := 1
	if err == nil {
		// Parse sequence from existing case number
		var parsedSeq int
		_, scanErr := fmt.Sscanf(maxCase.CaseNumber, fmt.Sprintf("CASE-%d-%%d", currentYear), &parsedSeq)
		if scanErr == nil {
			sequence = parsedSeq + 1
		}
	} else if err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to query max case number: %w", err)
	}

	// Format case number with zero-padded sequence
	return fmt.Sprintf("CASE-%d-%05d", currentYear, sequence), nil
}

// EnsureUniqueCaseNumber generates a unique case number with retry logic
// Retries up to maxRetries times if a collision occurs
func EnsureUniqueCaseNumber(dbConn *gorm.DB) (string, error) {
	const maxRetries = 10

	for i := 0; i < maxRetries; i++ {
		caseNumber, err := GenerateCaseNumber(dbConn)
		if err != nil {
			return "", err
		}

		// Check if case number already exists
		var count int64
		if err := dbConn.Model(&models.Case{}).Where("case_number = ?", caseNumber).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check case number uniqueness: %w", err)
		}

		if count == 0 {
			return caseNumber, nil
		}

		// Collision detected, retry
	}

	return "", fmt.Errorf("failed to generate unique case number after %d retries", maxRetries)
}

// AssignJudge assigns a judge to a case and moves it to In Progress. The guard
// check and the write happen in a single conditional update so two concurrent
// transitions cannot both pass the not-closed guard before either writes.
func AssignJudge(dbConn *gorm.DB, kase *models.Case, judge *models.User, actor *models.User) error {
	now := time.Now()

	result := dbConn.Model(&models.Case{}).
		Where("id = ? AND status <> ?", kase.ID, models.CaseStatusClosed).
		Updates(map[string]interface{}{
			"judge_id":          judge.ID,
			"status":            models.CaseStatusInProgress,
			"status_changed_at": now,
			"status_changed_by": actor.ID,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to assign judge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &CaseClosedError{CaseNumber: kase.CaseNumber}
	}

	kase.JudgeID = &judge.ID
	kase.Judge = judge
	kase.Status = models.CaseStatusInProgress
	kase.StatusChangedAt = &now
	kase.StatusChangedBy = &actor.ID

	// Best-effort notification to the filing client; failure never rolls back
	// the assignment
	notifyCaseEvent(dbConn, kase.ClientID, kase.ID, models.NotificationTypeCaseAssigned,
		"Judge Assigned to Your Case",
		fmt.Sprintf("Judge %s has been assigned to your case %s. The case is now in progress.", judge.Name, kase.CaseNumber))

	return nil
}

// TransitionCaseStatus moves a case to the target status (canonical form).
// The not-closed guard and the write are one conditional update; forward-only
// ordering is enforced against the caller's fetched copy.
func TransitionCaseStatus(dbConn *gorm.DB, kase *models.Case, target string, actor *models.User) error {
	if kase.IsClosed() {
		return &CaseClosedError{CaseNumber: kase.CaseNumber}
	}
	if statusRank(target) < statusRank(kase.Status) {
		return &InvalidTransitionError{From: kase.DisplayStatus(), To: target}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":            target,
		"status_changed_at": now,
		"status_changed_by": actor.ID,
	}
	if target == models.CaseStatusClosed {
		updates["closed_at"] = now
	}

	result := dbConn.Model(&models.Case{}).
		Where("id = ? AND status <> ?", kase.ID, models.CaseStatusClosed).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update case status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// A concurrent request closed the case between our read and this write
		return &CaseClosedError{CaseNumber: kase.CaseNumber}
	}

	kase.Status = target
	kase.StatusChangedAt = &now
	kase.StatusChangedBy = &actor.ID

	switch target {
	case models.CaseStatusClosed:
		kase.ClosedAt = &now
		notifyCaseEvent(dbConn, kase.ClientID, kase.ID, models.NotificationTypeCaseClosed,
			"Your Case Has Been Closed",
			fmt.Sprintf("Your case %s has been closed.", kase.CaseNumber))
	case models.CaseStatusInProgress:
		notifyCaseEvent(dbConn, kase.ClientID, kase.ID, models.NotificationTypeCaseStatus,
			"Case Status Updated",
			fmt.Sprintf("Your case %s is now in progress.", kase.CaseNumber))
	default:
		notifyCaseEvent(dbConn, kase.ClientID, kase.ID, models.NotificationTypeCaseStatus,
			"Case Status Updated",
			fmt.Sprintf("The status of your case %s is now %s.", kase.CaseNumber, kase.DisplayStatus()))
	}

	return nil
}
