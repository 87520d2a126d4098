package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hearing status constants
const (
	HearingStatusScheduled = "SCHEDULED"
	HearingStatusCompleted = "COMPLETED"
	HearingStatusCancelled = "CANCELLED"
)

// Hearing represents a scheduled court hearing for a case
type Hearing struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   Case   `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	CourtID *string `gorm:"type:uuid;index" json:"court_id,omitempty"`
	Court   *Court  `gorm:"foreignKey:CourtID" json:"court,omitempty"`

	JudgeID *string `gorm:"type:uuid;index" json:"judge_id,omitempty"`
	Judge   *User   `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`

	ScheduledAt time.Time `gorm:"not null;index" json:"scheduled_at"`
	Location    string    `json:"location,omitempty"`
	Purpose     string    `gorm:"type:text" json:"purpose,omitempty"`
	Status      string    `gorm:"not null;default:SCHEDULED" json:"status"`
	Notes       *string   `gorm:"type:text" json:"notes,omitempty"`

	ScheduledByID *string `gorm:"type:uuid" json:"scheduled_by_id,omitempty"`
	ScheduledBy   *User   `gorm:"foreignKey:ScheduledByID" json:"scheduled_by,omitempty"`
}

// BeforeCreate hook to generate UUID
func (h *Hearing) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Hearing model
func (Hearing) TableName() string {
	return "hearings"
}

// IsValidHearingStatus checks if the hearing status is valid
func IsValidHearingStatus(status string) bool {
	return status == HearingStatusScheduled ||
		status == HearingStatusCompleted ||
		status == HearingStatusCancelled
}
