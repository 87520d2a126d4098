package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants. The canonical representation is upper-snake; see
// ParseCaseStatus for the legacy spellings accepted on input.
const (
	CaseStatusOpen       = "OPEN"
	CaseStatusInProgress = "IN_PROGRESS"
	CaseStatusClosed     = "CLOSED"
)

// Party holds the contact block for a defendant or plaintiff.
// A party is considered absent when its Name is empty.
type Party struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// IsSet reports whether the party block was provided
func (p Party) IsSet() bool {
	return p.Name != ""
}

// Case represents a filed legal matter
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Case identification
	CaseNumber  string `gorm:"not null;uniqueIndex" json:"case_number"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	CaseType    string `gorm:"not null;index" json:"case_type"`

	// Parties
	Defendant Party `gorm:"embedded;embeddedPrefix:defendant_" json:"defendant"`
	Plaintiff Party `gorm:"embedded;embeddedPrefix:plaintiff_" json:"plaintiff"`

	// Filing client (immutable after creation)
	ClientID string `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   User   `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	// Assignment
	JudgeID *string `gorm:"type:uuid;index" json:"judge_id,omitempty"`
	Judge   *User   `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`

	CourtID *string `gorm:"type:uuid;index" json:"court_id,omitempty"`
	Court   *Court  `gorm:"foreignKey:CourtID" json:"court,omitempty"`

	// Status and lifecycle
	Status          string     `gorm:"not null;default:OPEN;index" json:"status"`
	FiledAt         time.Time  `gorm:"not null;index" json:"filed_at"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
	StatusChangedBy *string    `gorm:"type:uuid" json:"status_changed_by,omitempty"`

	// Relationships
	Hearings  []Hearing      `gorm:"foreignKey:CaseID" json:"hearings,omitempty"`
	Documents []CaseDocument `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
}

// BeforeCreate hook to generate UUID and set FiledAt
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.FiledAt.IsZero() {
		c.FiledAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsOpen checks if the case is open
func (c *Case) IsOpen() bool {
	return c.Status == CaseStatusOpen
}

// IsClosed checks if the case is closed
func (c *Case) IsClosed() bool {
	return c.Status == CaseStatusClosed
}

// IsAssignedTo checks if the case is assigned to the given judge
func (c *Case) IsAssignedTo(judgeID string) bool {
	return c.JudgeID != nil && *c.JudgeID == judgeID
}

// DisplayStatus returns the human-readable form of the case status
func (c *Case) DisplayStatus() string {
	switch c.Status {
	case CaseStatusOpen:
		return "Open"
	case CaseStatusInProgress:
		return "In Progress"
	case CaseStatusClosed:
		return "Closed"
	}
	return c.Status
}

// ParseCaseStatus maps a client-supplied status string to its canonical form.
// Earlier clients sent mixed-case ("Open", "In Progress") and kebab-case
// ("in-progress") spellings, so all of those are accepted.
func ParseCaseStatus(status string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(status))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	switch normalized {
	case CaseStatusOpen, CaseStatusInProgress, CaseStatusClosed:
		return normalized, true
	}
	return "", false
}

// IsValidCaseStatus checks if the status is valid in any accepted spelling
func IsValidCaseStatus(status string) bool {
	_, ok := ParseCaseStatus(status)
	return ok
}
