package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Court type constants
const (
	CourtTypeDistrict = "DISTRICT"
	CourtTypeHigh     = "HIGH"
	CourtTypeSupreme  = "SUPREME"
	CourtTypeFamily   = "FAMILY"
	CourtTypeCivil    = "CIVIL"
	CourtTypeCriminal = "CRIMINAL"
)

// Court represents a court where cases are heard
type Court struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string `gorm:"not null;uniqueIndex" json:"name"`
	Location  string `json:"location,omitempty"`
	CourtType string `gorm:"not null;default:DISTRICT" json:"court_type"`
}

// BeforeCreate hook to generate UUID
func (c *Court) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Court model
func (Court) TableName() string {
	return "courts"
}
