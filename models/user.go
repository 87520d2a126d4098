package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleAdmin  = "admin"
	RoleJudge  = "judge"
	RoleClient = "client"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Role        string     `gorm:"not null;default:client;index" json:"role"` // admin, judge, client
	Phone       string     `json:"phone,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Judges are attached to a court
	CourtID *string `gorm:"type:uuid;index" json:"court_id,omitempty"`
	Court   *Court  `gorm:"foreignKey:CourtID" json:"court,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsJudge checks if the user has the judge role
func (u *User) IsJudge() bool {
	return u.Role == RoleJudge
}

// IsClient checks if the user has the client role
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// IsValidUserRole checks if the role is valid
func IsValidUserRole(role string) bool {
	return role == RoleAdmin || role == RoleJudge || role == RoleClient
}
