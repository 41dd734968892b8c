package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of permission tiers a user can hold.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole validates a raw role value coming off the wire.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Tier returns the rank of the role for permission comparisons:
// user < admin < superadmin. Unknown roles rank below user.
func (r Role) Tier() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	}
	return 0
}

// IsAdmin reports whether the role is admin tier or above.
func (r Role) IsAdmin() bool {
	return r.Tier() >= RoleAdmin.Tier()
}

// User represents a registered account: regular users who register stolen
// cars and file sighting reports, and admins who triage them.
type User struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Phone string `gorm:"not null" json:"phone"`
	// PasswordHash holds the bcrypt hash; never serialized.
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	ProfileImage string `json:"profile_image"`
	Location     string `json:"location"`
	// FCMToken is the mobile push registration token, cleared on logout.
	FCMToken string `json:"-"`

	ResetPasswordToken  string     `json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate is a GORM hook that assigns a UUID and the default role
// when they are not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return
}
