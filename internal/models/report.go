package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ReportStatus is the closed set of states a sighting report moves through
// while admins triage it.
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusConfirmed     ReportStatus = "confirmed"
	ReportStatusFalse         ReportStatus = "false"
	ReportStatusClosed        ReportStatus = "closed"
)

// ParseReportStatus validates a raw status value coming off the wire.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(s) {
	case ReportStatusPending, ReportStatusInvestigating, ReportStatusConfirmed,
		ReportStatusFalse, ReportStatusClosed:
		return ReportStatus(s), true
	}
	return "", false
}

// Report represents one sighting claim tied to a car and the user who filed
// it. Confirming a report implies it is verified; a verified report is not
// necessarily confirmed.
type Report struct {
	ID string `gorm:"primaryKey" json:"id"`

	CarID string `gorm:"index;not null" json:"car_id"`
	Car   *Car   `gorm:"foreignKey:CarID" json:"car,omitempty"`

	ReporterID string `gorm:"index;not null" json:"reporter_id"`
	Reporter   *User  `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`

	Location    string    `gorm:"not null" json:"location"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description string    `gorm:"type:text;not null" json:"description"`

	Images pq.StringArray `gorm:"type:text[]" json:"images"`

	Status ReportStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`

	ContactPhone string `gorm:"not null" json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	IsAnonymous  bool   `gorm:"not null;default:false" json:"is_anonymous"`

	AdminNotes string `gorm:"type:text" json:"admin_notes"`
	IsVerified bool   `gorm:"not null;default:false" json:"is_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID, the default status and the sighting date
// when they are not set.
func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = ReportStatusPending
	}
	if r.Date.IsZero() {
		r.Date = time.Now()
	}
	return
}
