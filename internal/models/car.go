package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // needed for pq.StringArray
	"gorm.io/gorm"
)

// CarStatus is the closed set of states a stolen-car record can be in.
// There is no restriction on which status can follow which: an admin may
// move a record between any two states.
type CarStatus string

const (
	CarStatusStolen        CarStatus = "stolen"
	CarStatusFound         CarStatus = "found"
	CarStatusInvestigating CarStatus = "investigating"
	CarStatusClosed        CarStatus = "closed"
)

// ParseCarStatus validates a raw status value coming off the wire.
func ParseCarStatus(s string) (CarStatus, bool) {
	switch CarStatus(s) {
	case CarStatusStolen, CarStatusFound, CarStatusInvestigating, CarStatusClosed:
		return CarStatus(s), true
	}
	return "", false
}

// Car represents one reported-stolen vehicle. Status and the verification
// flag are independent axes: verifying a record says the listing is genuine,
// not that the car has been recovered.
type Car struct {
	ID          string `gorm:"primaryKey" json:"id"`
	PlateNumber string `gorm:"uniqueIndex;not null" json:"plate_number"`
	Make        string `gorm:"not null" json:"make"`
	Model       string `gorm:"not null" json:"model"`
	Year        int    `gorm:"not null" json:"year"`
	Color       string `gorm:"not null" json:"color"`

	OwnerID string `gorm:"index;not null" json:"owner_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Status     CarStatus `gorm:"type:varchar(16);not null;default:'stolen'" json:"status"`
	IsVerified bool      `gorm:"not null;default:false" json:"is_verified"`

	StolenDate     time.Time `gorm:"not null" json:"stolen_date"`
	StolenLocation string    `gorm:"not null" json:"stolen_location"`
	Description    string    `gorm:"type:text;not null" json:"description"`

	Images pq.StringArray `gorm:"type:text[]" json:"images"`

	Features          string `json:"features"`
	EngineNumber      string `json:"engine_number"`
	ChassisNumber     string `json:"chassis_number"`
	AdditionalDetails string `gorm:"type:text" json:"additional_details"`

	ContactPhone string  `gorm:"not null" json:"contact_phone"`
	ContactEmail string  `json:"contact_email"`
	RewardAmount float64 `gorm:"not null;default:0" json:"reward_amount"`

	// Views is a read counter, incremented on every public detail fetch.
	// It has no bearing on lifecycle correctness.
	Views int64 `gorm:"not null;default:0" json:"views"`

	Reports []Report `gorm:"foreignKey:CarID" json:"reports,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID, the default status and the stolen date
// when they are not set.
func (c *Car) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CarStatusStolen
	}
	if c.StolenDate.IsZero() {
		c.StolenDate = time.Now()
	}
	return
}
