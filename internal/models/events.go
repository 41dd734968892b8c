package models

// Event types pushed to the admin live feed.
const (
	EventCarRegistered   = "car_registered"
	EventReportFiled     = "report_filed"
	EventReportConfirmed = "report_confirmed"
)

// Event is one entry on the admin live feed, fanned out over Redis Pub/Sub
// to every connected dashboard.
type Event struct {
	Type        string `json:"type"`
	CarID       string `json:"car_id,omitempty"`
	ReportID    string `json:"report_id,omitempty"`
	PlateNumber string `json:"plate_number,omitempty"`
	Location    string `json:"location,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}
