package models

// StatusCount is one row of a group-by-status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// FieldCount is one row of a group-by aggregate over an arbitrary column
// (make, color, year).
type FieldCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// MonthCount is one row of a per-month aggregate.
type MonthCount struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

// CarStats is the public cars statistics summary.
type CarStats struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"by_status"`
	ByMake   []FieldCount  `json:"by_make"`
	ByColor  []FieldCount  `json:"by_color"`
	ByYear   []FieldCount  `json:"by_year"`
	ByMonth  []MonthCount  `json:"by_month"`
}

// ReportStats is the public reports statistics summary.
type ReportStats struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"by_status"`
	ByMonth  []MonthCount  `json:"by_month"`
}

// DashboardStats is the admin dashboard aggregate.
type DashboardStats struct {
	Users struct {
		Total  int64 `json:"total"`
		Admins int64 `json:"admins"`
		New    int64 `json:"new"`
	} `json:"users"`
	Cars struct {
		Total  int64 `json:"total"`
		Stolen int64 `json:"stolen"`
		Found  int64 `json:"found"`
		New    int64 `json:"new"`
	} `json:"cars"`
	Reports struct {
		Total     int64 `json:"total"`
		Pending   int64 `json:"pending"`
		Confirmed int64 `json:"confirmed"`
		New       int64 `json:"new"`
	} `json:"reports"`
	TopViewedCars []Car    `json:"top_viewed_cars"`
	LatestReports []Report `json:"latest_reports"`
}
