package models

import "time"

// ReportLog is a TimeLog joined with its owner's name, as rendered in exports.
type ReportLog struct {
	LogID    int64
	Employee string
	ClockIn  time.Time
	ClockOut *time.Time
	Manual   bool
	Approved bool
	Breaks   []Break
}

// UserHours is the summed duration of a user's closed sessions in a window.
type UserHours struct {
	Employee   string  `json:"employee"`
	TotalHours float64 `json:"total_hours"`
}
