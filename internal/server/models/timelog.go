package models

import "time"

// TimeLog is one clock-in to clock-out session. A nil ClockOut means the
// session is still open.
type TimeLog struct {
	ID       int64      `json:"id"`
	UserID   int64      `json:"user_id"`
	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`
	// Manual is set for entries created by an administrator.
	Manual   bool    `json:"manual"`
	Approved bool    `json:"approved"`
	Breaks   []Break `json:"breaks"`
}

// Open reports whether the session has not been clocked out yet.
func (l *TimeLog) Open() bool {
	return l.ClockOut == nil
}

// Break is a pause inside a TimeLog. A nil BreakEnd means the break is open.
type Break struct {
	ID         int64      `json:"id"`
	LogID      int64      `json:"log_id"`
	BreakStart time.Time  `json:"break_start"`
	BreakEnd   *time.Time `json:"break_end"`
}

// Open reports whether the break has not been ended yet.
func (b *Break) Open() bool {
	return b.BreakEnd == nil
}

// Interval is a start/end pair used when an administrator enters a session
// by hand.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
