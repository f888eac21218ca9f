package models

import "time"

// Base contains the surrogate key shared by all tables
type Base struct {
	ID uint `gorm:"primaryKey" json:"id"`
}

// DateOf truncates t to its calendar date in t's own location and returns
// that date at midnight UTC. Expense dates are compared and stored this way
// so that a value never drifts across a day boundary.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
