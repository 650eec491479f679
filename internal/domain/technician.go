package domain

import "time"

// Technician is a read-only roster entry. CurrentWorkload is informational
// and never gates eligibility.
type Technician struct {
	ID              string
	Name            string
	Email           string
	Role            string
	Skills          []string
	CurrentWorkload int
	Specializations []string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BusyPeriod is one busy interval reported by a calendar.
type BusyPeriod struct {
	Start time.Time
	End   time.Time
}
