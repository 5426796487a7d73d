package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayHours is one weekday's opening window, "HH:MM" local to the tenant.
type DayHours struct {
	Open  string
	Close string
}

// BusinessHours maps weekday to opening window. An absent weekday means the
// business is closed that day; there is no implicit open.
type BusinessHours map[time.Weekday]DayHours

// WeeklyHoursRow is one durable business-hours row. When any rows exist for a
// tenant they completely replace the default schedule: a weekday without an
// active row is closed.
type WeeklyHoursRow struct {
	ID       uuid.UUID
	TenantID TenantID
	Weekday  time.Weekday
	Open     string
	Close    string
	Active   bool
}

// DefaultBusinessHours is the schedule applied when a tenant has no weekly
// hours rows at all: Monday through Friday, 09:00-18:00.
func DefaultBusinessHours() BusinessHours {
	h := make(BusinessHours, 5)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		h[wd] = DayHours{Open: "09:00", Close: "18:00"}
	}
	return h
}
