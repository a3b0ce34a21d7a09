package domain

import (
	"time"

	"github.com/GotYourSixConsulting/delegations/internal/dateutil"
)

// Derived display status for a delegation. Computed on demand from the
// stored status plus today's date; persisting these would go stale.
const (
	StatusInGoodStanding = "in-good-standing"
	StatusDueSoon        = "due-soon"
	StatusOverdue        = "overdue"
	StatusRescinded      = "rescinded"
)

// DeriveStatus computes the display status of d as of today. Rescinded is
// terminal and overrides the date-derived states.
func DeriveStatus(d *Delegation, today time.Time) string {
	if d.Status == DelegationRescinded {
		return StatusRescinded
	}
	remaining := dateutil.DaysBetween(today, d.EndDate)
	switch {
	case remaining < 0:
		return StatusOverdue
	case remaining <= DueSoonWindowDays:
		return StatusDueSoon
	default:
		return StatusInGoodStanding
	}
}

// SupervisionDue reports whether the next supervision check-in is within
// SupervisionDueSoonDays (or already past). Only meaningful for active
// delegations.
func SupervisionDue(d *Delegation, today time.Time) bool {
	if d.Status != DelegationActive {
		return false
	}
	return dateutil.DaysBetween(today, d.SupervisionDueDate) <= SupervisionDueSoonDays
}
