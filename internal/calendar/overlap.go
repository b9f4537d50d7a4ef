package calendar

import (
	"time"

	"github.com/google/uuid"

	"salondesk/backend/internal/domain"
)

// Interval is a proposed occupation of a team member's calendar.
type Interval struct {
	TeamMemberID string
	Start        time.Time
	End          time.Time
}

// FindOverlap returns the first appointment in existing that conflicts with c.
// Only bookings of the same team member on the same calendar day count, and
// excludeID is skipped so an appointment never conflicts with itself. Bounds
// are compared in whole seconds with exclusive ends: back-to-back bookings
// are legal.
func FindOverlap(c Interval, existing []domain.Appointment, excludeID uuid.UUID) (domain.Appointment, bool) {
	start := c.Start.Unix()
	end := c.End.Unix()
	for _, e := range existing {
		if e.TeamMemberID != c.TeamMemberID {
			continue
		}
		if excludeID != uuid.Nil && e.ID == excludeID {
			continue
		}
		if !domain.SameDay(e.StartTime.In(c.Start.Location()), c.Start) {
			continue
		}
		if start < e.EndTime.Unix() && end > e.StartTime.Unix() {
			return e, true
		}
	}
	return domain.Appointment{}, false
}

func Overlaps(c Interval, existing []domain.Appointment, excludeID uuid.UUID) bool {
	_, ok := FindOverlap(c, existing, excludeID)
	return ok
}
