package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salondesk/backend/internal/domain"
)

func at(h, m int) time.Time {
	return time.Date(2026, 1, 5, h, m, 0, 0, time.UTC)
}

func booking(id string, member string, start, end time.Time, typ domain.AppointmentType) domain.Appointment {
	return domain.Appointment{
		ID:           uuid.MustParse(id),
		TeamMemberID: member,
		Type:         typ,
		StartTime:    start,
		EndTime:      end,
	}
}

const (
	idA = "00000000-0000-0000-0000-00000000000a"
	idB = "00000000-0000-0000-0000-00000000000b"
	idC = "00000000-0000-0000-0000-00000000000c"
)

func TestFindOverlap_AdjacentBookingsNeverConflict(t *testing.T) {
	existing := []domain.Appointment{
		booking(idA, "tm1", at(14, 0), at(15, 10), domain.AppointmentTypeAppointment),
	}

	after := Interval{TeamMemberID: "tm1", Start: at(15, 10), End: at(16, 0)}
	before := Interval{TeamMemberID: "tm1", Start: at(13, 0), End: at(14, 0)}

	assert.False(t, Overlaps(after, existing, uuid.Nil))
	assert.False(t, Overlaps(before, existing, uuid.Nil))
}

func TestFindOverlap_AnySharedInstantConflicts(t *testing.T) {
	existing := []domain.Appointment{
		booking(idA, "tm1", at(14, 0), at(15, 10), domain.AppointmentTypeAppointment),
	}

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{name: "tail", start: at(15, 9), end: at(16, 0)},
		{name: "head", start: at(13, 0), end: at(14, 1)},
		{name: "inside", start: at(14, 30), end: at(14, 40)},
		{name: "covering", start: at(13, 0), end: at(16, 0)},
		{name: "identical", start: at(14, 0), end: at(15, 10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := FindOverlap(Interval{TeamMemberID: "tm1", Start: tc.start, End: tc.end}, existing, uuid.Nil)
			require.True(t, ok)
			assert.Equal(t, uuid.MustParse(idA), c.ID)
		})
	}
}

func TestFindOverlap_BlockedAndRegularAreSymmetric(t *testing.T) {
	blocked := booking(idA, "tm1", at(12, 0), at(13, 0), domain.AppointmentTypeBlocked)
	regular := booking(idB, "tm1", at(12, 30), at(13, 40), domain.AppointmentTypeAppointment)

	assert.True(t, Overlaps(Interval{TeamMemberID: "tm1", Start: regular.StartTime, End: regular.EndTime}, []domain.Appointment{blocked}, uuid.Nil))
	assert.True(t, Overlaps(Interval{TeamMemberID: "tm1", Start: blocked.StartTime, End: blocked.EndTime}, []domain.Appointment{regular}, uuid.Nil))
}

func TestFindOverlap_Scope(t *testing.T) {
	existing := []domain.Appointment{
		booking(idA, "tm1", at(14, 0), at(15, 0), domain.AppointmentTypeAppointment),
	}
	c := Interval{TeamMemberID: "tm1", Start: at(14, 30), End: at(15, 30)}

	t.Run("other team member", func(t *testing.T) {
		other := c
		other.TeamMemberID = "tm2"
		assert.False(t, Overlaps(other, existing, uuid.Nil))
	})

	t.Run("other day", func(t *testing.T) {
		nextDay := Interval{TeamMemberID: "tm1", Start: c.Start.AddDate(0, 0, 1), End: c.End.AddDate(0, 0, 1)}
		assert.False(t, Overlaps(nextDay, existing, uuid.Nil))
	})

	t.Run("excluded id", func(t *testing.T) {
		assert.False(t, Overlaps(c, existing, uuid.MustParse(idA)))
	})
}

func TestFindOverlap_IgnoresSubSecondJitter(t *testing.T) {
	existing := []domain.Appointment{
		booking(idA, "tm1", at(14, 0), at(15, 10).Add(750*time.Millisecond), domain.AppointmentTypeAppointment),
	}

	c := Interval{TeamMemberID: "tm1", Start: at(15, 10), End: at(16, 0)}
	assert.False(t, Overlaps(c, existing, uuid.Nil))
}

func TestFindOverlap_ReturnsFirstConflict(t *testing.T) {
	existing := []domain.Appointment{
		booking(idA, "tm1", at(10, 0), at(11, 0), domain.AppointmentTypeAppointment),
		booking(idB, "tm1", at(11, 0), at(12, 0), domain.AppointmentTypeAppointment),
		booking(idC, "tm1", at(12, 0), at(13, 0), domain.AppointmentTypeAppointment),
	}

	c, ok := FindOverlap(Interval{TeamMemberID: "tm1", Start: at(10, 30), End: at(12, 30)}, existing, uuid.Nil)
	require.True(t, ok)
	assert.Equal(t, uuid.MustParse(idA), c.ID)
}
