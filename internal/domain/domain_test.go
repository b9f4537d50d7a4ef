package domain

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:05")
	if err != nil {
		t.Fatalf("ParseTimeOfDay error: %v", err)
	}
	if got.Hour != 9 || got.Minute != 5 {
		t.Fatalf("got %v, want 09:05", got)
	}
	if got.Minutes() != 545 {
		t.Fatalf("minutes = %d, want 545", got.Minutes())
	}

	for _, in := range []string{"", "9:05", "24:00", "12:60", "ab:cd", "12:000"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Fatalf("ParseTimeOfDay(%q) expected error", in)
		}
	}
}

func TestTeamMemberWorksOn(t *testing.T) {
	m := TeamMember{ID: "tm1", WorkingDays: []int16{1, 3, 7}}

	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	sunday := monday.AddDate(0, 0, 6)

	if !m.WorksOn(monday) {
		t.Fatalf("expected monday to be a working day")
	}
	if m.WorksOn(tuesday) {
		t.Fatalf("expected tuesday to be a day off")
	}
	if !m.WorksOn(sunday) {
		t.Fatalf("expected sunday (7) to be a working day")
	}
}

func TestServiceOccupied(t *testing.T) {
	s := Service{DurationMinutes: 60, BufferMinutes: 10}
	if s.Occupied() != 70*time.Minute {
		t.Fatalf("occupied = %v, want 70m", s.Occupied())
	}
}

func TestAppointmentWithPosition(t *testing.T) {
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	a := Appointment{TeamMemberID: "tm1", StartTime: start, EndTime: start.Add(time.Hour)}

	p := Position{TeamMemberID: "tm2", StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour)}
	moved := a.WithPosition(p)

	if !moved.Position().Equal(p) {
		t.Fatalf("moved position = %+v, want %+v", moved.Position(), p)
	}
	if a.TeamMemberID != "tm1" {
		t.Fatalf("original mutated: %+v", a)
	}
}
