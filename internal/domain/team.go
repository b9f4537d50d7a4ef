package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// TeamMember is a bookable staff member. WorkingDays uses ISO weekdays,
// 1 = Monday through 7 = Sunday.
type TeamMember struct {
	bun.BaseModel `bun:"table:team_members"`

	ID          string    `bun:"id,pk"`
	ShopID      string    `bun:"shop_id,notnull"`
	Name        string    `bun:"name,notnull"`
	WorkingDays []int16   `bun:"working_days,array,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func ISOWeekday(t time.Time) int16 {
	wd := t.Weekday()
	if wd == time.Sunday {
		return 7
	}
	return int16(wd)
}

func (m TeamMember) WorksOn(date time.Time) bool {
	want := ISOWeekday(date)
	for _, wd := range m.WorkingDays {
		if wd == want {
			return true
		}
	}
	return false
}

// Service is a bookable treatment. Its occupied interval is
// DurationMinutes + BufferMinutes.
type Service struct {
	bun.BaseModel `bun:"table:services"`

	ID              string    `bun:"id,pk"`
	ShopID          string    `bun:"shop_id,notnull"`
	Name            string    `bun:"name,notnull"`
	DurationMinutes int       `bun:"duration_minutes,notnull"`
	BufferMinutes   int       `bun:"buffer_minutes,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`
}

func (s Service) Occupied() time.Duration {
	return time.Duration(s.DurationMinutes+s.BufferMinutes) * time.Minute
}
