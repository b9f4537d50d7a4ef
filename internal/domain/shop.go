package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const (
	TimeFormat = "15:04"
	DateFormat = "2006-01-02"
)

var ErrInvalidTimeOfDay = errors.New("time must be in HH:MM format")

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, date.Location())
}

type Shop struct {
	bun.BaseModel `bun:"table:shops"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	OpeningTime string    `bun:"opening_time"`
	ClosingTime string    `bun:"closing_time"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (s *Shop) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
