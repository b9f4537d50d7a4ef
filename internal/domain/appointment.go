package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentType string

const (
	AppointmentTypeAppointment AppointmentType = "appointment"
	AppointmentTypeBlocked     AppointmentType = "blocked"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentTypeAppointment, AppointmentTypeBlocked:
		return true
	default:
		return false
	}
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid"`
	ShopID       string          `bun:"shop_id,notnull"`
	TeamMemberID string          `bun:"team_member_id,notnull"`
	Type         AppointmentType `bun:"type,notnull"`
	ServiceID    string          `bun:"service_id,nullzero"`
	ClientID     string          `bun:"client_id,nullzero"`
	Notes        string          `bun:"notes"`
	StartTime    time.Time       `bun:"start_time,notnull"`
	EndTime      time.Time       `bun:"end_time,notnull"`
	CreatedAt    time.Time       `bun:"created_at,notnull"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// Duration is the occupied length, buffer included.
func (a Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

func (a Appointment) IsBlocked() bool {
	return a.Type == AppointmentTypeBlocked
}

// Position is the part of an appointment a move rewrites.
type Position struct {
	TeamMemberID string
	StartTime    time.Time
	EndTime      time.Time
}

func (a Appointment) Position() Position {
	return Position{TeamMemberID: a.TeamMemberID, StartTime: a.StartTime, EndTime: a.EndTime}
}

// WithPosition returns a copy of a placed at p.
func (a Appointment) WithPosition(p Position) Appointment {
	a.TeamMemberID = p.TeamMemberID
	a.StartTime = p.StartTime
	a.EndTime = p.EndTime
	return a
}

func (p Position) Equal(o Position) bool {
	return p.TeamMemberID == o.TeamMemberID && p.StartTime.Equal(o.StartTime) && p.EndTime.Equal(o.EndTime)
}
