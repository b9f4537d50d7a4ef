package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salondesk/backend/internal/domain"
)

// AppointmentRepository is the durable store behind the scheduling engine.
// UpsertAppointment and UpdateAppointment write start, end and team member in
// one statement. UpdateAppointment never inserts: a missing row is ErrNotFound.
type AppointmentRepository interface {
	ListAppointments(ctx context.Context, shopID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	UpsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	DeleteAppointment(ctx context.Context, appointmentID uuid.UUID) error
}

type CatalogRepository interface {
	GetShop(ctx context.Context, shopID string) (domain.Shop, error)
	ListTeamMembers(ctx context.Context, shopID string) ([]domain.TeamMember, error)
	ListServices(ctx context.Context, shopID string) ([]domain.Service, error)
}

// ScheduleTx is the view of the store available inside a team member's
// write transaction.
type ScheduleTx interface {
	ListMemberAppointments(ctx context.Context, teamMemberID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointmentPosition(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
