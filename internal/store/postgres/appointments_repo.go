package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"salondesk/backend/internal/domain"
	"salondesk/backend/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type scheduleTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) ListAppointments(ctx context.Context, shopID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("shop_id = ?", shopID).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertAppointment inserts appt, or rewrites its position and details when
// the id already exists. The write runs under the team member's advisory lock
// and is rejected with store.ErrConflict when it would overlap another booking.
func (r *AppointmentRepo) UpsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.InTeamMemberTransaction(ctx, appt.TeamMemberID, func(ctx context.Context, tx store.ScheduleTx) error {
		a, err := upsertLocked(ctx, tx, appt)
		out = a
		return err
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

// UpdateAppointment moves an existing appointment under the same lock and
// conflict check as UpsertAppointment. A deleted row stays deleted.
func (r *AppointmentRepo) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if appt.ID == uuid.Nil {
		return domain.Appointment{}, store.ErrNotFound
	}
	var out domain.Appointment
	err := r.InTeamMemberTransaction(ctx, appt.TeamMemberID, func(ctx context.Context, tx store.ScheduleTx) error {
		a, err := updateLocked(ctx, tx, appt)
		out = a
		return err
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func upsertLocked(ctx context.Context, tx store.ScheduleTx, appt domain.Appointment) (domain.Appointment, error) {
	if err := ensureNoConflict(ctx, tx, appt); err != nil {
		return domain.Appointment{}, err
	}
	if appt.ID == uuid.Nil {
		return tx.InsertAppointment(ctx, appt)
	}
	a, err := tx.UpdateAppointmentPosition(ctx, appt)
	if errors.Is(err, store.ErrNotFound) {
		return tx.InsertAppointment(ctx, appt)
	}
	return a, err
}

func updateLocked(ctx context.Context, tx store.ScheduleTx, appt domain.Appointment) (domain.Appointment, error) {
	if err := ensureNoConflict(ctx, tx, appt); err != nil {
		return domain.Appointment{}, err
	}
	return tx.UpdateAppointmentPosition(ctx, appt)
}

func (r *AppointmentRepo) DeleteAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", appointmentID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepo) InTeamMemberTransaction(ctx context.Context, teamMemberID string, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockTeamMemberCalendar(ctx, tx, teamMemberID); err != nil {
			return err
		}
		return fn(ctx, scheduleTx{tx: tx})
	})
}

func lockTeamMemberCalendar(ctx context.Context, tx bun.Tx, teamMemberID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", teamMemberID).Exec(ctx)
	return err
}

func (r scheduleTx) ListMemberAppointments(ctx context.Context, teamMemberID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.tx.NewSelect().
		Model(&rows).
		Where("team_member_id = ?", teamMemberID).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r scheduleTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	if _, err := r.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	return m, nil
}

// UpdateAppointmentPosition rewrites team member, start and end together with
// the booking details in a single UPDATE.
func (r scheduleTx) UpdateAppointmentPosition(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	res, err := r.tx.NewUpdate().
		Model(&m).
		Column("team_member_id", "type", "service_id", "client_id", "notes", "start_time", "end_time", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return m, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap" {
			return store.ErrConflict
		}
		if pgErr.Code == "23505" {
			return store.ErrConflict
		}
	}
	return err
}

// ensureNoConflict mirrors the exclusion constraint so the conflict is
// reported before the write is attempted.
func ensureNoConflict(ctx context.Context, tx store.ScheduleTx, appt domain.Appointment) error {
	rows, err := tx.ListMemberAppointments(ctx, appt.TeamMemberID, appt.StartTime, appt.EndTime)
	if err != nil {
		return err
	}
	start := appt.StartTime.Unix()
	end := appt.EndTime.Unix()
	for _, e := range rows {
		if e.ID == appt.ID {
			continue
		}
		if start < e.EndTime.Unix() && end > e.StartTime.Unix() {
			return store.ErrConflict
		}
	}
	return nil
}
