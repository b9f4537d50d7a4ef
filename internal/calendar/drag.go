package calendar

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"salondesk/backend/internal/domain"
	"salondesk/backend/internal/store"
)

// Target is a pointer position over the grid: the team member column, the
// slot under the pointer and the offset into that slot in minutes.
type Target struct {
	TeamMemberID     string
	SlotTime         time.Time
	RawOffsetMinutes float64
}

func (t Target) validate() error {
	if t.TeamMemberID == "" {
		return validationError("team_member_id is required")
	}
	if t.SlotTime.IsZero() {
		return validationError("slot_time is required")
	}
	return nil
}

// DragSession is the state of the one drag an engine allows at a time.
// Original is captured at BeginDrag and is the only position a failed drop
// reverts to.
type DragSession struct {
	AppointmentID uuid.UUID
	Original      domain.Position
	Current       domain.Position
	LastKey       string
	Generation    uint64

	inFlight bool
	pending  *pendingUpdate
	// dirty is set once a speculative write may have reached the store.
	dirty bool
}

// pendingUpdate is a deferred auto-update target. ctx keeps the values of the
// call that supplied it but not its cancellation: that call has already
// returned StatusDeferred by the time the write runs.
type pendingUpdate struct {
	ctx    context.Context
	target Target
}

// pendingWriteTimeout bounds a deferred auto-update write.
const pendingWriteTimeout = 10 * time.Second

// BeginDrag opens a drag session on appointment id. An appointment whose
// move is still being written cannot be picked up.
func (e *Engine) BeginDrag(id uuid.UUID) (DragSession, error) {
	const op = "begin_drag"

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag != nil {
		e.rec.ObserveOperation(op, string(StatusRejected))
		return DragSession{}, ErrDragInProgress
	}
	en, ok := e.appts[id]
	if !ok {
		e.rec.ObserveOperation(op, string(StatusRejected))
		return DragSession{}, ErrAppointmentNotFound
	}
	if en.state == StateSpeculative {
		e.rec.ObserveOperation(op, string(StatusRejected))
		return DragSession{}, ErrWriteInFlight
	}

	e.generation++
	s := &DragSession{
		AppointmentID: id,
		Original:      en.appt.Position(),
		Current:       en.appt.Position(),
		Generation:    e.generation,
	}
	e.drag = s
	e.rec.ObserveOperation(op, string(StatusCommitted))
	return *s, nil
}

// AutoUpdateDuringDrag speculatively persists the position under the pointer.
// Only one write runs at a time: a call made while another is in flight is
// parked as pending (the newest replaces older ones) and is run by the
// in-flight call once it finishes. Conflicts, past slots and write failures
// are not errors here; the appointment simply stays where it was.
func (e *Engine) AutoUpdateDuringDrag(ctx context.Context, target Target) (Result, error) {
	const op = "auto_update"

	if err := target.validate(); err != nil {
		return e.done(op, Result{Status: StatusRejected}, err)
	}

	e.mu.Lock()
	s := e.drag
	if s == nil {
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusRejected}, ErrNoActiveDrag)
	}
	if s.inFlight {
		s.pending = &pendingUpdate{ctx: context.WithoutCancel(ctx), target: target}
		var cur domain.Appointment
		if en, ok := e.appts[s.AppointmentID]; ok {
			cur = en.appt
		}
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusDeferred, Appointment: cur}, nil)
	}
	s.inFlight = true
	e.mu.Unlock()

	res := e.autoUpdate(ctx, s, target)
	for {
		e.mu.Lock()
		if e.drag != s {
			e.mu.Unlock()
			return res, nil
		}
		next := s.pending
		s.pending = nil
		if next == nil {
			s.inFlight = false
			e.mu.Unlock()
			return res, nil
		}
		e.mu.Unlock()
		e.runPending(s, next)
	}
}

func (e *Engine) runPending(s *DragSession, p *pendingUpdate) {
	ctx, cancel := context.WithTimeout(p.ctx, pendingWriteTimeout)
	defer cancel()
	e.autoUpdate(ctx, s, p.target)
}

func (e *Engine) autoUpdate(ctx context.Context, s *DragSession, target Target) Result {
	const op = "auto_update"

	e.mu.Lock()
	if e.drag != s {
		e.mu.Unlock()
		return e.record(op, Result{Status: StatusDiscarded})
	}
	en, ok := e.appts[s.AppointmentID]
	if !ok {
		e.mu.Unlock()
		return e.record(op, Result{Status: StatusSkipped})
	}
	prev := *en
	current := en.appt

	p := ResolveSlot(target.SlotTime.In(e.day.Location()), target.RawOffsetMinutes, e.grid.SlotMinutes)
	key := p.Key(target.TeamMemberID)
	if key == s.LastKey || samePlacement(current, target.TeamMemberID, p.Start) {
		e.mu.Unlock()
		return e.record(op, Result{Status: StatusSkipped, Appointment: current})
	}
	moved, err := e.placeLocked(current, target)
	if err != nil {
		e.mu.Unlock()
		e.log.Debug("auto-update skipped",
			slog.String("appointment_id", s.AppointmentID.String()),
			slog.Time("start_time", p.Start),
			slog.Any("err", err),
		)
		return e.record(op, Result{Status: StatusSkipped, Appointment: current})
	}
	en.appt = moved
	en.state = StateSpeculative
	s.Current = moved.Position()
	s.dirty = true
	e.mu.Unlock()

	saved, written, err := e.writeIfActive(ctx, s, moved)
	if !written {
		return e.record(op, Result{Status: StatusDiscarded, Appointment: moved})
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag != s {
		e.log.Debug("late auto-update response discarded",
			slog.String("appointment_id", s.AppointmentID.String()),
			slog.Uint64("generation", s.Generation),
		)
		return e.record(op, Result{Status: StatusDiscarded, Appointment: moved})
	}

	cur, ok := e.appts[s.AppointmentID]
	if err != nil {
		if ok && cur.appt.Position().Equal(moved.Position()) {
			cur.appt = prev.appt
			cur.state = prev.state
		}
		s.Current = prev.appt.Position()
		e.log.Warn("auto-update rolled back",
			slog.String("appointment_id", s.AppointmentID.String()),
			slog.Any("err", err),
		)
		return e.record(op, Result{Status: StatusReverted, Appointment: prev.appt})
	}

	saved = e.localize(saved)
	s.LastKey = key
	s.Current = saved.Position()
	if ok {
		cur.appt = saved
		cur.state = StateSpeculative
	}
	return e.record(op, Result{Status: StatusSpeculative, Appointment: saved})
}

// writeIfActive persists appt unless the drag s has already ended. The check
// and the write happen under writeMu, so a drop's final write always lands
// after any speculative write of the same drag.
func (e *Engine) writeIfActive(ctx context.Context, s *DragSession, appt domain.Appointment) (domain.Appointment, bool, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	active := e.drag == s
	e.mu.Unlock()
	if !active {
		return domain.Appointment{}, false, nil
	}

	saved, err := e.update(ctx, appt)
	return saved, true, err
}

// EndDrag drops the dragged appointment at target. Any rejection puts it back
// at its drag-start position, in memory and in the store. The session is
// cleared whatever the outcome.
func (e *Engine) EndDrag(ctx context.Context, target Target) (Result, error) {
	const op = "end_drag"

	e.mu.Lock()
	s := e.drag
	if s == nil {
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusRejected}, ErrNoActiveDrag)
	}
	e.drag = nil

	en, ok := e.appts[s.AppointmentID]
	if !ok {
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusRejected}, ErrAppointmentNotFound)
	}
	original := en.appt.WithPosition(s.Original)

	err := target.validate()
	var moved domain.Appointment
	if err == nil {
		moved, err = e.placeLocked(en.appt, target)
	}
	if err != nil {
		en.appt = original
		en.state = StateReverted
		e.mu.Unlock()
		return e.restore(ctx, op, s, original, err)
	}

	if !s.dirty && moved.Position().Equal(original.Position()) {
		en.appt = original
		en.state = StateConfirmed
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusCommitted, Appointment: original}, nil)
	}
	en.appt = moved
	en.state = StateSpeculative
	e.mu.Unlock()

	e.writeMu.Lock()
	saved, err := e.update(ctx, moved)
	e.writeMu.Unlock()

	if errors.Is(err, store.ErrNotFound) {
		e.forget(s.AppointmentID)
		return e.done(op, Result{Status: StatusRejected, Appointment: original}, ErrAppointmentNotFound)
	}
	if err != nil {
		e.mu.Lock()
		if cur, ok := e.appts[s.AppointmentID]; ok {
			cur.appt = original
			cur.state = StateReverted
		}
		e.mu.Unlock()
		return e.restore(ctx, op, s, original, e.writeError("update", err))
	}

	saved = e.localize(saved)
	e.mu.Lock()
	if _, ok := e.appts[s.AppointmentID]; ok {
		e.appts[s.AppointmentID] = &entry{appt: saved, state: StateConfirmed}
	}
	e.mu.Unlock()
	return e.done(op, Result{Status: StatusCommitted, Appointment: saved}, nil)
}

// CancelDrag abandons the drag, for example when the user navigates away.
// The session is cleared before any I/O; a speculative write already in the
// store is then overwritten with the drag-start position.
func (e *Engine) CancelDrag(ctx context.Context) (Result, error) {
	const op = "cancel_drag"

	e.mu.Lock()
	s := e.drag
	if s == nil {
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusRejected}, ErrNoActiveDrag)
	}
	e.drag = nil

	en, ok := e.appts[s.AppointmentID]
	if !ok {
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusReverted}, nil)
	}
	original := en.appt.WithPosition(s.Original)
	en.appt = original
	en.state = StateConfirmed
	if s.dirty {
		en.state = StateReverted
	}
	e.mu.Unlock()

	return e.restore(ctx, op, s, original, nil)
}

// Close cancels an open drag. The engine stays usable.
func (e *Engine) Close(ctx context.Context) error {
	_, err := e.CancelDrag(ctx)
	if errors.Is(err, ErrNoActiveDrag) {
		return nil
	}
	return err
}

// restore writes original back when a speculative write of s may have
// reached the store, and reports the drop as reverted with cause.
func (e *Engine) restore(ctx context.Context, op string, s *DragSession, original domain.Appointment, cause error) (Result, error) {
	if !s.dirty {
		return e.done(op, Result{Status: StatusReverted, Appointment: original}, cause)
	}

	e.mu.Lock()
	e.reverting++
	e.mu.Unlock()

	e.writeMu.Lock()
	_, err := e.update(ctx, original)
	e.writeMu.Unlock()

	e.mu.Lock()
	e.reverting--
	e.mu.Unlock()

	if errors.Is(err, store.ErrNotFound) {
		e.forget(original.ID)
		return e.done(op, Result{Status: StatusReverted, Appointment: original}, errors.Join(cause, ErrAppointmentNotFound))
	}
	if err != nil {
		e.log.Error("restoring drag-start position failed",
			slog.String("appointment_id", original.ID.String()),
			slog.Time("start_time", original.StartTime),
			slog.Any("err", err),
		)
		cause = errors.Join(cause, &RepositoryError{Op: "restore", Err: err})
	}
	return e.done(op, Result{Status: StatusReverted, Appointment: original}, cause)
}

// samePlacement reports whether a already sits at start, to the minute, in
// teamMemberID's column.
func samePlacement(a domain.Appointment, teamMemberID string, start time.Time) bool {
	return a.TeamMemberID == teamMemberID && a.StartTime.Truncate(time.Minute).Equal(start.Truncate(time.Minute))
}
