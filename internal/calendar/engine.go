package calendar

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"salondesk/backend/internal/domain"
	"salondesk/backend/internal/store"
)

const minBlockedDuration = 5 * time.Minute

// Day is what an engine needs to know about the shop for the day it shows.
// Roster may hold the whole staff; members who do not work on the requested
// date are rejected at placement time.
type Day struct {
	Shop     domain.Shop
	Date     time.Time
	Roster   []domain.TeamMember
	Services []domain.Service
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithSlotMinutes(n int) Option {
	return func(e *Engine) {
		e.slotMinutes = n
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func WithRecorder(rec Recorder) Option {
	return func(e *Engine) {
		if rec != nil {
			e.rec = rec
		}
	}
}

type entry struct {
	appt  domain.Appointment
	state ReconcileState
}

// Engine owns one shop's day view: the in-memory appointment set, the drag
// session and every create, move and delete decision against it.
type Engine struct {
	repo     store.AppointmentRepository
	shopID   string
	day      time.Time
	grid     TimeGrid
	members  []domain.TeamMember
	roster   map[string]domain.TeamMember
	services map[string]domain.Service

	slotMinutes int
	now         func() time.Time
	log         *slog.Logger
	rec         Recorder

	mu         sync.Mutex
	appts      map[uuid.UUID]*entry
	drag       *DragSession
	generation uint64
	reverting  int

	// writeMu orders repository writes. It is never acquired while mu is held.
	writeMu sync.Mutex
}

func NewEngine(repo store.AppointmentRepository, day Day, opts ...Option) *Engine {
	e := &Engine{
		repo:        repo,
		shopID:      day.Shop.ID,
		members:     day.Roster,
		roster:      make(map[string]domain.TeamMember, len(day.Roster)),
		services:    make(map[string]domain.Service, len(day.Services)),
		slotMinutes: DefaultSlotMinutes,
		now:         time.Now,
		log:         slog.Default(),
		rec:         nopRecorder{},
		appts:       make(map[uuid.UUID]*entry),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(slog.String("component", "calendar"), slog.String("shop_id", e.shopID))

	e.day = domain.StartOfDay(day.Date)
	e.grid = BuildTimeGrid(e.day, day.Shop.OpeningTime, day.Shop.ClosingTime, e.slotMinutes)
	for _, m := range day.Roster {
		e.roster[m.ID] = m
	}
	for _, s := range day.Services {
		e.services[s.ID] = s
	}
	return e
}

func (e *Engine) ShopID() string {
	return e.shopID
}

func (e *Engine) Day() time.Time {
	return e.day
}

func (e *Engine) Grid() TimeGrid {
	return e.grid
}

// Roster returns the team members working on the engine's day.
func (e *Engine) Roster() []domain.TeamMember {
	out := make([]domain.TeamMember, 0, len(e.members))
	for _, m := range e.members {
		if m.WorksOn(e.day) {
			out = append(out, m)
		}
	}
	return out
}

// Load fills the in-memory set from the store.
func (e *Engine) Load(ctx context.Context) error {
	if err := e.Refresh(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	n := len(e.appts)
	e.mu.Unlock()
	e.log.Info("calendar loaded",
		slog.String("day", e.day.Format(domain.DateFormat)),
		slog.Int("appointments", n),
	)
	return nil
}

// Refresh reloads the day from the store. Appointments with a local write in
// flight, and the one under an active drag, keep their in-memory position.
func (e *Engine) Refresh(ctx context.Context) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	rows, err := e.list(ctx, e.day, e.day.AddDate(0, 0, 1))
	if err != nil {
		return &RepositoryError{Op: "list", Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := make(map[uuid.UUID]*entry, len(rows))
	for _, r := range rows {
		next[r.ID] = &entry{appt: e.localize(r), state: StateConfirmed}
	}
	for id, en := range e.appts {
		dragged := e.drag != nil && e.drag.AppointmentID == id
		if en.state == StateSpeculative || dragged {
			next[id] = en
		}
	}
	e.appts = next
	return nil
}

func (e *Engine) Appointments() []domain.Appointment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listLocked()
}

func (e *Engine) Get(id uuid.UUID) (domain.Appointment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, ok := e.appts[id]
	if !ok {
		return domain.Appointment{}, false
	}
	return en.appt, true
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.listLocked()
	tracked := make([]Tracked, 0, len(list))
	for _, a := range list {
		tracked = append(tracked, Tracked{Appointment: a, State: e.appts[a.ID].state})
	}

	var drag *DragSession
	if e.drag != nil {
		d := *e.drag
		d.pending = nil
		drag = &d
	}

	return Snapshot{
		Grid:         e.grid,
		Roster:       e.Roster(),
		Appointments: tracked,
		Phase:        e.phaseLocked(),
		Drag:         drag,
		TakenAt:      e.now(),
	}
}

// AppointmentAt returns the appointment to draw in the cell of teamMemberID at
// slotTime. Appointments starting inside the slot win over ones that merely
// overlap it, so back-to-back bookings each render in their own cell.
func (e *Engine) AppointmentAt(teamMemberID string, slotTime time.Time) (domain.Appointment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	slotStart := slotTime.Unix()
	slotEnd := slotTime.Add(e.grid.SlotDuration()).Unix()

	list := e.listLocked()
	for _, a := range list {
		if a.TeamMemberID != teamMemberID {
			continue
		}
		s := a.StartTime.Unix()
		if s >= slotStart && s < slotEnd {
			return a, true
		}
	}
	for _, a := range list {
		if a.TeamMemberID != teamMemberID {
			continue
		}
		if a.StartTime.Unix() < slotEnd && a.EndTime.Unix() > slotStart {
			return a, true
		}
	}
	return domain.Appointment{}, false
}

type CreateInput struct {
	TeamMemberID string
	Type         domain.AppointmentType
	Date         string
	StartTime    string
	EndTime      string
	ServiceID    string
	ClientID     string
	Notes        string
}

// CreateAppointment validates in, checks it against the team member's other
// bookings and persists it. Regular appointments end after the service
// duration plus buffer; blocked time uses the explicit end.
func (e *Engine) CreateAppointment(ctx context.Context, in CreateInput) (Result, error) {
	const op = "create"

	appt, err := e.prepareCreate(in)
	if err != nil {
		return e.done(op, Result{Status: StatusRejected, Appointment: appt}, err)
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	existing, err := e.bookingsOn(ctx, appt.StartTime)
	if err != nil {
		return e.done(op, Result{Status: StatusRejected, Appointment: appt}, err)
	}
	candidate := Interval{TeamMemberID: appt.TeamMemberID, Start: appt.StartTime, End: appt.EndTime}
	if c, ok := FindOverlap(candidate, existing, uuid.Nil); ok {
		return e.done(op, Result{Status: StatusRejected, Appointment: appt}, &SlotOccupiedError{Conflict: c})
	}

	saved, err := e.upsert(ctx, appt)
	if err != nil {
		return e.done(op, Result{Status: StatusRejected, Appointment: appt}, e.writeError("upsert", err))
	}
	saved = e.localize(saved)

	if domain.SameDay(saved.StartTime, e.day) {
		e.mu.Lock()
		e.appts[saved.ID] = &entry{appt: saved, state: StateConfirmed}
		e.mu.Unlock()
	}
	return e.done(op, Result{Status: StatusCommitted, Appointment: saved}, nil)
}

func (e *Engine) prepareCreate(in CreateInput) (domain.Appointment, error) {
	memberID := strings.TrimSpace(in.TeamMemberID)
	if memberID == "" {
		return domain.Appointment{}, validationError("team_member_id is required")
	}

	typ := in.Type
	if typ == "" {
		typ = domain.AppointmentTypeAppointment
	}
	if !typ.Valid() {
		return domain.Appointment{}, validationError("invalid appointment type")
	}

	dateStr := strings.TrimSpace(in.Date)
	if dateStr == "" {
		return domain.Appointment{}, validationError("date is required")
	}
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, e.day.Location())
	if err != nil {
		return domain.Appointment{}, validationError("date must be in YYYY-MM-DD format")
	}

	startStr := strings.TrimSpace(in.StartTime)
	if startStr == "" {
		return domain.Appointment{}, validationError("start_time is required")
	}
	startTOD, err := domain.ParseTimeOfDay(startStr)
	if err != nil {
		return domain.Appointment{}, validationError("start_time must be in HH:MM format")
	}
	start := startTOD.On(date)

	appt := domain.Appointment{
		ShopID:       e.shopID,
		TeamMemberID: memberID,
		Type:         typ,
		Notes:        strings.TrimSpace(in.Notes),
		StartTime:    start,
	}

	switch typ {
	case domain.AppointmentTypeAppointment:
		clientID := strings.TrimSpace(in.ClientID)
		if clientID == "" {
			return appt, validationError("client_id is required")
		}
		serviceID := strings.TrimSpace(in.ServiceID)
		if serviceID == "" {
			return appt, validationError("service_id is required")
		}
		svc, ok := e.services[serviceID]
		if !ok {
			return appt, validationError("unknown service_id")
		}
		if svc.DurationMinutes <= 0 || svc.BufferMinutes < 0 {
			return appt, validationError("service has an invalid duration")
		}
		appt.ClientID = clientID
		appt.ServiceID = serviceID
		appt.EndTime = start.Add(svc.Occupied())
	case domain.AppointmentTypeBlocked:
		endStr := strings.TrimSpace(in.EndTime)
		if endStr == "" {
			return appt, validationError("end_time is required for blocked time")
		}
		endTOD, err := domain.ParseTimeOfDay(endStr)
		if err != nil {
			return appt, validationError("end_time must be in HH:MM format")
		}
		end := endTOD.On(date)
		if !end.After(start) {
			return appt, validationError("end_time must be after start_time")
		}
		if end.Sub(start) < minBlockedDuration {
			return appt, validationError("blocked time must be at least 5 minutes")
		}
		appt.EndTime = end
	}

	if !e.available(memberID, date) {
		return appt, ErrTeamMemberUnavailable
	}
	if start.Before(e.now()) {
		return appt, ErrPastTime
	}
	return appt, nil
}

// MoveAppointment places appointment id at target. With a drag session open
// on the same appointment this is the drop; see EndDrag.
func (e *Engine) MoveAppointment(ctx context.Context, id uuid.UUID, target Target) (Result, error) {
	const op = "move"

	if err := target.validate(); err != nil {
		return e.done(op, Result{Status: StatusRejected}, err)
	}

	e.mu.Lock()
	if s := e.drag; s != nil {
		e.mu.Unlock()
		if s.AppointmentID == id {
			return e.EndDrag(ctx, target)
		}
		return e.done(op, Result{Status: StatusRejected}, ErrDragInProgress)
	}
	en, ok := e.appts[id]
	if !ok {
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusRejected}, ErrAppointmentNotFound)
	}
	original := en.appt
	moved, err := e.placeLocked(original, target)
	if err != nil {
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusRejected, Appointment: original}, err)
	}
	if moved.Position().Equal(original.Position()) {
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusSkipped, Appointment: original}, nil)
	}
	en.appt = moved
	en.state = StateSpeculative
	e.mu.Unlock()

	e.writeMu.Lock()
	saved, err := e.update(ctx, moved)
	e.writeMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if errors.Is(err, store.ErrNotFound) {
		delete(e.appts, id)
		return e.done(op, Result{Status: StatusRejected, Appointment: original}, ErrAppointmentNotFound)
	}
	if err != nil {
		if cur, ok := e.appts[id]; ok && cur.appt.Position().Equal(moved.Position()) {
			cur.appt = original
			cur.state = StateReverted
		}
		return e.done(op, Result{Status: StatusReverted, Appointment: original}, e.writeError("update", err))
	}
	saved = e.localize(saved)
	if _, ok := e.appts[id]; ok {
		e.appts[id] = &entry{appt: saved, state: StateConfirmed}
	}
	return e.done(op, Result{Status: StatusCommitted, Appointment: saved}, nil)
}

// DeleteAppointment removes the appointment unconditionally. For blocked time
// this is an unblock.
func (e *Engine) DeleteAppointment(ctx context.Context, id uuid.UUID) (Result, error) {
	const op = "delete"

	if id == uuid.Nil {
		return e.done(op, Result{Status: StatusRejected}, validationError("appointment_id is required"))
	}

	e.mu.Lock()
	if e.drag != nil && e.drag.AppointmentID == id {
		e.mu.Unlock()
		return e.done(op, Result{Status: StatusRejected}, ErrDragInProgress)
	}
	var removed domain.Appointment
	if en, ok := e.appts[id]; ok {
		removed = en.appt
	}
	e.mu.Unlock()

	e.writeMu.Lock()
	err := e.remove(ctx, id)
	e.writeMu.Unlock()
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return e.done(op, Result{Status: StatusRejected, Appointment: removed}, &RepositoryError{Op: "delete", Err: err})
	}

	e.mu.Lock()
	delete(e.appts, id)
	e.mu.Unlock()
	return e.done(op, Result{Status: StatusCommitted, Appointment: removed}, nil)
}

// placeLocked computes where appt lands for target and checks it against the
// day. The returned appointment keeps appt's duration.
func (e *Engine) placeLocked(appt domain.Appointment, target Target) (domain.Appointment, error) {
	p := ResolveSlot(target.SlotTime.In(e.day.Location()), target.RawOffsetMinutes, e.grid.SlotMinutes)
	if !domain.SameDay(p.Start, e.day) {
		return appt, validationError("target is outside the calendar day")
	}
	if p.Start.Before(e.now()) {
		return appt, ErrPastTime
	}
	if !e.available(target.TeamMemberID, p.Start) {
		return appt, ErrTeamMemberUnavailable
	}

	moved := appt.WithPosition(domain.Position{
		TeamMemberID: target.TeamMemberID,
		StartTime:    p.Start,
		EndTime:      p.Start.Add(appt.Duration()),
	})
	candidate := Interval{TeamMemberID: moved.TeamMemberID, Start: moved.StartTime, End: moved.EndTime}
	if c, ok := FindOverlap(candidate, e.occupiedLocked(), appt.ID); ok {
		return appt, &SlotOccupiedError{Conflict: c}
	}
	return moved, nil
}

func (e *Engine) available(teamMemberID string, at time.Time) bool {
	m, ok := e.roster[teamMemberID]
	return ok && m.WorksOn(at)
}

// bookingsOn returns the bookings to check a new appointment at t against.
func (e *Engine) bookingsOn(ctx context.Context, t time.Time) ([]domain.Appointment, error) {
	if domain.SameDay(t, e.day) {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.occupiedLocked(), nil
	}

	day := domain.StartOfDay(t)
	rows, err := e.list(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, &RepositoryError{Op: "list", Err: err}
	}
	for i := range rows {
		rows[i] = e.localize(rows[i])
	}
	return rows, nil
}

func (e *Engine) listLocked() []domain.Appointment {
	out := make([]domain.Appointment, 0, len(e.appts))
	for _, en := range e.appts {
		out = append(out, en.appt)
	}
	sortAppointments(out)
	return out
}

// occupiedLocked is listLocked plus the drag-start position of the dragged
// appointment, which stays reserved until the drop so a revert can land.
func (e *Engine) occupiedLocked() []domain.Appointment {
	out := e.listLocked()
	if e.drag == nil {
		return out
	}
	en, ok := e.appts[e.drag.AppointmentID]
	if !ok || en.appt.Position().Equal(e.drag.Original) {
		return out
	}
	out = append(out, en.appt.WithPosition(e.drag.Original))
	sortAppointments(out)
	return out
}

func (e *Engine) phaseLocked() Phase {
	switch {
	case e.reverting > 0:
		return PhaseReverting
	case e.drag == nil:
		return PhaseIdle
	case e.drag.inFlight:
		return PhaseAutoCommitting
	default:
		return PhaseDragging
	}
}

func (e *Engine) localize(a domain.Appointment) domain.Appointment {
	loc := e.day.Location()
	a.StartTime = a.StartTime.In(loc)
	a.EndTime = a.EndTime.In(loc)
	return a
}

func (e *Engine) writeError(op string, err error) error {
	if errors.Is(err, store.ErrConflict) {
		return &SlotOccupiedError{}
	}
	return &RepositoryError{Op: op, Err: err}
}

func (e *Engine) done(op string, res Result, err error) (Result, error) {
	e.rec.ObserveOperation(op, string(res.Status))
	return res, err
}

func (e *Engine) record(op string, res Result) Result {
	e.rec.ObserveOperation(op, string(res.Status))
	return res
}

func (e *Engine) list(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	started := time.Now()
	rows, err := e.repo.ListAppointments(ctx, e.shopID, from.UTC(), to.UTC())
	e.rec.ObserveRepository("list", time.Since(started), err)
	return rows, err
}

func (e *Engine) upsert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	started := time.Now()
	saved, err := e.repo.UpsertAppointment(ctx, appt)
	e.rec.ObserveRepository("upsert", time.Since(started), err)
	return saved, err
}

// update rewrites an existing appointment; a missing row is store.ErrNotFound
// and is never re-inserted.
func (e *Engine) update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	started := time.Now()
	saved, err := e.repo.UpdateAppointment(ctx, appt)
	e.rec.ObserveRepository("update", time.Since(started), err)
	return saved, err
}

// forget drops id from memory after the store reported it gone.
func (e *Engine) forget(id uuid.UUID) {
	e.mu.Lock()
	delete(e.appts, id)
	e.mu.Unlock()
}

func (e *Engine) remove(ctx context.Context, id uuid.UUID) error {
	started := time.Now()
	err := e.repo.DeleteAppointment(ctx, id)
	e.rec.ObserveRepository("delete", time.Since(started), err)
	return err
}

func sortAppointments(list []domain.Appointment) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		if a.TeamMemberID != b.TeamMemberID {
			return a.TeamMemberID < b.TeamMemberID
		}
		return a.ID.String() < b.ID.String()
	})
}
