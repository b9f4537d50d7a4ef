package calendar

import (
	"time"

	"salondesk/backend/internal/domain"
)

// Status is the outcome of an engine operation.
type Status string

const (
	// StatusCommitted: the new state is persisted and confirmed.
	StatusCommitted Status = "committed"
	// StatusSpeculative: a live drag position was persisted but the drop has
	// not happened yet.
	StatusSpeculative Status = "speculative"
	// StatusDeferred: another auto-update was in flight; this target runs when
	// it finishes unless a newer one replaces it.
	StatusDeferred Status = "deferred"
	// StatusSkipped: nothing to do (same position, conflict or past during a
	// live drag).
	StatusSkipped Status = "skipped"
	// StatusReverted: the appointment was put back where it was.
	StatusReverted Status = "reverted"
	// StatusRejected: the operation failed before touching anything.
	StatusRejected Status = "rejected"
	// StatusDiscarded: the drag ended before the response arrived.
	StatusDiscarded Status = "discarded"
)

// Result is returned by every engine operation; the caller decides how to
// present it.
type Result struct {
	Status      Status
	Appointment domain.Appointment
}

// ReconcileState tracks whether the in-memory copy of an appointment matches
// the store.
type ReconcileState string

const (
	StateConfirmed   ReconcileState = "confirmed"
	StateSpeculative ReconcileState = "speculative"
	StateReverted    ReconcileState = "reverted"
)

type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseDragging       Phase = "dragging"
	PhaseAutoCommitting Phase = "auto_committing"
	PhaseReverting      Phase = "reverting"
)

type Tracked struct {
	Appointment domain.Appointment
	State       ReconcileState
}

// Snapshot is everything a renderer needs to draw the day.
type Snapshot struct {
	Grid         TimeGrid
	Roster       []domain.TeamMember
	Appointments []Tracked
	Phase        Phase
	Drag         *DragSession
	TakenAt      time.Time
}

// Recorder receives operation outcomes. internal/metrics provides the
// Prometheus implementation.
type Recorder interface {
	ObserveOperation(op, status string)
	ObserveRepository(op string, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string) {}
func (nopRecorder) ObserveRepository(string, time.Duration, error) {}
