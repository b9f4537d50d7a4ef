package calendar

import (
	"errors"
	"fmt"

	"salondesk/backend/internal/domain"
)

var (
	ErrSlotOccupied          = errors.New("slot is occupied")
	ErrPastTime              = errors.New("start time is in the past")
	ErrTeamMemberUnavailable = errors.New("team member is not available on this date")
	ErrDragInProgress        = errors.New("another appointment is being dragged")
	ErrNoActiveDrag          = errors.New("no drag in progress")
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrWriteInFlight         = errors.New("appointment is still being saved")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// SlotOccupiedError reports the booking that blocked an operation. Conflict is
// zero when the store rejected the write without naming the other booking.
type SlotOccupiedError struct {
	Conflict domain.Appointment
}

func (e *SlotOccupiedError) Error() string {
	if e.Conflict.TeamMemberID == "" {
		return ErrSlotOccupied.Error()
	}
	return fmt.Sprintf("%s: team member %s is booked %s-%s",
		ErrSlotOccupied,
		e.Conflict.TeamMemberID,
		e.Conflict.StartTime.Format(domain.TimeFormat),
		e.Conflict.EndTime.Format(domain.TimeFormat),
	)
}

func (e *SlotOccupiedError) Is(target error) bool {
	return target == ErrSlotOccupied
}

// RepositoryError wraps a failed call to the appointment store.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return "repository " + e.Op + ": " + e.Err.Error()
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
