package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	salondeskv1 "salondesk/backend/internal/api/salondesk/v1"
	"salondesk/backend/internal/calendar"
	"salondesk/backend/internal/domain"
	"salondesk/backend/internal/service/sessions"
)

type CalendarServer struct {
	salondeskv1.UnimplementedCalendarServiceServer

	sessions sessionService
	log      *slog.Logger
}

type sessionService interface {
	Open(ctx context.Context, shopID, date string) (uuid.UUID, *calendar.Engine, error)
	Engine(id uuid.UUID) (*calendar.Engine, error)
	Close(ctx context.Context, id uuid.UUID) error
}

func NewCalendarServer(svc sessionService, log *slog.Logger) *CalendarServer {
	if log == nil {
		log = slog.Default()
	}
	return &CalendarServer{
		sessions: svc,
		log:      log.With(slog.String("component", "grpc.calendar")),
	}
}

func (s *CalendarServer) rpcLogger(ctx context.Context, rpc string) *slog.Logger {
	log := s.log.With(slog.String("rpc", rpc))
	if id := requestID(ctx); id != "" {
		log = log.With(slog.String("request_id", id))
	}
	return log
}

func requestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("x-request-id")
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func (s *CalendarServer) OpenCalendar(ctx context.Context, req *salondeskv1.OpenCalendarRequest) (*salondeskv1.OpenCalendarResponse, error) {
	log := s.rpcLogger(ctx, "OpenCalendar")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, engine, err := s.sessions.Open(ctx, req.ShopID, req.Date)
	if err != nil {
		return nil, statusError(log.With(slog.String("shop_id", req.ShopID)), "calendar open", err)
	}

	snap := engine.Snapshot()
	log.Info(
		"calendar opened",
		slog.String("session_id", id.String()),
		slog.String("shop_id", engine.ShopID()),
		slog.String("date", req.Date),
		slog.Int("appointments", len(snap.Appointments)),
	)

	return &salondeskv1.OpenCalendarResponse{
		SessionID:    id.String(),
		Grid:         toAPIGrid(snap.Grid),
		Roster:       toAPIRoster(snap.Roster),
		Appointments: toAPITracked(snap.Appointments),
	}, nil
}

func (s *CalendarServer) CloseCalendar(ctx context.Context, req *salondeskv1.CloseCalendarRequest) (*salondeskv1.CloseCalendarResponse, error) {
	log := s.rpcLogger(ctx, "CloseCalendar")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseSessionID(log, req.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Close(ctx, id); err != nil {
		return nil, statusError(log.With(slog.String("session_id", id.String())), "calendar close", err)
	}

	log.Info("calendar closed", slog.String("session_id", id.String()))
	return &salondeskv1.CloseCalendarResponse{}, nil
}

func (s *CalendarServer) GetTimeGrid(ctx context.Context, req *salondeskv1.GetTimeGridRequest) (*salondeskv1.GetTimeGridResponse, error) {
	log := s.rpcLogger(ctx, "GetTimeGrid")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}

	return &salondeskv1.GetTimeGridResponse{
		Grid:   toAPIGrid(engine.Grid()),
		Roster: toAPIRoster(engine.Roster()),
	}, nil
}

func (s *CalendarServer) ListAppointments(ctx context.Context, req *salondeskv1.ListAppointmentsRequest) (*salondeskv1.ListAppointmentsResponse, error) {
	log := s.rpcLogger(ctx, "ListAppointments")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}

	snap := engine.Snapshot()
	log.Debug("appointments listed", slog.Int("count", len(snap.Appointments)), slog.String("phase", string(snap.Phase)))
	return toAPISnapshot(snap), nil
}

func (s *CalendarServer) Refresh(ctx context.Context, req *salondeskv1.RefreshRequest) (*salondeskv1.ListAppointmentsResponse, error) {
	log := s.rpcLogger(ctx, "Refresh")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}

	if err := engine.Refresh(ctx); err != nil {
		return nil, statusError(log, "calendar refresh", err)
	}

	snap := engine.Snapshot()
	log.Debug("calendar refreshed", slog.Int("count", len(snap.Appointments)))
	return toAPISnapshot(snap), nil
}

func (s *CalendarServer) CreateAppointment(ctx context.Context, req *salondeskv1.CreateAppointmentRequest) (*salondeskv1.OperationResponse, error) {
	log := s.rpcLogger(ctx, "CreateAppointment")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}

	res, err := engine.CreateAppointment(ctx, calendar.CreateInput{
		TeamMemberID: req.TeamMemberID,
		Type:         domain.AppointmentType(req.Type),
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ServiceID:    req.ServiceID,
		ClientID:     req.ClientID,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, statusError(log.With(
			slog.String("team_member_id", req.TeamMemberID),
			slog.String("date", req.Date),
			slog.String("start_time", req.StartTime),
		), "appointment create", err)
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", res.Appointment.ID.String()),
		slog.String("team_member_id", res.Appointment.TeamMemberID),
		slog.Time("start_time", res.Appointment.StartTime),
		slog.Time("end_time", res.Appointment.EndTime),
	)
	return toAPIResult(res), nil
}

func (s *CalendarServer) MoveAppointment(ctx context.Context, req *salondeskv1.MoveAppointmentRequest) (*salondeskv1.OperationResponse, error) {
	log := s.rpcLogger(ctx, "MoveAppointment")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}
	id, err := parseAppointmentID(log, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	target, err := fromAPITarget(log, req.Target)
	if err != nil {
		return nil, err
	}

	res, err := engine.MoveAppointment(ctx, id, target)
	if err != nil {
		return nil, statusError(log.With(slog.String("appointment_id", id.String())), "appointment move", err)
	}

	log.Info(
		"appointment moved",
		slog.String("appointment_id", id.String()),
		slog.String("team_member_id", res.Appointment.TeamMemberID),
		slog.Time("start_time", res.Appointment.StartTime),
	)
	return toAPIResult(res), nil
}

func (s *CalendarServer) BeginDrag(ctx context.Context, req *salondeskv1.BeginDragRequest) (*salondeskv1.BeginDragResponse, error) {
	log := s.rpcLogger(ctx, "BeginDrag")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}
	id, err := parseAppointmentID(log, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	drag, err := engine.BeginDrag(id)
	if err != nil {
		return nil, statusError(log.With(slog.String("appointment_id", id.String())), "drag begin", err)
	}

	log.Debug("drag started", slog.String("appointment_id", id.String()), slog.Uint64("generation", drag.Generation))
	return &salondeskv1.BeginDragResponse{Drag: toAPIDrag(&drag)}, nil
}

func (s *CalendarServer) AutoUpdate(ctx context.Context, req *salondeskv1.AutoUpdateRequest) (*salondeskv1.OperationResponse, error) {
	log := s.rpcLogger(ctx, "AutoUpdate")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}
	target, err := fromAPITarget(log, req.Target)
	if err != nil {
		return nil, err
	}

	res, err := engine.AutoUpdateDuringDrag(ctx, target)
	if err != nil {
		return nil, statusError(log, "drag auto-update", err)
	}

	log.Debug("drag auto-update", slog.String("status", string(res.Status)))
	return toAPIResult(res), nil
}

func (s *CalendarServer) EndDrag(ctx context.Context, req *salondeskv1.EndDragRequest) (*salondeskv1.OperationResponse, error) {
	log := s.rpcLogger(ctx, "EndDrag")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}
	target, err := fromAPITarget(log, req.Target)
	if err != nil {
		if _, cancelErr := engine.CancelDrag(ctx); cancelErr != nil && !errors.Is(cancelErr, calendar.ErrNoActiveDrag) {
			log.Error("drag cancel after invalid drop failed", slog.Any("err", cancelErr))
		}
		return nil, err
	}

	res, err := engine.EndDrag(ctx, target)
	if err != nil {
		return nil, statusError(log, "drag drop", err)
	}

	log.Info(
		"drag dropped",
		slog.String("appointment_id", res.Appointment.ID.String()),
		slog.String("team_member_id", res.Appointment.TeamMemberID),
		slog.Time("start_time", res.Appointment.StartTime),
	)
	return toAPIResult(res), nil
}

func (s *CalendarServer) CancelDrag(ctx context.Context, req *salondeskv1.CancelDragRequest) (*salondeskv1.OperationResponse, error) {
	log := s.rpcLogger(ctx, "CancelDrag")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}

	res, err := engine.CancelDrag(ctx)
	if err != nil {
		return nil, statusError(log, "drag cancel", err)
	}

	log.Info("drag cancelled", slog.String("appointment_id", res.Appointment.ID.String()))
	return toAPIResult(res), nil
}

func (s *CalendarServer) DeleteAppointment(ctx context.Context, req *salondeskv1.DeleteAppointmentRequest) (*salondeskv1.OperationResponse, error) {
	log := s.rpcLogger(ctx, "DeleteAppointment")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}
	id, err := parseAppointmentID(log, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	res, err := engine.DeleteAppointment(ctx, id)
	if err != nil {
		return nil, statusError(log.With(slog.String("appointment_id", id.String())), "appointment delete", err)
	}

	log.Info("appointment deleted", slog.String("appointment_id", id.String()))
	return toAPIResult(res), nil
}

func (s *CalendarServer) AppointmentAt(ctx context.Context, req *salondeskv1.AppointmentAtRequest) (*salondeskv1.AppointmentAtResponse, error) {
	log := s.rpcLogger(ctx, "AppointmentAt")

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	engine, log, err := s.engine(log, req.SessionID)
	if err != nil {
		return nil, err
	}
	if req.TeamMemberID == "" || req.SlotTime.IsZero() {
		log.Warn("invalid request", slog.String("reason", "missing_cell"))
		return nil, status.Error(codes.InvalidArgument, "team_member_id and slot_time are required")
	}

	appt, ok := engine.AppointmentAt(req.TeamMemberID, req.SlotTime)
	if !ok {
		return &salondeskv1.AppointmentAtResponse{}, nil
	}
	return &salondeskv1.AppointmentAtResponse{Appointment: toAPIAppointment(appt, "")}, nil
}

// engine resolves the session's engine and returns a logger tagged with it.
func (s *CalendarServer) engine(log *slog.Logger, sessionID string) (*calendar.Engine, *slog.Logger, error) {
	id, err := parseSessionID(log, sessionID)
	if err != nil {
		return nil, log, err
	}
	log = log.With(slog.String("session_id", id.String()))

	engine, err := s.sessions.Engine(id)
	if err != nil {
		return nil, log, statusError(log, "session lookup", err)
	}
	return engine, log, nil
}

func parseSessionID(log *slog.Logger, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_session_id"))
		return uuid.Nil, status.Error(codes.InvalidArgument, "session_id must be a UUID")
	}
	return id, nil
}

func parseAppointmentID(log *slog.Logger, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return uuid.Nil, status.Error(codes.InvalidArgument, "appointment_id must be a UUID")
	}
	return id, nil
}

func fromAPITarget(log *slog.Logger, t *salondeskv1.Target) (calendar.Target, error) {
	if t == nil {
		log.Warn("invalid request", slog.String("reason", "missing_target"))
		return calendar.Target{}, status.Error(codes.InvalidArgument, "target is required")
	}
	return calendar.Target{
		TeamMemberID:     t.TeamMemberID,
		SlotTime:         t.SlotTime,
		RawOffsetMinutes: t.RawOffsetMinutes,
	}, nil
}

// statusError maps engine and session errors onto gRPC codes. Business
// rejections are logged at Info, anything unexpected at Error.
func statusError(log *slog.Logger, what string, err error) error {
	var (
		vErr  *calendar.ValidationError
		svErr *sessions.ValidationError
	)
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", slog.Any("err", err))
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.As(err, &svErr):
		log.Warn("invalid request", slog.Any("err", err))
		return status.Error(codes.InvalidArgument, svErr.Error())
	case errors.Is(err, calendar.ErrSlotOccupied):
		log.Info(what+" conflict", slog.Any("err", err))
		return status.Error(codes.FailedPrecondition, "That time is already booked. Pick a different slot.")
	case errors.Is(err, calendar.ErrPastTime):
		log.Info(what+" in the past", slog.Any("err", err))
		return status.Error(codes.FailedPrecondition, "That time has already passed. Pick a later slot.")
	case errors.Is(err, calendar.ErrTeamMemberUnavailable),
		errors.Is(err, calendar.ErrDragInProgress),
		errors.Is(err, calendar.ErrNoActiveDrag),
		errors.Is(err, calendar.ErrWriteInFlight):
		log.Info(what+" rejected", slog.Any("err", err))
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, sessions.ErrSessionNotFound),
		errors.Is(err, sessions.ErrShopNotFound),
		errors.Is(err, calendar.ErrAppointmentNotFound):
		log.Info(what+" not found", slog.Any("err", err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn(what+" timed out", slog.Any("err", err))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	default:
		log.Error(what+" failed", slog.Any("err", err))
		return status.Error(codes.Internal, "internal error")
	}
}
