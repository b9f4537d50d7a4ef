package grpc

import (
	"time"

	salondeskv1 "salondesk/backend/internal/api/salondesk/v1"
	"salondesk/backend/internal/calendar"
	"salondesk/backend/internal/domain"
)

func toAPIAppointment(a domain.Appointment, state calendar.ReconcileState) *salondeskv1.Appointment {
	return &salondeskv1.Appointment{
		ID:           a.ID.String(),
		ShopID:       a.ShopID,
		TeamMemberID: a.TeamMemberID,
		Type:         string(a.Type),
		ServiceID:    a.ServiceID,
		ClientID:     a.ClientID,
		Notes:        a.Notes,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		State:        string(state),
	}
}

func toAPITracked(list []calendar.Tracked) []*salondeskv1.Appointment {
	out := make([]*salondeskv1.Appointment, 0, len(list))
	for _, t := range list {
		out = append(out, toAPIAppointment(t.Appointment, t.State))
	}
	return out
}

func toAPIGrid(g calendar.TimeGrid) *salondeskv1.TimeGrid {
	return &salondeskv1.TimeGrid{
		Day:         g.Day.Format(domain.DateFormat),
		SlotMinutes: int32(g.SlotMinutes),
		Start:       g.Start,
		End:         g.End,
		Slots:       append([]time.Time(nil), g.Slots...),
	}
}

func toAPIRoster(roster []domain.TeamMember) []*salondeskv1.TeamMember {
	out := make([]*salondeskv1.TeamMember, 0, len(roster))
	for _, m := range roster {
		days := make([]int32, 0, len(m.WorkingDays))
		for _, d := range m.WorkingDays {
			days = append(days, int32(d))
		}
		out = append(out, &salondeskv1.TeamMember{ID: m.ID, Name: m.Name, WorkingDays: days})
	}
	return out
}

func toAPIDrag(d *calendar.DragSession) *salondeskv1.DragSession {
	if d == nil {
		return nil
	}
	return &salondeskv1.DragSession{
		AppointmentID:        d.AppointmentID.String(),
		Generation:           d.Generation,
		OriginalTeamMemberID: d.Original.TeamMemberID,
		OriginalStartTime:    d.Original.StartTime,
		OriginalEndTime:      d.Original.EndTime,
		CurrentTeamMemberID:  d.Current.TeamMemberID,
		CurrentStartTime:     d.Current.StartTime,
		CurrentEndTime:       d.Current.EndTime,
	}
}

func toAPISnapshot(s calendar.Snapshot) *salondeskv1.ListAppointmentsResponse {
	return &salondeskv1.ListAppointmentsResponse{
		Appointments: toAPITracked(s.Appointments),
		Phase:        string(s.Phase),
		Drag:         toAPIDrag(s.Drag),
	}
}

func toAPIResult(r calendar.Result) *salondeskv1.OperationResponse {
	out := &salondeskv1.OperationResponse{Status: string(r.Status)}
	if !r.Appointment.StartTime.IsZero() {
		out.Appointment = toAPIAppointment(r.Appointment, "")
	}
	return out
}
