package salondeskv1

import "time"

type Appointment struct {
	ID           string    `json:"id"`
	ShopID       string    `json:"shop_id"`
	TeamMemberID string    `json:"team_member_id"`
	Type         string    `json:"type"`
	ServiceID    string    `json:"service_id,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	State        string    `json:"state,omitempty"`
}

type TeamMember struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	WorkingDays []int32 `json:"working_days"`
}

type TimeGrid struct {
	Day         string      `json:"day"`
	SlotMinutes int32       `json:"slot_minutes"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Slots       []time.Time `json:"slots"`
}

// Target is a pointer position: team member column, slot under the pointer
// and the offset into that slot in minutes (negative above the cell).
type Target struct {
	TeamMemberID     string    `json:"team_member_id"`
	SlotTime         time.Time `json:"slot_time"`
	RawOffsetMinutes float64   `json:"raw_offset_minutes"`
}

type DragSession struct {
	AppointmentID        string    `json:"appointment_id"`
	Generation           uint64    `json:"generation"`
	OriginalTeamMemberID string    `json:"original_team_member_id"`
	OriginalStartTime    time.Time `json:"original_start_time"`
	OriginalEndTime      time.Time `json:"original_end_time"`
	CurrentTeamMemberID  string    `json:"current_team_member_id"`
	CurrentStartTime     time.Time `json:"current_start_time"`
	CurrentEndTime       time.Time `json:"current_end_time"`
}

type OpenCalendarRequest struct {
	ShopID string `json:"shop_id"`
	Date   string `json:"date"`
}

type OpenCalendarResponse struct {
	SessionID    string         `json:"session_id"`
	Grid         *TimeGrid      `json:"grid"`
	Roster       []*TeamMember  `json:"roster"`
	Appointments []*Appointment `json:"appointments"`
}

type CloseCalendarRequest struct {
	SessionID string `json:"session_id"`
}

type CloseCalendarResponse struct{}

type GetTimeGridRequest struct {
	SessionID string `json:"session_id"`
}

type GetTimeGridResponse struct {
	Grid   *TimeGrid     `json:"grid"`
	Roster []*TeamMember `json:"roster"`
}

type ListAppointmentsRequest struct {
	SessionID string `json:"session_id"`
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Phase        string         `json:"phase"`
	Drag         *DragSession   `json:"drag,omitempty"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
}

type CreateAppointmentRequest struct {
	SessionID    string `json:"session_id"`
	TeamMemberID string `json:"team_member_id"`
	Type         string `json:"type"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time,omitempty"`
	ServiceID    string `json:"service_id,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// OperationResponse carries the outcome of a mutating call.
type OperationResponse struct {
	Status      string       `json:"status"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

type MoveAppointmentRequest struct {
	SessionID     string  `json:"session_id"`
	AppointmentID string  `json:"appointment_id"`
	Target        *Target `json:"target"`
}

type BeginDragRequest struct {
	SessionID     string `json:"session_id"`
	AppointmentID string `json:"appointment_id"`
}

type BeginDragResponse struct {
	Drag *DragSession `json:"drag"`
}

type AutoUpdateRequest struct {
	SessionID string  `json:"session_id"`
	Target    *Target `json:"target"`
}

type EndDragRequest struct {
	SessionID string  `json:"session_id"`
	Target    *Target `json:"target"`
}

type CancelDragRequest struct {
	SessionID string `json:"session_id"`
}

type DeleteAppointmentRequest struct {
	SessionID     string `json:"session_id"`
	AppointmentID string `json:"appointment_id"`
}

type AppointmentAtRequest struct {
	SessionID    string    `json:"session_id"`
	TeamMemberID string    `json:"team_member_id"`
	SlotTime     time.Time `json:"slot_time"`
}

type AppointmentAtResponse struct {
	Appointment *Appointment `json:"appointment,omitempty"`
}
