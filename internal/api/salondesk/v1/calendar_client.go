package salondeskv1

import (
	"context"

	"google.golang.org/grpc"
)

type CalendarServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCalendarServiceClient(cc grpc.ClientConnInterface) *CalendarServiceClient {
	return &CalendarServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, name string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CalendarServiceClient) OpenCalendar(ctx context.Context, in *OpenCalendarRequest, opts ...grpc.CallOption) (*OpenCalendarResponse, error) {
	return invoke[OpenCalendarResponse](ctx, c.cc, "OpenCalendar", in, opts)
}

func (c *CalendarServiceClient) CloseCalendar(ctx context.Context, in *CloseCalendarRequest, opts ...grpc.CallOption) (*CloseCalendarResponse, error) {
	return invoke[CloseCalendarResponse](ctx, c.cc, "CloseCalendar", in, opts)
}

func (c *CalendarServiceClient) GetTimeGrid(ctx context.Context, in *GetTimeGridRequest, opts ...grpc.CallOption) (*GetTimeGridResponse, error) {
	return invoke[GetTimeGridResponse](ctx, c.cc, "GetTimeGrid", in, opts)
}

func (c *CalendarServiceClient) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c.cc, "ListAppointments", in, opts)
}

func (c *CalendarServiceClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c.cc, "Refresh", in, opts)
}

func (c *CalendarServiceClient) CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	return invoke[OperationResponse](ctx, c.cc, "CreateAppointment", in, opts)
}

func (c *CalendarServiceClient) MoveAppointment(ctx context.Context, in *MoveAppointmentRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	return invoke[OperationResponse](ctx, c.cc, "MoveAppointment", in, opts)
}

func (c *CalendarServiceClient) BeginDrag(ctx context.Context, in *BeginDragRequest, opts ...grpc.CallOption) (*BeginDragResponse, error) {
	return invoke[BeginDragResponse](ctx, c.cc, "BeginDrag", in, opts)
}

func (c *CalendarServiceClient) AutoUpdate(ctx context.Context, in *AutoUpdateRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	return invoke[OperationResponse](ctx, c.cc, "AutoUpdate", in, opts)
}

func (c *CalendarServiceClient) EndDrag(ctx context.Context, in *EndDragRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	return invoke[OperationResponse](ctx, c.cc, "EndDrag", in, opts)
}

func (c *CalendarServiceClient) CancelDrag(ctx context.Context, in *CancelDragRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	return invoke[OperationResponse](ctx, c.cc, "CancelDrag", in, opts)
}

func (c *CalendarServiceClient) DeleteAppointment(ctx context.Context, in *DeleteAppointmentRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	return invoke[OperationResponse](ctx, c.cc, "DeleteAppointment", in, opts)
}

func (c *CalendarServiceClient) AppointmentAt(ctx context.Context, in *AppointmentAtRequest, opts ...grpc.CallOption) (*AppointmentAtResponse, error) {
	return invoke[AppointmentAtResponse](ctx, c.cc, "AppointmentAt", in, opts)
}
