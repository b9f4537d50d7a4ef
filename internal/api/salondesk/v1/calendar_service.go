package salondeskv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "salondesk.v1.CalendarService"

type CalendarServiceServer interface {
	OpenCalendar(context.Context, *OpenCalendarRequest) (*OpenCalendarResponse, error)
	CloseCalendar(context.Context, *CloseCalendarRequest) (*CloseCalendarResponse, error)
	GetTimeGrid(context.Context, *GetTimeGridRequest) (*GetTimeGridResponse, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	Refresh(context.Context, *RefreshRequest) (*ListAppointmentsResponse, error)
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*OperationResponse, error)
	MoveAppointment(context.Context, *MoveAppointmentRequest) (*OperationResponse, error)
	BeginDrag(context.Context, *BeginDragRequest) (*BeginDragResponse, error)
	AutoUpdate(context.Context, *AutoUpdateRequest) (*OperationResponse, error)
	EndDrag(context.Context, *EndDragRequest) (*OperationResponse, error)
	CancelDrag(context.Context, *CancelDragRequest) (*OperationResponse, error)
	DeleteAppointment(context.Context, *DeleteAppointmentRequest) (*OperationResponse, error)
	AppointmentAt(context.Context, *AppointmentAtRequest) (*AppointmentAtResponse, error)
}

// UnimplementedCalendarServiceServer can be embedded to keep servers
// compiling when methods are added.
type UnimplementedCalendarServiceServer struct{}

func (UnimplementedCalendarServiceServer) OpenCalendar(context.Context, *OpenCalendarRequest) (*OpenCalendarResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method OpenCalendar not implemented")
}
func (UnimplementedCalendarServiceServer) CloseCalendar(context.Context, *CloseCalendarRequest) (*CloseCalendarResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseCalendar not implemented")
}
func (UnimplementedCalendarServiceServer) GetTimeGrid(context.Context, *GetTimeGridRequest) (*GetTimeGridResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTimeGrid not implemented")
}
func (UnimplementedCalendarServiceServer) ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAppointments not implemented")
}
func (UnimplementedCalendarServiceServer) Refresh(context.Context, *RefreshRequest) (*ListAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}
func (UnimplementedCalendarServiceServer) CreateAppointment(context.Context, *CreateAppointmentRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAppointment not implemented")
}
func (UnimplementedCalendarServiceServer) MoveAppointment(context.Context, *MoveAppointmentRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MoveAppointment not implemented")
}
func (UnimplementedCalendarServiceServer) BeginDrag(context.Context, *BeginDragRequest) (*BeginDragResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method BeginDrag not implemented")
}
func (UnimplementedCalendarServiceServer) AutoUpdate(context.Context, *AutoUpdateRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AutoUpdate not implemented")
}
func (UnimplementedCalendarServiceServer) EndDrag(context.Context, *EndDragRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EndDrag not implemented")
}
func (UnimplementedCalendarServiceServer) CancelDrag(context.Context, *CancelDragRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelDrag not implemented")
}
func (UnimplementedCalendarServiceServer) DeleteAppointment(context.Context, *DeleteAppointmentRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteAppointment not implemented")
}
func (UnimplementedCalendarServiceServer) AppointmentAt(context.Context, *AppointmentAtRequest) (*AppointmentAtResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AppointmentAt not implemented")
}

func RegisterCalendarServiceServer(s grpc.ServiceRegistrar, srv CalendarServiceServer) {
	s.RegisterService(&CalendarService_ServiceDesc, srv)
}

var CalendarService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalendarServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "OpenCalendar", Handler: unary("OpenCalendar", CalendarServiceServer.OpenCalendar)},
		{MethodName: "CloseCalendar", Handler: unary("CloseCalendar", CalendarServiceServer.CloseCalendar)},
		{MethodName: "GetTimeGrid", Handler: unary("GetTimeGrid", CalendarServiceServer.GetTimeGrid)},
		{MethodName: "ListAppointments", Handler: unary("ListAppointments", CalendarServiceServer.ListAppointments)},
		{MethodName: "Refresh", Handler: unary("Refresh", CalendarServiceServer.Refresh)},
		{MethodName: "CreateAppointment", Handler: unary("CreateAppointment", CalendarServiceServer.CreateAppointment)},
		{MethodName: "MoveAppointment", Handler: unary("MoveAppointment", CalendarServiceServer.MoveAppointment)},
		{MethodName: "BeginDrag", Handler: unary("BeginDrag", CalendarServiceServer.BeginDrag)},
		{MethodName: "AutoUpdate", Handler: unary("AutoUpdate", CalendarServiceServer.AutoUpdate)},
		{MethodName: "EndDrag", Handler: unary("EndDrag", CalendarServiceServer.EndDrag)},
		{MethodName: "CancelDrag", Handler: unary("CancelDrag", CalendarServiceServer.CancelDrag)},
		{MethodName: "DeleteAppointment", Handler: unary("DeleteAppointment", CalendarServiceServer.DeleteAppointment)},
		{MethodName: "AppointmentAt", Handler: unary("AppointmentAt", CalendarServiceServer.AppointmentAt)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "salondesk/v1/calendar.json",
}

func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary[Req, Resp any](name string, call func(CalendarServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := FullMethod(name)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CalendarServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CalendarServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
