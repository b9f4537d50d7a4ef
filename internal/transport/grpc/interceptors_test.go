package grpc

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type rpcCall struct {
	method, code string
}

type fakeRPCObserver struct {
	calls []rpcCall
}

func (f *fakeRPCObserver) ObserveRPC(method, code string, elapsed time.Duration) {
	f.calls = append(f.calls, rpcCall{method: method, code: code})
}

func TestMetricsInterceptor_RecordsMethodAndCode(t *testing.T) {
	obs := &fakeRPCObserver{}
	ic := MetricsInterceptor(obs)
	info := &grpc.UnaryServerInfo{FullMethod: "/salondesk.v1.CalendarService/EndDrag"}

	_, _ = ic(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	_, _ = ic(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.FailedPrecondition, "occupied")
	})

	want := []rpcCall{
		{method: "EndDrag", code: "OK"},
		{method: "EndDrag", code: "FailedPrecondition"},
	}
	if len(obs.calls) != len(want) {
		t.Fatalf("calls = %+v, want %+v", obs.calls, want)
	}
	for i := range want {
		if obs.calls[i] != want[i] {
			t.Fatalf("call %d = %+v, want %+v", i, obs.calls[i], want[i])
		}
	}
}

func TestDefaultRequestTimeoutInterceptor(t *testing.T) {
	ic := DefaultRequestTimeoutInterceptor(time.Minute)
	info := &grpc.UnaryServerInfo{FullMethod: "/salondesk.v1.CalendarService/ListAppointments"}

	var deadline time.Time
	_, _ = ic(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		deadline, _ = ctx.Deadline()
		return nil, nil
	})
	if deadline.IsZero() {
		t.Fatalf("expected a deadline to be set")
	}

	own, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	want, _ := own.Deadline()
	_, _ = ic(own, nil, info, func(ctx context.Context, req any) (any, error) {
		deadline, _ = ctx.Deadline()
		return nil, nil
	})
	if !deadline.Equal(want) {
		t.Fatalf("deadline = %v, want caller's %v", deadline, want)
	}
}
