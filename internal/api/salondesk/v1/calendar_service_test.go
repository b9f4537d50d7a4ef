package salondeskv1

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type openOnlyServer struct {
	UnimplementedCalendarServiceServer
	got *OpenCalendarRequest
}

func (s *openOnlyServer) OpenCalendar(ctx context.Context, req *OpenCalendarRequest) (*OpenCalendarResponse, error) {
	s.got = req
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return &OpenCalendarResponse{
		SessionID: "session-1",
		Grid: &TimeGrid{
			Day:         "2026-01-05",
			SlotMinutes: 30,
			Start:       day.Add(9 * time.Hour),
			End:         day.Add(10 * time.Hour),
			Slots:       []time.Time{day.Add(9 * time.Hour), day.Add(9*time.Hour + 30*time.Minute), day.Add(10 * time.Hour)},
		},
		Roster: []*TeamMember{{ID: "tm1", Name: "Ada", WorkingDays: []int32{1, 2, 3}}},
	}, nil
}

func dialServer(t *testing.T, srv CalendarServiceServer, opts ...grpc.ServerOption) *CalendarServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterCalendarServiceServer(s, srv)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewCalendarServiceClient(conn)
}

func TestCalendarService_RoundTripsJSON(t *testing.T) {
	srv := &openOnlyServer{}
	var fullMethod string
	client := dialServer(t, srv, grpc.UnaryInterceptor(
		func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			fullMethod = info.FullMethod
			return handler(ctx, req)
		},
	))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.OpenCalendar(ctx, &OpenCalendarRequest{ShopID: "shop1", Date: "2026-01-05"})
	require.NoError(t, err)

	assert.Equal(t, "/salondesk.v1.CalendarService/OpenCalendar", fullMethod)
	require.NotNil(t, srv.got)
	assert.Equal(t, "shop1", srv.got.ShopID)
	assert.Equal(t, "2026-01-05", srv.got.Date)

	assert.Equal(t, "session-1", resp.SessionID)
	require.NotNil(t, resp.Grid)
	assert.Len(t, resp.Grid.Slots, 3)
	assert.True(t, resp.Grid.Start.Equal(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)))
	require.Len(t, resp.Roster, 1)
	assert.Equal(t, []int32{1, 2, 3}, resp.Roster[0].WorkingDays)
}

func TestCalendarService_UnimplementedMethods(t *testing.T) {
	client := dialServer(t, &openOnlyServer{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.BeginDrag(ctx, &BeginDragRequest{SessionID: "s", AppointmentID: "a"})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestJSONCodec_EmptyPayload(t *testing.T) {
	var req CloseCalendarRequest
	require.NoError(t, jsonCodec{}.Unmarshal(nil, &req))
	assert.Equal(t, "", req.SessionID)
	assert.Equal(t, "json", jsonCodec{}.Name())
}
