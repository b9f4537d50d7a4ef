package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_CountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "salondesk")

	c.ObserveOperation("end_drag", "reverted")
	c.ObserveOperation("end_drag", "reverted")
	c.ObserveOperation("auto_update", "deferred")

	assert.Equal(t, 2.0, counterValue(t, c.OperationsTotal.WithLabelValues("end_drag", "reverted")))
	assert.Equal(t, 1.0, counterValue(t, c.OperationsTotal.WithLabelValues("auto_update", "deferred")))
}

func TestCollector_RepositoryResultLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "salondesk")

	c.ObserveRepository("upsert", 3*time.Millisecond, nil)
	c.ObserveRepository("upsert", 5*time.Millisecond, errors.New("boom"))

	families, err := reg.Gather()
	require.NoError(t, err)
	var series int
	for _, f := range families {
		if f.GetName() == "salondesk_calendar_repository_duration_seconds" {
			series = len(f.GetMetric())
		}
	}
	assert.Equal(t, 2, series)
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "salondesk")
	c.ObserveRPC("/salondesk.v1.CalendarService/EndDrag", "OK", 10*time.Millisecond)
	c.OpenSessions.Set(3)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `salondesk_grpc_requests_total{code="OK",method="/salondesk.v1.CalendarService/EndDrag"} 1`))
	assert.True(t, strings.Contains(body, "salondesk_calendar_open_sessions 3"))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
