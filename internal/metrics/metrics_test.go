package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New()
	m.EventDispatched("incident.created", "processed")
	m.EventDispatched("incident.created", "processed")
	m.NotificationsQueued("email", 3)
	m.EmailDelivered("sent")
	m.EmailDelivered("failed")
	m.DrainCompleted(1500*time.Millisecond, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("incident.created", "processed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.queued.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emails.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.drainRuns.WithLabelValues("ok")))
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.NotificationsQueued("in_app", 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `carehome_notifications_queued_total{channel="in_app"} 2`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
