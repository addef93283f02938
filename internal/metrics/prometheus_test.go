package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	require.NotNil(t, m)
	assert.NotNil(t, m.MethodCalls)
	assert.NotNil(t, m.Signals)
	assert.NotNil(t, m.SignalErrs)
	assert.NotNil(t, m.Registrations)
	assert.NotNil(t, m.MenuClicks)
	assert.NotNil(t, m.Registry())
}

func TestMetrics_MethodCalled(t *testing.T) {
	m := New()

	m.MethodCalled("com.canonical.dbusmenu", "GetLayout")
	m.MethodCalled("com.canonical.dbusmenu", "GetLayout")
	m.MethodCalled("org.kde.StatusNotifierItem", "Activate")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MethodCalls.WithLabelValues("com.canonical.dbusmenu", "GetLayout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MethodCalls.WithLabelValues("org.kde.StatusNotifierItem", "Activate")))
}

func TestMetrics_SignalEmitted(t *testing.T) {
	m := New()

	m.SignalEmitted("org.kde.StatusNotifierItem", "NewTitle", nil)
	m.SignalEmitted("org.kde.StatusNotifierItem", "NewTitle", errors.New("broken pipe"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Signals.WithLabelValues("org.kde.StatusNotifierItem", "NewTitle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignalErrs.WithLabelValues("org.kde.StatusNotifierItem", "NewTitle")))
}

func TestMetrics_WatcherRegistration(t *testing.T) {
	m := New()

	m.WatcherRegistration(errors.New("no watcher"))
	m.WatcherRegistration(errors.New("no watcher"))
	m.WatcherRegistration(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Registrations.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues("success")))
}

func TestMetrics_RecordClick(t *testing.T) {
	m := New()

	m.RecordClick("count")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MenuClicks.WithLabelValues("count")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.MenuClicks))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.MethodCalled("org.kde.StatusNotifierItem", "Activate")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "traypub_method_calls_total")
	assert.Contains(t, string(body), `method="Activate"`)
}
