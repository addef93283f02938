// Package metrics provides Prometheus metrics for the tray publisher.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shelepuginivan/trayitem"
)

// Metrics holds all Prometheus metrics of a published tray item. It
// implements [trayitem.Observer].
type Metrics struct {
	// Bus metrics
	MethodCalls *prometheus.CounterVec
	Signals     *prometheus.CounterVec
	SignalErrs  *prometheus.CounterVec

	// Watcher metrics
	Registrations *prometheus.CounterVec

	// Menu metrics
	MenuClicks *prometheus.CounterVec

	registry *prometheus.Registry
}

var _ trayitem.Observer = (*Metrics)(nil)

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.MethodCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traypub_method_calls_total",
			Help: "Total number of inbound D-Bus method calls",
		},
		[]string{"interface", "method"},
	)

	m.Signals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traypub_signals_total",
			Help: "Total number of emitted D-Bus signals",
		},
		[]string{"interface", "signal"},
	)

	m.SignalErrs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traypub_signal_errors_total",
			Help: "Total number of D-Bus signals that failed to be emitted",
		},
		[]string{"interface", "signal"},
	)

	m.Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traypub_watcher_registrations_total",
			Help: "Total number of StatusNotifierWatcher registration attempts",
		},
		[]string{"result"},
	)

	m.MenuClicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traypub_menu_clicks_total",
			Help: "Total number of menu item clicks",
		},
		[]string{"action"},
	)

	m.registry.MustRegister(
		m.MethodCalls,
		m.Signals,
		m.SignalErrs,
		m.Registrations,
		m.MenuClicks,
	)

	m.registry.MustRegister(prometheus.NewGoCollector())
	m.registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	return m
}

// MethodCalled counts an inbound method call.
func (m *Metrics) MethodCalled(iface, method string) {
	m.MethodCalls.WithLabelValues(iface, method).Inc()
}

// SignalEmitted counts an emitted signal, and a failure if err is not nil.
func (m *Metrics) SignalEmitted(iface, signal string, err error) {
	if err != nil {
		m.SignalErrs.WithLabelValues(iface, signal).Inc()
		return
	}
	m.Signals.WithLabelValues(iface, signal).Inc()
}

// WatcherRegistration counts a registration attempt.
func (m *Metrics) WatcherRegistration(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.Registrations.WithLabelValues(result).Inc()
}

// RecordClick counts a menu click dispatched to action.
func (m *Metrics) RecordClick(action string) {
	m.MenuClicks.WithLabelValues(action).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
