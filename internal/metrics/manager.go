package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Namespace = "liftlog"
	Subsystem = "api"
)

type Manager struct {
	// counters
	CounterRequests        *prometheus.CounterVec
	CounterWorkoutsSaved   prometheus.Counter
	CounterCatalogSearches *prometheus.CounterVec
	CounterMirrorFailures  *prometheus.CounterVec

	// gauges
	GaugeActiveSessions prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

func NewTestManager() *Manager {
	return NewManager(Namespace, "test_server", prometheus.NewRegistry())
}

// NewManager registers every collector on reg. reg must also be a
// prometheus.Gatherer for Handler to serve it.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	m := &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "route", "status"}),
		CounterWorkoutsSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workouts_saved",
			Help:      "The total number of completed workouts written to the backend",
		}),
		CounterCatalogSearches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "catalog_searches",
			Help:      "Catalog searches by source and outcome",
		}, []string{"source", "outcome"}),
		CounterMirrorFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mirror_failures",
			Help:      "Failed writes of local state to the remote backend",
		}, []string{"kind"}),
		GaugeActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_sessions",
			Help:      "Workout sessions currently in progress",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Middleware counts and times every request by its route pattern.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HistRequestDuration.WithLabelValues(route).Observe(time.Since(begin).Seconds())
		m.CounterRequests.With(prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// CatalogSearch records the outcome of one search.
func (m *Manager) CatalogSearch(source string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.CounterCatalogSearches.WithLabelValues(source, outcome).Inc()
}

// WorkoutSaved counts one successful workout insert.
func (m *Manager) WorkoutSaved() {
	if m == nil {
		return
	}
	m.CounterWorkoutsSaved.Inc()
}

// MirrorFailed counts one failed backend mirror write.
func (m *Manager) MirrorFailed(kind string) {
	if m == nil {
		return
	}
	m.CounterMirrorFailures.WithLabelValues(kind).Inc()
}

// SessionsActive sets the in-progress session gauge.
func (m *Manager) SessionsActive(n int) {
	if m == nil {
		return
	}
	m.GaugeActiveSessions.Set(float64(n))
}
