package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	memberPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness_center",
		Subsystem: "persistence",
		Name:      "last_member_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent member insert or update.",
	})
	workoutPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness_center",
		Subsystem: "persistence",
		Name:      "last_workout_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout session insert.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_center",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitness_center",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(memberPersistGauge, workoutPersistGauge, httpRequests, httpDuration)
}

// RecordMemberPersisted updates the member write watermark.
func RecordMemberPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	memberPersistGauge.Set(float64(ts.Unix()))
}

// RecordWorkoutPersisted updates the workout write watermark.
func RecordWorkoutPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	workoutPersistGauge.Set(float64(ts.Unix()))
}

// ObserveHTTPRequest records one handled request. route should be the matched pattern,
// not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
