package publisher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	publishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_center",
		Subsystem: "publisher",
		Name:      "events_published_total",
		Help:      "Number of events successfully written to Kafka.",
	}, []string{"topic", "event_type"})

	failedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_center",
		Subsystem: "publisher",
		Name:      "events_failed_total",
		Help:      "Number of events that could not be written to Kafka.",
	}, []string{"topic", "event_type"})

	publishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fitness_center",
		Subsystem: "publisher",
		Name:      "publish_duration_seconds",
		Help:      "Time spent resolving schemas and writing a single event.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(publishedCounter, failedCounter, publishDuration)
}

func recordPublished(topic, eventType string, elapsed time.Duration) {
	publishedCounter.WithLabelValues(topic, eventType).Inc()
	publishDuration.Observe(elapsed.Seconds())
}

func recordFailed(topic, eventType string) {
	failedCounter.WithLabelValues(topic, eventType).Inc()
}
