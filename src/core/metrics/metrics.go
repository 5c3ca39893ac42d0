package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	TogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_toggles_total",
			Help: "Total number of ledger toggles",
		},
		[]string{"kind", "state"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications written",
		},
		[]string{"kind"},
	)

	NotificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Notification writes abandoned after retries",
		},
	)

	FeedRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of feed fetches",
		},
		[]string{"feed"},
	)

	PostsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total number of posts published",
		},
	)
)

func init() {
	prometheus.MustRegister(
		TogglesTotal,
		NotificationsTotal,
		NotificationFailures,
		FeedRequestsTotal,
		PostsCreatedTotal,
	)
}

// Serve exposes /metrics on its own listener, off the API port.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("metrics listener stopped: %v", err)
	}
}
