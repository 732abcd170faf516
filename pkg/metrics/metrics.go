package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mdpad", Name: "rate_limit_allowed_total", Help: "Number of admitted requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mdpad", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "mdpad", Name: "documents_created_total", Help: "Number of documents created."},
	)
	DocumentsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "mdpad", Name: "documents_updated_total", Help: "Number of successful document updates."},
	)
	DocumentsViewed = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "mdpad", Name: "documents_viewed_total", Help: "Number of public document reads."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentsCreated)
	reg.MustRegister(DocumentsUpdated)
	reg.MustRegister(DocumentsViewed)
}
