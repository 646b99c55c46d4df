package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userapi_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "userapi_http_request_duration_seconds",
		Help:    "Histogram of HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	authFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userapi_auth_failures_total",
		Help: "Total number of rejected logins and bearer tokens by reason",
	}, []string{"reason"})
)

// observeRequest records count and latency per matched route.
func observeRequest(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := routeLabel(c)
	httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
}

func recordAuthFailure(reason string) {
	authFailuresTotal.WithLabelValues(reason).Inc()
}
