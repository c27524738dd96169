package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	pageReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafelist",
			Name:      "http_requests_total",
			Help:      "Requests served, by route/method/status",
		},
		[]string{"route", "method", "status"},
	)
	pageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cafelist",
			Name:      "http_request_duration_seconds",
			Help:      "Request latency, by route/method",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	pageInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cafelist",
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being handled",
		},
	)
)

func init() { prometheus.MustRegister(pageReqTotal, pageLatency, pageInFlight) }

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		pageInFlight.Inc()
		c.Next()
		pageInFlight.Dec()

		// 未命中路由时 FullPath 为空，避免把任意 404 路径当 label
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		pageReqTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		pageLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
