package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	lifecycleDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lifecycle_user_deletes_total", Help: "Count of user delete operations"},
		[]string{"kind"}, // soft / hard
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency, lifecycleDeletes) }

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		httpReqTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// CountDelete 删除生命周期操作的计数入口，handler 成功路径调用
func CountDelete(kind string) { lifecycleDeletes.WithLabelValues(kind).Inc() }
