package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 评分计算耗时（不含缓存命中）
	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_computation_duration_seconds",
			Help:    "Duration of scoring engine computations",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	ScoringCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_cache_lookups_total",
			Help: "Scoring result cache lookups by outcome",
		},
		[]string{"operation", "result"},
	)

	ScoredRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_input_records_total",
			Help: "Evaluation records fed into the scoring engine",
		},
		[]string{"operation"},
	)

	UnmappedExportAreas = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "xade_export_unmapped_areas_total",
			Help: "Curriculum areas left out of XADE exports because no column matched",
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(ScoringDuration)
		prometheus.MustRegister(ScoringCache)
		prometheus.MustRegister(ScoredRecords)
		prometheus.MustRegister(UnmappedExportAreas)
	})
}

// ObserveScoring records one engine run.
func ObserveScoring(operation string, records int, start time.Time) {
	ScoringDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	ScoredRecords.WithLabelValues(operation).Add(float64(records))
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
