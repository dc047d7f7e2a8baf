package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	namespace = "tagteam"

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	inferenceStageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_stage_total",
			Help:      "Number of inference stage calls",
		},
		[]string{"stage", "status"},
	)

	inferenceStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_stage_duration_seconds",
			Help:      "Inference stage call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage", "status"},
	)

	uploadPreprocessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_preprocess_total",
			Help:      "Number of preprocessed uploads",
		},
		[]string{"status", "media_type"},
	)

	uploadPreprocessDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_preprocess_duration_seconds",
			Help:      "Upload preprocessing duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"media_type"},
	)
)

func HttpRequestsTotal(method, path, code string) {
	httpRequestsTotal.With(prometheus.Labels{
		"method": method,
		"path":   path,
		"code":   code,
	}).Inc()
}

func HttpRequestDuration(method, path string, duration time.Duration) {
	httpRequestDuration.With(prometheus.Labels{
		"method": method,
		"path":   path,
	}).Observe(duration.Seconds())
}

func InferenceStage(stage, status string, duration time.Duration) {
	labels := prometheus.Labels{
		"stage":  stage,
		"status": status,
	}
	inferenceStageTotal.With(labels).Inc()
	inferenceStageDuration.With(labels).Observe(duration.Seconds())
}

func UploadPreprocess(status, mediaType string) {
	uploadPreprocessTotal.With(prometheus.Labels{
		"status":     status,
		"media_type": mediaType,
	}).Inc()
}

func UploadPreprocessDuration(mediaType string, duration time.Duration) {
	uploadPreprocessDuration.With(prometheus.Labels{
		"media_type": mediaType,
	}).Observe(duration.Seconds())
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusResponseWriter{w, 200}
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		HttpRequestsTotal(r.Method, r.URL.Path, strconv.Itoa(ww.status))
		HttpRequestDuration(r.Method, r.URL.Path, duration)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
