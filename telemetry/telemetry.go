package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/awantoch/sitefn/config"
	"github.com/awantoch/sitefn/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitefn_http_requests_total",
			Help: "Total number of HTTP requests received.",
		},
		[]string{"handler", "method", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitefn_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

// provider is the tracer provider installed by Init, nil when tracing is off.
var provider struct {
	sync.RWMutex
	tp *sdktrace.TracerProvider
}

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration)
}

// Init installs a tracer provider for the configured exporter ("none",
// "stdout" or "otlp") and returns its shutdown func.
func Init(cfg *config.Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	provider.Lock()
	provider.tp = nil
	provider.Unlock()
	tc := cfg.Tracing
	if tc.Exporter == "" || tc.Exporter == constants.TracingExporterNone {
		return noop, nil
	}

	serviceName := tc.ServiceName
	if serviceName == "" {
		serviceName = constants.ServiceName
	}
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return noop, err
	}

	var exp sdktrace.SpanExporter
	switch tc.Exporter {
	case constants.TracingExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case constants.TracingExporterOTLP:
		var opts []otlptracehttp.Option
		if tc.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(tc.Endpoint))
		}
		exp, err = otlptracehttp.New(context.Background(), opts...)
	default:
		return noop, fmt.Errorf("unsupported tracing exporter: %s", tc.Exporter)
	}
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	provider.Lock()
	provider.tp = tp
	provider.Unlock()
	return tp.Shutdown, nil
}

// Flush exports spans still buffered by the batcher. Function hosts may freeze
// the process between invocations, so the serverless entry flushes after each
// request.
func Flush(ctx context.Context) error {
	provider.RLock()
	tp := provider.tp
	provider.RUnlock()
	if tp == nil {
		return nil
	}
	return tp.ForceFlush(ctx)
}

// WrapHandler applies tracing, Prometheus metrics, and otelhttp middleware.
func WrapHandler(name string, next http.Handler) http.Handler {
	h := otelhttp.NewHandler(next, name)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rw, r)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(name, r.Method, fmt.Sprintf("%d", rw.status)).Inc()
		httpRequestDuration.WithLabelValues(name, r.Method).Observe(dur)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// MetricsHandler returns the Prometheus metrics endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
