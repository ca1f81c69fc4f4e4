package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// NewMetricMiddleware records request count, latency and error totals per
// route on the provided meter.
func NewMetricMiddleware(meter metric.Meter) gin.HandlerFunc {

	durationHistogram, _ := meter.Int64Histogram(
		"http.server.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("The latency of HTTP requests."),
	)

	requestCounter, _ := meter.Int64Counter(
		"http.server.requests_total",
		metric.WithDescription("The total number of HTTP requests."),
	)

	errorCounter, _ := meter.Int64Counter(
		"http.server.error_requests_total",
		metric.WithDescription("The total number of failed HTTP requests."),
	)

	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Milliseconds()
		statusCode := c.Writer.Status()

		attributes := []attribute.KeyValue{
			semconv.HTTPRouteKey.String(c.FullPath()),
			semconv.HTTPMethodKey.String(c.Request.Method),
			semconv.HTTPStatusCodeKey.Int(statusCode),
		}

		durationHistogram.Record(c.Request.Context(), duration, metric.WithAttributes(attributes...))
		requestCounter.Add(c.Request.Context(), 1, metric.WithAttributes(attributes...))

		if statusCode >= 400 {
			errorCounter.Add(c.Request.Context(), 1, metric.WithAttributes(attributes...))
		}
	}
}

// SweepMetrics exposes counters the sweep handler records outcomes on.
type SweepMetrics struct {
	FeesApplied  metric.Int64Counter
	LoansSkipped metric.Int64Counter
	LoanErrors   metric.Int64Counter
}

func NewSweepMetrics(meter metric.Meter) *SweepMetrics {
	feesApplied, _ := meter.Int64Counter(
		"delinquency.sweep.fees_applied_total",
		metric.WithDescription("Late fees applied across all sweep invocations."),
	)
	loansSkipped, _ := meter.Int64Counter(
		"delinquency.sweep.loans_skipped_total",
		metric.WithDescription("Loans skipped as not overdue or already carrying a fee."),
	)
	loanErrors, _ := meter.Int64Counter(
		"delinquency.sweep.loan_errors_total",
		metric.WithDescription("Loans whose sweep iteration failed."),
	)
	return &SweepMetrics{
		FeesApplied:  feesApplied,
		LoansSkipped: loansSkipped,
		LoanErrors:   loanErrors,
	}
}
