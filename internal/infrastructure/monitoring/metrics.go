package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	LoansCreatedTotal          *prometheus.CounterVec
	LoansReopenedTotal         prometheus.Counter
	LateLoanNotificationsTotal *prometheus.CounterVec
	LateLoanRecipientsNotified prometheus.Counter
	MailRequestsProcessedTotal *prometheus.CounterVec
}

const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusSkipped  = "skipped"
	StatusRejected = "rejected"
)

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status_code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "library_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		LoansCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_loans_created_total",
				Help: "Total number of loan creation attempts by outcome.",
			},
			[]string{"status"},
		),
		LoansReopenedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "library_loans_reopened_total",
				Help: "Total number of returned loans marked as outstanding again.",
			},
		),
		LateLoanNotificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_late_loan_notifications_total",
				Help: "Total number of late loan notification runs by outcome.",
			},
			[]string{"status"},
		),
		LateLoanRecipientsNotified: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "library_late_loan_recipients_notified_total",
				Help: "Total number of recipients included in late loan reminders.",
			},
		),
		MailRequestsProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_mail_requests_processed_total",
				Help: "Total number of queued mail requests processed by the mailer.",
			},
			[]string{"status"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordLoanCreated(status string) {
	Business.LoansCreatedTotal.WithLabelValues(status).Inc()
}

func RecordLoanReopened() {
	Business.LoansReopenedTotal.Inc()
}

func RecordLateLoanNotification(status string, recipients int) {
	Business.LateLoanNotificationsTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		Business.LateLoanRecipientsNotified.Add(float64(recipients))
	}
}

func RecordMailRequestProcessed(status string) {
	Business.MailRequestsProcessedTotal.WithLabelValues(status).Inc()
}
