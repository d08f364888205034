package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prep_backend_requests_total",
			Help: "Requests sent to the question/application API",
		},
		[]string{"endpoint", "outcome"},
	)

	contentFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prep_content_fallbacks_total",
			Help: "Optional content requests answered with built-in defaults",
		},
		[]string{"content"},
	)

	submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prep_quiz_submissions_total",
			Help: "Graded quiz submissions",
		},
		[]string{"correct"},
	)

	interviewsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prep_interviews_completed_total",
			Help: "Interview simulations that reached the results screen",
		},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prep_ws_connections_current",
			Help: "Open browser websocket connections",
		},
	)
)

// BackendRequest records the outcome ("ok" or "error") of one API call.
func BackendRequest(endpoint string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	backendRequests.WithLabelValues(endpoint, outcome).Inc()
}

func ContentFallback(content string) {
	contentFallbacks.WithLabelValues(content).Inc()
}

func Submission(correct bool) {
	label := "false"
	if correct {
		label = "true"
	}
	submissions.WithLabelValues(label).Inc()
}

func InterviewCompleted() {
	interviewsCompleted.Inc()
}

func ConnectionOpened() {
	activeConnections.Inc()
}

func ConnectionClosed() {
	activeConnections.Dec()
}
