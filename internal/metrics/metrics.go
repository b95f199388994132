package metrics

import (
	"net/http"

	"github.com/go-push-relay/internal/application/reply"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ reply.Recorder = (*Service)(nil)

// Service holds the relay's Prometheus collectors.
type Service struct {
	Outcomes         *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
}

// NewHandler returns an http.Handler exposing the given Gatherer.
func NewHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewService creates the collectors and registers them with reg.
func NewService(reg prometheus.Registerer) *Service {
	s := &Service{
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_story_reply_events_total",
			Help: "Story reply change events processed, by outcome.",
		}, []string{"outcome"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_push_dispatch_duration_seconds",
			Help:    "Latency of push provider send calls.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"status"}),
	}
	reg.MustRegister(s.Outcomes, s.DispatchDuration)
	return s
}

func (s *Service) ObserveOutcome(result reply.Result) {
	s.Outcomes.WithLabelValues(string(result)).Inc()
}

func (s *Service) ObserveDispatch(seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.DispatchDuration.WithLabelValues(status).Observe(seconds)
}
