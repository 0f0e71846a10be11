package envelope

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"

	skipRaw    = "raw"
	skipError  = "error"
	skipMethod = "method"
)

// Metrics counts what the middleware did with each response. A nil *Metrics is valid and records nothing.
type Metrics struct {
	enveloped *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	resolver  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		enveloped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "envelope",
			Name:      "responses_total",
			Help:      "Responses replaced by an envelope, by outcome.",
		}, []string{"outcome"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "envelope",
			Name:      "skipped_total",
			Help:      "Responses left untouched, by reason.",
		}, []string{"reason"}),
		resolver: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "envelope",
			Name:      "resolver_failures_total",
			Help:      "Envelope constructions aborted by a failing resolver, by outcome.",
		}, []string{"outcome"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.enveloped, m.skipped, m.resolver} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeEnveloped(outcome string) {
	if m == nil {
		return
	}
	m.enveloped.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeSkipped(reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeResolverFailure(outcome string) {
	if m == nil {
		return
	}
	m.resolver.WithLabelValues(outcome).Inc()
}
