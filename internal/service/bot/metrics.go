package bot

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeOK          = "ok"
	outcomeNoQuery     = "no_query"
	outcomeUnavailable = "unavailable"

	routeNone = "none"
)

type Metrics struct {
	messages  *prometheus.CounterVec
	searches  *prometheus.CounterVec
	cmsClaims prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "askbot_messages_total",
				Help: "Inbound messages by matched route",
			},
			[]string{"route"},
		),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "askbot_searches_total",
				Help: "Search requests by outcome",
			},
			[]string{"outcome"},
		),
		cmsClaims: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "askbot_cms_claims_total",
				Help: "Messages answered by the CMS",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.messages, m.searches, m.cmsClaims)
	}
	return m
}
