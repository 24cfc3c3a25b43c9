package funnel

import "github.com/prometheus/client_golang/prometheus"

var (
	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadfunnel",
			Subsystem: "funnel",
			Name:      "sessions_started_total",
			Help:      "Total number of wizard sessions started",
		},
	)

	stepTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadfunnel",
			Subsystem: "funnel",
			Name:      "step_transitions_total",
			Help:      "Total number of bare step transitions by direction",
		},
		[]string{"direction"},
	)

	customersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadfunnel",
			Subsystem: "funnel",
			Name:      "customers_created_total",
			Help:      "Total number of customer records created at the collaborator",
		},
	)

	remoteCallFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadfunnel",
			Subsystem: "funnel",
			Name:      "remote_call_failures_total",
			Help:      "Total collaborator call failures by step",
		},
		[]string{"step"},
	)
)

func init() {
	prometheus.MustRegister(sessionsStarted, stepTransitions, customersCreated, remoteCallFailures)
}
