package hub

import "github.com/prometheus/client_golang/prometheus"

var broadcastsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "leadfunnel",
		Subsystem: "hub",
		Name:      "broadcasts_total",
		Help:      "Total messages published to the broker by event name",
	},
	[]string{"event"},
)

func init() {
	prometheus.MustRegister(broadcastsTotal)
}
