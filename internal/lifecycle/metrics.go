package lifecycle

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "advisord",
			Subsystem: "lifecycle",
			Name:      "loads_total",
			Help:      "Total model load attempts by outcome",
		},
		[]string{"outcome"},
	)

	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "advisord",
			Subsystem: "lifecycle",
			Name:      "generations_total",
			Help:      "Total generation calls by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	streamAbandonsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "advisord",
			Subsystem: "lifecycle",
			Name:      "stream_abandons_total",
			Help:      "Streaming sessions abandoned by the consumer timeout",
		},
	)
)

func init() {
	prometheus.MustRegister(loadsTotal, generationsTotal, streamAbandonsTotal)
}
