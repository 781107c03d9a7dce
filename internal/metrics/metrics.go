// Package metrics exposes prometheus collectors for graph loading and
// coboundary verification.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// verificationTotal counts edge verifications by outcome and method
	verificationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cfgraph_verification_total",
		Help: "Total coboundary edge verifications by result and method",
	}, []string{"result", "method"})

	verificationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cfgraph_verification_duration_seconds",
		Help:    "Coboundary edge verification duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	}, []string{"method"})

	datasetNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cfgraph_dataset_nodes",
		Help: "Number of canonical formula nodes in the loaded graph",
	})

	datasetEdges = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cfgraph_dataset_edges",
		Help: "Number of edges in the loaded graph by proof state",
	}, []string{"proven"})
)

// ObserveVerification records one edge verification.
func ObserveVerification(holds bool, method string, elapsed time.Duration) {
	result := "fail"
	if holds {
		result = "hold"
	}
	verificationTotal.WithLabelValues(result, method).Inc()
	verificationDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// SetDataset publishes the size of the loaded graph.
func SetDataset(nodes, edges, proven int) {
	datasetNodes.Set(float64(nodes))
	datasetEdges.WithLabelValues(strconv.FormatBool(true)).Set(float64(proven))
	datasetEdges.WithLabelValues(strconv.FormatBool(false)).Set(float64(edges - proven))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
