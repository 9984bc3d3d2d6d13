package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors for background and asset activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	uploads *prometheus.CounterVec
	deletes *prometheus.CounterVec
	ops     *prometheus.CounterVec
}

// MustNew registers the collectors on reg and panics on duplicate registration.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "focus",
			Name:      "asset_uploads_total",
			Help:      "Asset uploads by result.",
		}, []string{"result"}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "focus",
			Name:      "asset_deletes_total",
			Help:      "Asset deletions by result. Failed deletions leave orphaned assets.",
		}, []string{"result"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "focus",
			Name:      "background_ops_total",
			Help:      "Background lifecycle operations by operation and result.",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(m.uploads, m.deletes, m.ops)
	return m
}

// ObserveUpload counts an asset upload attempt.
func (m *Metrics) ObserveUpload(err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result(err)).Inc()
}

// ObserveDelete counts an asset delete attempt.
func (m *Metrics) ObserveDelete(err error) {
	if m == nil {
		return
	}
	m.deletes.WithLabelValues(result(err)).Inc()
}

// ObserveOp counts a lifecycle operation outcome.
func (m *Metrics) ObserveOp(op string, err error) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op, result(err)).Inc()
}

// Handler exposes metrics from gatherer in Prometheus text format.
func Handler(gatherer prometheus.Gatherer) gin.HandlerFunc {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

func result(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
