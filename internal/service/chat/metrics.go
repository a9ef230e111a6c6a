package chat

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 中继核心的 Prometheus 指标，nil 接收者上的方法均为空操作
type Metrics struct {
	activeConns   prometheus.Gauge
	connsTotal    prometheus.Counter
	superseded    prometheus.Counter
	frameOutcomes *prometheus.CounterVec
}

// NewMetrics 在 reg 上注册指标，reg 为 nil 时使用默认注册表
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		activeConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_relay_connections_active",
			Help: "Users with a registered real-time connection.",
		}),
		connsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_relay_connections_total",
			Help: "Authenticated real-time connections accepted since start.",
		}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_relay_connections_superseded_total",
			Help: "Registrations that replaced an existing connection for the same user.",
		}),
		frameOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_relay_frames_total",
			Help: "Inbound real-time frames grouped by relay outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.activeConns, m.connsTotal, m.superseded, m.frameOutcomes)
	return m
}

func (m *Metrics) connRegistered(replaced bool) {
	if m == nil {
		return
	}
	m.connsTotal.Inc()
	if replaced {
		m.superseded.Inc()
		return
	}
	m.activeConns.Inc()
}

func (m *Metrics) connRemoved() {
	if m == nil {
		return
	}
	m.activeConns.Dec()
}

func (m *Metrics) recordOutcome(o Outcome) {
	if m == nil {
		return
	}
	m.frameOutcomes.WithLabelValues(o.String()).Inc()
}
