package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pkg/errors"
)

const (
	namespace = "stake_svc"

	opLabel     = "op"
	resultLabel = "result"
	assetLabel  = "asset"
)

type Metrics struct {
	instructions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	staked       *prometheus.CounterVec
	unstaked     *prometheus.CounterVec
}

func New(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		instructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "instructions_total",
				Help:      "number of executed instructions by outcome",
			},
			[]string{opLabel, resultLabel},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "instruction_duration_seconds",
				Help:      "instruction execution time including storage commit",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{opLabel},
		),
		staked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "staked_amount_total",
				Help:      "base units moved into the vault",
			},
			[]string{assetLabel},
		),
		unstaked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unstaked_amount_total",
				Help:      "base units released from the vault",
			},
			[]string{assetLabel},
		),
	}

	for _, c := range []prometheus.Collector{m.instructions, m.duration, m.staked, m.unstaked} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return m, nil
}

// Observe records one instruction. A nil receiver is a no-op.
func (m *Metrics) Observe(op, result string, started time.Time) {
	if m == nil {
		return
	}

	m.instructions.With(prometheus.Labels{opLabel: op, resultLabel: result}).Inc()
	m.duration.With(prometheus.Labels{opLabel: op}).Observe(time.Since(started).Seconds())
}

func (m *Metrics) Staked(asset string, amount uint64) {
	if m == nil {
		return
	}

	m.staked.With(prometheus.Labels{assetLabel: asset}).Add(float64(amount))
}

func (m *Metrics) Unstaked(asset string, amount uint64) {
	if m == nil {
		return
	}

	m.unstaked.With(prometheus.Labels{assetLabel: asset}).Add(float64(amount))
}
