package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// метрики движка

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgersync_commands_total",
			Help: "Кол-во обработанных команд",
		},
		[]string{"command", "outcome"},
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledgersync_command_duration_seconds",
			Help:    "Продолжительность обработки команд",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	rollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgersync_rollbacks_total",
			Help: "Кол-во откатов оптимистичных изменений",
		},
		[]string{"op"},
	)

	balancePushesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledgersync_balance_pushes_total",
			Help: "Кол-во примененных обновлений баланса из потока",
		},
	)
)
