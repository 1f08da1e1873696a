package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	detectorVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resourcing",
		Subsystem: "detector",
		Name:      "verdicts_total",
		Help:      "Conflict detector verdicts broken down by outcome.",
	}, []string{"outcome"})

	advisoryConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resourcing",
		Subsystem: "detector",
		Name:      "advisory_conflicts_total",
		Help:      "Advisory SOFT over-allocation conflict records created.",
	})

	readModelRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resourcing",
		Subsystem: "daily_load",
		Name:      "refreshes_total",
		Help:      "Daily load read-model refreshes broken down by result.",
	}, []string{"result"})

	riskScorings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resourcing",
		Subsystem: "risk",
		Name:      "scorings_total",
		Help:      "Per-resource risk score computations.",
	})
)

func recordVerdict(outcome string) {
	detectorVerdicts.WithLabelValues(outcome).Inc()
}

func recordRefresh(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	readModelRefreshes.WithLabelValues(result).Inc()
}
