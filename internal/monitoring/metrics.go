package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RotationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssb_ap_rotations_total",
			Help: "Total number of completed credential rotations",
		},
		[]string{"interface", "reason"},
	)

	RotationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssb_ap_rotation_failures_total",
			Help: "Total number of failed rotation attempts",
		},
		[]string{"interface", "stage"},
	)

	RotationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ssb_ap_rotation_duration_seconds",
			Help:    "Wall-clock duration of rotation attempts",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"interface"},
	)

	ClientCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ssb_ap_client_count",
			Help: "Stations currently associated with the interface",
		},
		[]string{"interface"},
	)

	CredentialAge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ssb_ap_credential_age_seconds",
			Help: "Age of the interface's current credentials",
		},
		[]string{"interface"},
	)

	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ssb_ap_tick_duration_seconds",
			Help:    "Duration of supervisor polling ticks",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)

	ManualTriggerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssb_ap_manual_trigger_rejections_total",
			Help: "Manual rotation triggers consumed while inside the cooldown window",
		},
		[]string{"interface"},
	)
)
