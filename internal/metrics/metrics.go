// Package metrics provides Prometheus instrumentation for the LED cycler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pulseWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledcycle",
		Subsystem: "pwm",
		Name:      "pulse_writes_total",
		Help:      "Duty-cycle writes committed to hardware",
	}, []string{"channel"})

	pulseWidth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ledcycle",
		Subsystem: "pwm",
		Name:      "pulse_width_ticks",
		Help:      "Last pulse width applied to a channel, in ticks",
	}, []string{"channel"})

	fadesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledcycle",
		Subsystem: "fade",
		Name:      "completed_total",
		Help:      "Ramps driven to completion",
	}, []string{"channel", "direction"})

	driverErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledcycle",
		Subsystem: "pwm",
		Name:      "driver_errors_total",
		Help:      "Failed duty-cycle writes",
	}, []string{"channel"})

	currentChannel = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ledcycle",
		Subsystem: "fade",
		Name:      "current_channel_index",
		Help:      "Index of the channel currently being cycled",
	})
)

// ObservePulseWrite records one committed duty-cycle write.
func ObservePulseWrite(channel string, pulseTicks uint32) {
	pulseWrites.WithLabelValues(channel).Inc()
	pulseWidth.WithLabelValues(channel).Set(float64(pulseTicks))
}

// IncFadeCompleted records a ramp driven through all its steps.
func IncFadeCompleted(channel, direction string) {
	fadesCompleted.WithLabelValues(channel, direction).Inc()
}

// IncDriverError records a failed duty-cycle write.
func IncDriverError(channel string) {
	driverErrors.WithLabelValues(channel).Inc()
}

// SetCurrentChannel records which channel the cycler is driving.
func SetCurrentChannel(idx int) {
	currentChannel.Set(float64(idx))
}
