package sun3kbd

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	keyEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sun3kbd_key_events_total",
			Help: "Events decoded from the keyboard line, by kind",
		},
		[]string{"kind"},
	)
	undefinedKeysTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sun3kbd_undefined_keys_total",
			Help: "Key presses on positions the keymap leaves empty",
		},
	)
	lookupErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sun3kbd_lookup_errors_total",
			Help: "Keymap lookups rejected as out of range",
		},
	)
	reportsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sun3kbd_reports_sent_total",
			Help: "Reports delivered to the sink, by report type",
		},
		[]string{"report"},
	)
	sinkErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sun3kbd_sink_errors_total",
			Help: "Reports the sink failed to deliver",
		},
	)
	rolloverTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sun3kbd_rollover_dropped_total",
			Help: "Key presses dropped because six keys were already held",
		},
	)
	lastInputTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sun3kbd_last_input_timestamp_seconds",
			Help: "Unix time of the last key press or release",
		},
	)
	keymapReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sun3kbd_keymap_reloads_total",
			Help: "Keymap file reloads, by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		keyEventsTotal,
		undefinedKeysTotal,
		lookupErrorsTotal,
		reportsSentTotal,
		sinkErrorsTotal,
		rolloverTotal,
		lastInputTimestamp,
		keymapReloadsTotal,
	)
}
