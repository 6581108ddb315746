package ledcontrol

// pulseDriver is the minimal interface ledcontrol needs from a PWM/GPIO backend.
//
// SetPulse commits one period/pulse-width pair. Both values are in ticks
// (microseconds); implementations convert to whatever unit the hardware wants.
// A driver returned by a successful open is usable immediately.
//
// Close should be best-effort and leave the output dark.
type pulseDriver interface {
	SetPulse(periodTicks, pulseTicks uint32) error
	Name() string
	Close() error
}
