package ledcontrol

import "time"

// ChannelConfig selects the output backend for one LED.
//
// A channel first tries the sysfs PWM chip/channel pair. When no PWM chip is
// usable and GPIOPin is set, the channel falls back to driving the line as a
// plain on/off output (mirrors boards that expose some LEDs without PWM).
type ChannelConfig struct {
	Name string
	// PWMChip is the sysfs chip name, e.g. "pwmchip0". Empty means probe.
	PWMChip    string
	PWMChannel int
	// GPIOPin is the BCM line number for the on/off fallback; 0 disables it.
	GPIOPin int
}

type Config struct {
	// Period is the PWM period in ticks (microseconds). Default 1000 (1 kHz).
	Period uint32
	// StepCount is the number of discrete ramp steps; a ramp applies
	// StepCount+1 pulse widths. Must be >= 1.
	StepCount int
	// StepDelay is the pause between ramp steps.
	StepDelay time.Duration
	// HoldDelay is the pause at full brightness.
	HoldDelay time.Duration
	// AdvanceDelay is the pause between channels.
	AdvanceDelay time.Duration

	Channels []ChannelConfig
}

func (c Config) withDefaults() Config {
	if c.Period == 0 {
		c.Period = 1000
	}
	if c.StepCount <= 0 {
		c.StepCount = 100
	}
	if c.StepDelay <= 0 {
		c.StepDelay = 10 * time.Millisecond
	}
	if c.HoldDelay <= 0 {
		c.HoldDelay = 200 * time.Millisecond
	}
	if c.AdvanceDelay <= 0 {
		c.AdvanceDelay = 100 * time.Millisecond
	}
	return c
}
