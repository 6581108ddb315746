package ledcontrol

import (
	"context"
	"fmt"
	"time"
)

var afterFn = time.After

// Direction selects which way a ramp runs.
type Direction int

const (
	FadeIn Direction = iota
	FadeOut
)

func (d Direction) String() string {
	if d == FadeOut {
		return "out"
	}
	return "in"
}

// pulseWidth computes the pulse width for one ramp step using truncating
// integer division. step 0 and step stepCount always land exactly on the
// boundary values (0 and period), whatever stepCount is.
func pulseWidth(period uint32, step, stepCount int, dir Direction) uint32 {
	if dir == FadeOut {
		step = stepCount - step
	}
	return uint32(uint64(period) * uint64(step) / uint64(stepCount))
}

// Sequencer produces and applies one monotonic brightness ramp on a channel.
type Sequencer struct {
	cfg Config
	// observe, when set, sees every successfully applied pulse width.
	observe func(ch *Channel, pulse uint32)
}

func NewSequencer(cfg Config) *Sequencer {
	return &Sequencer{cfg: cfg.withDefaults()}
}

// Run drives stepCount+1 pulse widths onto ch with a StepDelay pause after
// each write. The first failed write aborts the ramp and is returned; the
// channel is left at its last successfully applied duty cycle. Cancelling ctx
// interrupts the inter-step pause and returns ctx.Err().
func (s *Sequencer) Run(ctx context.Context, ch *Channel, dir Direction) error {
	for step := 0; step <= s.cfg.StepCount; step++ {
		pulse := pulseWidth(s.cfg.Period, step, s.cfg.StepCount, dir)
		if err := ch.setPulse(s.cfg.Period, pulse); err != nil {
			return fmt.Errorf("ledcontrol: set pulse on %s (step %d): %w", ch.Name(), step, err)
		}
		if s.observe != nil {
			s.observe(ch, pulse)
		}
		select {
		case <-afterFn(s.cfg.StepDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// SetBrightnessPercent applies a steady brightness level in percent (0-100).
func (s *Sequencer) SetBrightnessPercent(ch *Channel, pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("ledcontrol: brightness %d%% out of range", pct)
	}
	pulse := uint32(uint64(s.cfg.Period) * uint64(pct) / 100)
	if err := ch.setPulse(s.cfg.Period, pulse); err != nil {
		return fmt.Errorf("ledcontrol: set brightness on %s: %w", ch.Name(), err)
	}
	if s.observe != nil {
		s.observe(ch, pulse)
	}
	return nil
}
