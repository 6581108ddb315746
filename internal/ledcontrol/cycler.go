package ledcontrol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Phase is the cycler's position in one channel's in/hold/out/advance cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFadingIn
	PhaseHolding
	PhaseFadingOut
	PhaseAdvancing
)

func (p Phase) String() string {
	switch p {
	case PhaseFadingIn:
		return "fading_in"
	case PhaseHolding:
		return "holding"
	case PhaseFadingOut:
		return "fading_out"
	case PhaseAdvancing:
		return "advancing"
	default:
		return "idle"
	}
}

// Cycler owns the channel list and drives the endless cycling protocol:
// fade the current channel in, hold, fade it out, advance to the next.
type Cycler struct {
	channels []*Channel
	cfg      Config
	seq      *Sequencer
	log      *slog.Logger

	// onPhase, when set, sees every phase transition.
	onPhase func(idx int, phase Phase)
}

func NewCycler(channels []*Channel, cfg Config, log *slog.Logger) *Cycler {
	if log == nil {
		log = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Cycler{
		channels: channels,
		cfg:      cfg,
		seq:      NewSequencer(cfg),
		log:      log,
	}
}

// checkReady fails fast when any channel backend did not open. An unready
// channel cannot become ready at runtime, so this is the one fatal path.
func (c *Cycler) checkReady() error {
	if len(c.channels) == 0 {
		return fmt.Errorf("ledcontrol: no channels configured")
	}
	for _, ch := range c.channels {
		if !ch.Ready() {
			return fmt.Errorf("ledcontrol: channel %s: %s: %w", ch.Name(), ch.Backend(), ErrNotReady)
		}
	}
	return nil
}

// allOff zeroes every channel. Best-effort: a failed write here is logged
// but not fatal, unlike mid-ramp writes.
func (c *Cycler) allOff() {
	for _, ch := range c.channels {
		if err := ch.setPulse(c.cfg.Period, 0); err != nil {
			c.log.Warn("turn off failed", "channel", ch.Name(), "error", err)
		}
	}
}

// Run verifies readiness, darkens all channels, then cycles forever.
// It returns nil only when ctx is cancelled; any driver write failure
// mid-ramp stops the cycle at that channel and is returned.
func (c *Cycler) Run(ctx context.Context) error {
	if err := c.checkReady(); err != nil {
		return err
	}
	for _, ch := range c.channels {
		c.log.Info("channel ready", "channel", ch.Name(), "backend", ch.Backend())
	}
	c.allOff()

	idx := 0
	for {
		c.log.Debug("fading channel", "channel", c.channels[idx].Name(), "index", idx)

		c.setPhase(idx, PhaseFadingIn)
		if err := c.runFade(ctx, idx, FadeIn); err != nil {
			return c.finish(err)
		}

		c.setPhase(idx, PhaseHolding)
		if err := c.pause(ctx, c.cfg.HoldDelay); err != nil {
			return c.finish(err)
		}

		c.setPhase(idx, PhaseFadingOut)
		if err := c.runFade(ctx, idx, FadeOut); err != nil {
			return c.finish(err)
		}

		c.setPhase(idx, PhaseAdvancing)
		idx = (idx + 1) % len(c.channels)
		if err := c.pause(ctx, c.cfg.AdvanceDelay); err != nil {
			return c.finish(err)
		}
	}
}

func (c *Cycler) runFade(ctx context.Context, idx int, dir Direction) error {
	return c.seq.Run(ctx, c.channels[idx], dir)
}

func (c *Cycler) pause(ctx context.Context, d time.Duration) error {
	select {
	case <-afterFn(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cycler) setPhase(idx int, phase Phase) {
	if c.onPhase != nil {
		c.onPhase(idx, phase)
	}
}

// finish maps cancellation to a clean nil return; real errors pass through.
func (c *Cycler) finish(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
