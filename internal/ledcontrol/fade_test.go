package ledcontrol

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeDriver struct {
	name   string
	pulses []uint32
	// failAt makes the write with this index fail; -1 disables.
	failAt int
	err    error
	// dutyCh, when set, sees every accepted pulse (non-blocking send).
	dutyCh chan uint32
}

func newFakeDriver(name string) *fakeDriver {
	return &fakeDriver{name: name, failAt: -1, err: errors.New("driver busy")}
}

func (d *fakeDriver) SetPulse(periodTicks, pulseTicks uint32) error {
	if pulseTicks > periodTicks {
		return fmt.Errorf("pulse %d exceeds period %d", pulseTicks, periodTicks)
	}
	if d.failAt >= 0 && len(d.pulses) == d.failAt {
		return d.err
	}
	d.pulses = append(d.pulses, pulseTicks)
	if d.dutyCh != nil {
		select {
		case d.dutyCh <- pulseTicks:
		default:
		}
	}
	return nil
}

func (d *fakeDriver) Name() string { return d.name }

func (d *fakeDriver) Close() error { return nil }

func fakeChannel(name string) (*Channel, *fakeDriver) {
	drv := newFakeDriver(name)
	return &Channel{name: name, drv: drv}, drv
}

func immediateAfter(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func useImmediateAfter(t *testing.T) {
	t.Helper()
	old := afterFn
	afterFn = immediateAfter
	t.Cleanup(func() { afterFn = old })
}

func TestPulseWidth_EndpointsExact(t *testing.T) {
	for _, steps := range []int{1, 2, 3, 7, 100, 1000} {
		for _, period := range []uint32{1, 3, 1000, 4_000_000_000} {
			if got := pulseWidth(period, 0, steps, FadeIn); got != 0 {
				t.Fatalf("FadeIn step 0 (period=%d steps=%d): pulse=%d want 0", period, steps, got)
			}
			if got := pulseWidth(period, steps, steps, FadeIn); got != period {
				t.Fatalf("FadeIn step %d (period=%d): pulse=%d want %d", steps, period, got, period)
			}
			if got := pulseWidth(period, 0, steps, FadeOut); got != period {
				t.Fatalf("FadeOut step 0 (period=%d steps=%d): pulse=%d want %d", period, steps, got, period)
			}
			if got := pulseWidth(period, steps, steps, FadeOut); got != 0 {
				t.Fatalf("FadeOut step %d (period=%d): pulse=%d want 0", steps, period, got)
			}
		}
	}
}

func TestPulseWidth_MonotonicAndBounded(t *testing.T) {
	for _, steps := range []int{1, 3, 17, 100} {
		for _, period := range []uint32{1, 9, 1000, 123456} {
			var prev uint32
			for step := 0; step <= steps; step++ {
				got := pulseWidth(period, step, steps, FadeIn)
				if got > period {
					t.Fatalf("pulse %d out of bounds (period=%d)", got, period)
				}
				if step > 0 && got < prev {
					t.Fatalf("FadeIn not monotonic at step %d: %d < %d (period=%d steps=%d)", step, got, prev, period, steps)
				}
				prev = got

				out := pulseWidth(period, step, steps, FadeOut)
				if want := pulseWidth(period, steps-step, steps, FadeIn); out != want {
					t.Fatalf("FadeOut step %d: pulse=%d want %d", step, out, want)
				}
			}
		}
	}
}

func TestSequencerRun_AppliesLinearRamp(t *testing.T) {
	useImmediateAfter(t)

	ch, drv := fakeChannel("led0")
	seq := NewSequencer(Config{Period: 1000, StepCount: 100})

	if err := seq.Run(context.Background(), ch, FadeIn); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(drv.pulses) != 101 {
		t.Fatalf("writes=%d want 101", len(drv.pulses))
	}
	for i, pulse := range drv.pulses {
		if want := uint32(i * 10); pulse != want {
			t.Fatalf("pulses[%d]=%d want %d", i, pulse, want)
		}
	}

	drv.pulses = nil
	if err := seq.Run(context.Background(), ch, FadeOut); err != nil {
		t.Fatalf("Run out: %v", err)
	}
	if len(drv.pulses) != 101 {
		t.Fatalf("writes=%d want 101", len(drv.pulses))
	}
	for i, pulse := range drv.pulses {
		if want := uint32(1000 - i*10); pulse != want {
			t.Fatalf("pulses[%d]=%d want %d", i, pulse, want)
		}
	}
}

func TestSequencerRun_TruncatingDivision(t *testing.T) {
	useImmediateAfter(t)

	ch, drv := fakeChannel("led0")
	seq := NewSequencer(Config{Period: 1000, StepCount: 3})

	if err := seq.Run(context.Background(), ch, FadeIn); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []uint32{0, 333, 666, 1000}
	if len(drv.pulses) != len(want) {
		t.Fatalf("writes=%d want %d", len(drv.pulses), len(want))
	}
	for i := range want {
		if drv.pulses[i] != want[i] {
			t.Fatalf("pulses[%d]=%d want %d", i, drv.pulses[i], want[i])
		}
	}
}

func TestSequencerRun_FailStop(t *testing.T) {
	useImmediateAfter(t)

	ch, drv := fakeChannel("led0")
	drv.failAt = 4

	seq := NewSequencer(Config{Period: 1000, StepCount: 100})
	err := seq.Run(context.Background(), ch, FadeIn)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, drv.err) {
		t.Fatalf("error=%v want wrapped %v", err, drv.err)
	}
	// No writes after the failed step; channel stays at its last value.
	if len(drv.pulses) != 4 {
		t.Fatalf("writes=%d want 4", len(drv.pulses))
	}
	if got := drv.pulses[len(drv.pulses)-1]; got != 30 {
		t.Fatalf("last pulse=%d want 30", got)
	}
}

func TestSequencerRun_CancelInterruptsStepDelay(t *testing.T) {
	// A sleep that never fires: cancellation must be the wakeup.
	old := afterFn
	afterFn = func(time.Duration) <-chan time.Time { return make(chan time.Time) }
	t.Cleanup(func() { afterFn = old })

	ch, drv := fakeChannel("led0")
	seq := NewSequencer(Config{Period: 1000, StepCount: 100})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- seq.Run(ctx, ch, FadeIn) }()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error=%v want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if len(drv.pulses) == 0 {
		t.Fatalf("expected at least the step-0 write")
	}
}

func TestSequencerSetBrightnessPercent(t *testing.T) {
	ch, drv := fakeChannel("led0")
	seq := NewSequencer(Config{Period: 1000, StepCount: 100})

	for _, tc := range []struct {
		pct  int
		want uint32
	}{
		{0, 0}, {1, 10}, {33, 330}, {50, 500}, {100, 1000},
	} {
		if err := seq.SetBrightnessPercent(ch, tc.pct); err != nil {
			t.Fatalf("SetBrightnessPercent(%d): %v", tc.pct, err)
		}
		if got := drv.pulses[len(drv.pulses)-1]; got != tc.want {
			t.Fatalf("pct=%d pulse=%d want %d", tc.pct, got, tc.want)
		}
	}

	for _, pct := range []int{-1, 101} {
		if err := seq.SetBrightnessPercent(ch, pct); err == nil {
			t.Fatalf("SetBrightnessPercent(%d): expected error", pct)
		}
	}
}

func TestSequencerRun_UnreadyChannel(t *testing.T) {
	useImmediateAfter(t)

	ch := &Channel{name: "led0", openErr: errors.New("no pwm chip")}
	seq := NewSequencer(Config{Period: 1000, StepCount: 10})

	err := seq.Run(context.Background(), ch, FadeIn)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("error=%v want ErrNotReady", err)
	}
}
