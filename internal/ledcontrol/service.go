package ledcontrol

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ledcycle/internal/metrics"
)

var discoverFn = discoverChannels

// ChannelInfo is a read-only view of one discovered channel.
type ChannelInfo struct {
	Name    string `json:"name"`
	Backend string `json:"backend"`
	Ready   bool   `json:"ready"`
}

// Snapshot is a point-in-time view of the cycling service for the status API.
type Snapshot struct {
	Running bool `json:"running"`

	Channels       []ChannelInfo `json:"channels"`
	CurrentChannel string        `json:"current_channel,omitempty"`
	CurrentIndex   int           `json:"current_index"`
	Phase          string        `json:"phase"`

	PeriodTicks uint32 `json:"period_ticks"`
	LastPulse   uint32 `json:"last_pulse_ticks"`
	FadesTotal  uint64 `json:"fades_total"`
	CyclesTotal uint64 `json:"cycles_total"`

	LastUpdateAt time.Time `json:"last_update_utc,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
}

// Service owns channel discovery and runs the cycler asynchronously.
type Service struct {
	cfg Config
	log *slog.Logger

	mu   sync.RWMutex
	snap Snapshot

	channels []*Channel

	cancel context.CancelFunc
	wg     sync.WaitGroup

	stopOnce sync.Once
	done     chan struct{}
	runErr   error
}

func New(cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Service{
		cfg:  cfg,
		log:  log,
		done: make(chan struct{}),
	}
}

// Discover opens backends for every configured channel. Channels whose
// backend cannot be opened are returned unready rather than dropped, so the
// caller can report exactly which output is broken.
func Discover(cfg Config) ([]*Channel, error) {
	return discoverFn(cfg.withDefaults())
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.Channels = append([]ChannelInfo(nil), s.snap.Channels...)
	return snap
}

func (s *Service) setState(update func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.snap)
	s.snap.LastUpdateAt = time.Now().UTC()
}

// Start discovers channels and launches the cycling loop. It is non-blocking;
// watch Done and Err for the loop outcome. An unready channel is fatal here,
// before the loop starts.
func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("ledcontrol: service is nil")
	}

	channels, err := discoverFn(s.cfg)
	if err != nil {
		return err
	}
	s.channels = channels

	infos := make([]ChannelInfo, 0, len(channels))
	for _, ch := range channels {
		infos = append(infos, ChannelInfo{Name: ch.Name(), Backend: ch.Backend(), Ready: ch.Ready()})
	}
	s.setState(func(sn *Snapshot) {
		sn.Channels = infos
		sn.PeriodTicks = s.cfg.Period
		sn.Phase = PhaseIdle.String()
	})

	cyc := NewCycler(channels, s.cfg, s.log)
	cyc.seq.observe = s.observePulse
	cyc.onPhase = s.observePhase

	// Fail fast on unready hardware before claiming to run.
	if err := cyc.checkReady(); err != nil {
		s.setState(func(sn *Snapshot) { sn.LastError = err.Error() })
		s.closeChannels()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.setState(func(sn *Snapshot) { sn.Running = true })

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := cyc.Run(runCtx)
		if err != nil {
			s.log.Error("cycler stopped", "error", err)
			s.setState(func(sn *Snapshot) {
				sn.LastError = err.Error()
				sn.Running = false
			})
			metrics.IncDriverError(s.currentChannelName())
		} else {
			s.setState(func(sn *Snapshot) { sn.Running = false })
		}
		s.runErr = err
		close(s.done)
	}()
	return nil
}

// Done is closed once the cycling loop has exited; Err reports why.
func (s *Service) Done() <-chan struct{} { return s.done }

func (s *Service) Err() error {
	select {
	case <-s.done:
		return s.runErr
	default:
		return nil
	}
}

// Close stops the loop, darkens every channel and releases the backends.
func (s *Service) Close() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		for _, ch := range s.channels {
			_ = ch.setPulse(s.cfg.Period, 0)
		}
		s.closeChannels()
	})
}

func (s *Service) closeChannels() {
	for _, ch := range s.channels {
		ch.Close()
	}
}

func (s *Service) currentChannelName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.CurrentChannel
}

func (s *Service) observePulse(ch *Channel, pulse uint32) {
	metrics.ObservePulseWrite(ch.Name(), pulse)
	s.setState(func(sn *Snapshot) { sn.LastPulse = pulse })
}

func (s *Service) observePhase(idx int, phase Phase) {
	name := ""
	if idx >= 0 && idx < len(s.channels) {
		name = s.channels[idx].Name()
	}
	switch phase {
	case PhaseHolding:
		metrics.IncFadeCompleted(name, FadeIn.String())
	case PhaseAdvancing:
		metrics.IncFadeCompleted(name, FadeOut.String())
	}
	metrics.SetCurrentChannel(idx)
	s.setState(func(sn *Snapshot) {
		sn.CurrentIndex = idx
		sn.CurrentChannel = name
		sn.Phase = phase.String()
		switch phase {
		case PhaseHolding, PhaseAdvancing:
			sn.FadesTotal++
		}
		if phase == PhaseAdvancing {
			sn.CyclesTotal++
		}
	})
}
