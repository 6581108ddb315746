//go:build linux

package ledcontrol

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// openGPIOLine returns a pulseDriver that drives the given BCM GPIO as a
// plain digital output via the Linux GPIO character device. It stands in for
// boards that expose an LED without a PWM channel: any pulse width of at
// least half the period maps to ON, anything below to OFF.
func openGPIOLine(pin int) (pulseDriver, error) {
	if pin <= 0 {
		return nil, fmt.Errorf("ledcontrol: invalid gpio pin %d", pin)
	}

	// On Pi, line names are commonly "GPIO18", etc.
	lineName := fmt.Sprintf("GPIO%d", pin)

	// Try likely chips first (Pi 5 kernel variants can expose header GPIOs on
	// gpiochip0 and sometimes additional chips exist).
	chipCandidates := []string{"/dev/gpiochip0", "/dev/gpiochip4"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "gpiochip") {
			chipCandidates = append(chipCandidates, filepath.Join("/dev", name))
		}
	}

	for _, chipPath := range chipCandidates {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(lineName)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("ledcycle"))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &gpiodLine{chip: chip, line: line, pin: pin}, nil
	}

	return nil, fmt.Errorf("ledcontrol: gpio line %q not found (or busy)", lineName)
}

type gpiodLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	pin  int
}

func (g *gpiodLine) Name() string {
	return fmt.Sprintf("gpio%d", g.pin)
}

func (g *gpiodLine) SetPulse(periodTicks, pulseTicks uint32) error {
	if g == nil || g.line == nil {
		return fmt.Errorf("ledcontrol: gpio driver not initialized")
	}
	if pulseTicks > periodTicks {
		return fmt.Errorf("ledcontrol: pulse %d exceeds period %d", pulseTicks, periodTicks)
	}
	v := 0
	if pulseTicks >= (periodTicks+1)/2 {
		v = 1
	}
	return g.line.SetValue(v)
}

func (g *gpiodLine) Close() error {
	if g == nil || g.line == nil {
		return nil
	}
	// Graceful shutdown: leave the LED OFF.
	_ = g.line.SetValue(0)
	err1 := g.line.Close()
	g.line = nil
	if g.chip != nil {
		_ = g.chip.Close()
		g.chip = nil
	}
	return err1
}
