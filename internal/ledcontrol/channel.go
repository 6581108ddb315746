package ledcontrol

import "errors"

// ErrNotReady marks a channel whose backend could not be opened at startup.
var ErrNotReady = errors.New("ledcontrol: channel not ready")

// Channel is one controllable LED output. Channels are built once by
// discovery and owned exclusively by the cycler; nothing mutates them
// afterwards except the single duty-cycle register behind drv.
type Channel struct {
	name string
	drv  pulseDriver
	// openErr records why the backend failed to open; nil when ready.
	openErr error
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) Ready() bool { return c.openErr == nil && c.drv != nil }

// Backend returns a short description of the driver in use ("pwmchip0/0",
// "gpio23", ...), or the open error text for unready channels.
func (c *Channel) Backend() string {
	if !c.Ready() {
		return "unavailable: " + c.openErr.Error()
	}
	return c.drv.Name()
}

func (c *Channel) setPulse(periodTicks, pulseTicks uint32) error {
	if !c.Ready() {
		return ErrNotReady
	}
	return c.drv.SetPulse(periodTicks, pulseTicks)
}

// Close releases the backend, leaving the output dark.
func (c *Channel) Close() {
	if c.drv != nil {
		_ = c.drv.Close()
	}
}
