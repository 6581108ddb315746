//go:build !linux

package ledcontrol

import "fmt"

// Non-linux builds have no PWM or GPIO backends. Discovery still returns the
// configured channels so tooling can list them, but every one is unready.
func discoverChannels(cfg Config) ([]*Channel, error) {
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("ledcontrol: no channels configured")
	}
	channels := make([]*Channel, 0, len(cfg.Channels))
	for _, cc := range cfg.Channels {
		channels = append(channels, &Channel{
			name:    cc.Name,
			openErr: fmt.Errorf("ledcontrol: pwm unsupported on this platform"),
		})
	}
	return channels, nil
}
