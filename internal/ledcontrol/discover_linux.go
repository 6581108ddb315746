//go:build linux

package ledcontrol

import "fmt"

var (
	openSysfsPWMFn = openSysfsPWM
	openGPIOFn     = openGPIOLine
)

// discoverChannels opens a backend for every configured channel: the sysfs
// PWM chip first, then the plain GPIO line when one is configured. A channel
// whose backends all fail is kept in the list as unready so the readiness
// check can name it.
func discoverChannels(cfg Config) ([]*Channel, error) {
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("ledcontrol: no channels configured")
	}

	channels := make([]*Channel, 0, len(cfg.Channels))
	for _, cc := range cfg.Channels {
		ch := &Channel{name: cc.Name}

		drv, pwmErr := openSysfsPWMFn(cc.PWMChip, cc.PWMChannel, cfg.Period)
		if pwmErr == nil {
			ch.drv = drv
			channels = append(channels, ch)
			continue
		}

		if cc.GPIOPin > 0 {
			drv, gpioErr := openGPIOFn(cc.GPIOPin)
			if gpioErr == nil {
				ch.drv = drv
				channels = append(channels, ch)
				continue
			}
			ch.openErr = fmt.Errorf("pwm: %v; gpio: %v", pwmErr, gpioErr)
		} else {
			ch.openErr = pwmErr
		}
		channels = append(channels, ch)
	}
	return channels, nil
}
