package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	PWM      PWMConfig       `yaml:"pwm"`
	Channels []ChannelConfig `yaml:"channels"`
	Web      WebConfig       `yaml:"web"`
	Log      LogConfig       `yaml:"log"`
}

type PWMConfig struct {
	// Period is the PWM period in microseconds.
	Period uint32 `yaml:"period"`
	// StepCount is the number of discrete ramp steps.
	StepCount int `yaml:"step_count"`
	// StepDelay is the pause between ramp steps.
	StepDelay time.Duration `yaml:"step_delay"`
	// HoldDelay is the pause at full brightness.
	HoldDelay time.Duration `yaml:"hold_delay"`
	// AdvanceDelay is the pause between channels.
	AdvanceDelay time.Duration `yaml:"advance_delay"`
}

type ChannelConfig struct {
	Name       string `yaml:"name"`
	PWMChip    string `yaml:"pwm_chip"`
	PWMChannel int    `yaml:"pwm_channel"`
	// GPIOPin enables the plain on/off fallback when no PWM chip serves
	// this channel; 0 disables the fallback.
	GPIOPin int `yaml:"gpio_pin"`
}

type WebConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.PWM.StepCount < 0 {
		return Config{}, fmt.Errorf("pwm.step_count must be >= 1")
	}
	if cfg.PWM.StepCount == 0 {
		cfg.PWM.StepCount = 100
	}
	if cfg.PWM.Period == 0 {
		cfg.PWM.Period = 1000
	}
	if cfg.PWM.StepDelay < 0 {
		return Config{}, fmt.Errorf("pwm.step_delay must not be negative")
	}
	if cfg.PWM.StepDelay == 0 {
		cfg.PWM.StepDelay = 10 * time.Millisecond
	}
	if cfg.PWM.HoldDelay <= 0 {
		cfg.PWM.HoldDelay = 200 * time.Millisecond
	}
	if cfg.PWM.AdvanceDelay <= 0 {
		cfg.PWM.AdvanceDelay = 100 * time.Millisecond
	}

	// Default channel set mirrors the usual 4-LED dev-kit layout.
	if len(cfg.Channels) == 0 {
		for i := 0; i < 4; i++ {
			cfg.Channels = append(cfg.Channels, ChannelConfig{
				Name:       fmt.Sprintf("led%d", i),
				PWMChannel: i,
			})
		}
	}

	seen := map[string]bool{}
	for i, ch := range cfg.Channels {
		if ch.Name == "" {
			return Config{}, fmt.Errorf("channels[%d].name is required", i)
		}
		if seen[ch.Name] {
			return Config{}, fmt.Errorf("channels[%d].name %q is duplicated", i, ch.Name)
		}
		seen[ch.Name] = true
		if ch.PWMChannel < 0 {
			return Config{}, fmt.Errorf("channels[%d].pwm_channel must not be negative", i)
		}
		if ch.GPIOPin < 0 {
			return Config{}, fmt.Errorf("channels[%d].gpio_pin must not be negative", i)
		}
	}

	if cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("log.format must be 'text' or 'json'")
	}

	return cfg, nil
}
