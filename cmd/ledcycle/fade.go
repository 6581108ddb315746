package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ledcycle/internal/config"
	"ledcycle/internal/ledcontrol"
	"ledcycle/internal/logging"
)

// fade is a bench tool: drive one ramp (or a steady brightness) on a single
// channel and exit. Useful for verifying wiring before running the daemon.
func newFadeCmd() *cobra.Command {
	var configPath string
	var direction string
	var brightness int

	cmd := &cobra.Command{
		Use:   "fade <channel>",
		Short: "Fade a single channel once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			channels, err := ledcontrol.Discover(toLedConfig(cfg))
			if err != nil {
				return err
			}
			var target *ledcontrol.Channel
			for _, ch := range channels {
				if ch.Name() == args[0] {
					target = ch
					continue
				}
				ch.Close()
			}
			if target == nil {
				return fmt.Errorf("channel %q not in config", args[0])
			}
			if !target.Ready() {
				return fmt.Errorf("channel %q: %s", target.Name(), target.Backend())
			}
			logger.Info("channel ready", "channel", target.Name(), "backend", target.Backend())

			seq := ledcontrol.NewSequencer(toLedConfig(cfg))

			if brightness >= 0 {
				// Steady level; leave the LED lit on exit.
				return seq.SetBrightnessPercent(target, brightness)
			}

			switch direction {
			case "in":
				// Leave the LED at full brightness on exit.
				return seq.Run(ctx, target, ledcontrol.FadeIn)
			case "out":
				defer target.Close()
				return seq.Run(ctx, target, ledcontrol.FadeOut)
			case "cycle":
				defer target.Close()
				if err := seq.Run(ctx, target, ledcontrol.FadeIn); err != nil {
					return err
				}
				return seq.Run(ctx, target, ledcontrol.FadeOut)
			default:
				return fmt.Errorf("--direction must be 'in', 'out' or 'cycle'")
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "./ledcycle.yaml", "Path to YAML config")
	cmd.Flags().StringVar(&direction, "direction", "cycle", "Ramp direction: in, out or cycle")
	cmd.Flags().IntVar(&brightness, "brightness", -1, "Set a steady brightness in percent instead of fading")
	return cmd
}
