package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"ledcycle/internal/config"
	"ledcycle/internal/ledcontrol"
	"ledcycle/internal/logging"
	"ledcycle/internal/web"
)

func newRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the fade-cycling daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			svc := ledcontrol.New(toLedConfig(cfg), logger)
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Close()

			logger.Info("ledcycle starting",
				"channels", len(cfg.Channels),
				"period_ticks", cfg.PWM.Period,
				"steps", cfg.PWM.StepCount,
			)

			if cfg.Web.Enable {
				go func() {
					if err := web.Serve(ctx, cfg.Web.Listen, svc); err != nil && ctx.Err() == nil {
						logger.Error("web server stopped", "error", err)
						cancel()
					}
				}()
				logger.Info("status server listening", "addr", cfg.Web.Listen)
			}

			_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)

			select {
			case <-ctx.Done():
			case <-svc.Done():
			}

			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			logger.Info("ledcycle stopping")
			svc.Close()
			return svc.Err()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "./ledcycle.yaml", "Path to YAML config")
	return cmd
}

func toLedConfig(cfg config.Config) ledcontrol.Config {
	out := ledcontrol.Config{
		Period:       cfg.PWM.Period,
		StepCount:    cfg.PWM.StepCount,
		StepDelay:    cfg.PWM.StepDelay,
		HoldDelay:    cfg.PWM.HoldDelay,
		AdvanceDelay: cfg.PWM.AdvanceDelay,
	}
	for _, ch := range cfg.Channels {
		out.Channels = append(out.Channels, ledcontrol.ChannelConfig{
			Name:       ch.Name,
			PWMChip:    ch.PWMChip,
			PWMChannel: ch.PWMChannel,
			GPIOPin:    ch.GPIOPin,
		})
	}
	return out
}
