package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledcycle/internal/config"
	"ledcycle/internal/ledcontrol"
)

func newChannelsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List configured channels and their backends",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			channels, err := ledcontrol.Discover(toLedConfig(cfg))
			if err != nil {
				return err
			}
			for _, ch := range channels {
				state := "ready"
				if !ch.Ready() {
					state = "NOT READY"
				}
				fmt.Printf("%-12s %-10s %s\n", ch.Name(), state, ch.Backend())
				ch.Close()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "./ledcycle.yaml", "Path to YAML config")
	return cmd
}
