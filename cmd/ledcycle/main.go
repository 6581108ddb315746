package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "ledcycle",
		Short: "PWM LED fade-cycling daemon",
		Long: `ledcycle endlessly cycles a set of PWM-driven LEDs: each channel fades ` +
			`in, holds at full brightness, fades out, then the next channel takes over.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newFadeCmd())
	root.AddCommand(newChannelsCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ledcycle: %v\n", err)
		os.Exit(1)
	}
}
