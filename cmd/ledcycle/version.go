package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			version := "devel"
			commit := ""
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
					version = bi.Main.Version
				}
				for _, s := range bi.Settings {
					if s.Key == "vcs.revision" {
						commit = s.Value
					}
				}
			}
			fmt.Printf("ledcycle %s", version)
			if commit != "" {
				fmt.Printf(" (%s)", commit)
			}
			fmt.Printf(" %s\n", runtime.Version())
		},
	}
}
