// Package main provides the entry point for the fsmstrip CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for fsmstrip.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fsmstrip",
		Short: "Report generator for finite strip method parametric studies",
		Long: `fsmstrip renders diagnostic reports of finite strip method parametric
studies: the buckling and free vibration behavior of a prismatic shell
strip over its length, at a fixed base thickness.

Each report is a PDF page of four panels sharing the strip length axis:
natural frequencies, critical buckling stresses, the dominant mode, and
the relative approximation errors of the physical dualism results.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Log only warnings and errors")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
