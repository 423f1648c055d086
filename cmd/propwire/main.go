// Command propwire reads and writes properties of the demo store types from
// YAML property files.
//
//	propwire describe order
//	propwire apply order -f order.yaml --auto-grow
//	propwire get order -f order.yaml customer.email items[0].total
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information, set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:   "propwire",
		Short: "Read and write object properties by path",
		Long: `propwire applies YAML property files to the demo store types through
nested property paths, converting every value to the declared property type.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	ui := func(cmd *cobra.Command) *printer {
		return newPrinter(cmd.OutOrStdout(), noColor)
	}

	root.AddCommand(newDescribeCmd(ui))
	root.AddCommand(newApplyCmd(ui))
	root.AddCommand(newGetCmd(ui))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "propwire version: %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Git commit: %s\n", GitCommit)
		},
	}
}
