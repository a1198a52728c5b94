// Package cli provides the command-line interface for castclean.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/castclean/internal/cli/commands"
	"github.com/ccollicutt/castclean/internal/console"
)

// Execute runs the root command with the process arguments and returns the exit code.
func Execute() int {
	return Run(os.Args[1:])
}

// Run runs the root command with args and returns the exit code.
// Errors raised before a command starts running are usage errors.
func Run(args []string) int {
	commands.ExitCode = commands.ExitOK

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors prevents Cobra from printing the error itself
		console.New(rootCmd.ErrOrStderr(), false).Errorf("%v", err)
		if commands.ExitCode != commands.ExitOK {
			return commands.ExitCode
		}
		return commands.ExitUsage
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := commands.NewCleanCommand()
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
