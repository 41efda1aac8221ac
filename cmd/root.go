package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/getlawrence/useserver/internal/logger"
	"github.com/spf13/cobra"
)

type contextKey string

// Context key for configuration
const ConfigKey contextKey = "config"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "useserver",
	Short: "Linter for React Server Actions",
	Long: `useserver checks JavaScript and TypeScript sources for functions marked
with the "use server" directive that are not declared async.

Server Actions are invoked across the network and must return a promise, so
a synchronous action fails at runtime. Each problem comes with a suggestion
that adds the missing async keyword.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if app := appConfigFrom(cmd); app != nil && app.Logger == nil {
			app.Logger = logger.NewStructured(cmd.ErrOrStderr(), verbose)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	config := NewAppConfig(nil) // Logger is created once flags are parsed
	ctx := context.WithValue(context.Background(), ConfigKey, config)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrLintFailed) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// ExitCode maps an Execute error to a process exit status: 1 when lint
// problems at error severity were found and 2 for any other failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrLintFailed):
		return 1
	default:
		return 2
	}
}

func appConfigFrom(cmd *cobra.Command) *AppConfig {
	if ctx := cmd.Context(); ctx != nil {
		if app, ok := ctx.Value(ConfigKey).(*AppConfig); ok {
			return app
		}
	}
	return nil
}

// loggerFrom returns the command's logger, falling back to a stderr logger
// when the command runs outside Execute.
func loggerFrom(cmd *cobra.Command) *logger.StructuredLogger {
	if app := appConfigFrom(cmd); app != nil {
		if l, ok := app.Logger.(*logger.StructuredLogger); ok {
			return l
		}
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logger.NewStructured(os.Stderr, verbose)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
