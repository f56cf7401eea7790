// Command sieve runs the conut sieve-of-Eratosthenes demo: a candidate
// generator coroutine and a growing chain of filter coroutines, driven
// to completion by a single conut.Scheduler.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vanrein/conut"
	"github.com/vanrein/conut/sieve"
)

var (
	version = "dev"

	sieveLimit    uint64
	sieveLogLevel string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "sieve",
	Short:   "Run the conut sieve-of-Eratosthenes demo",
	Long:    "Runs a concurrent sieve of Eratosthenes on top of the conut coroutine runtime: one coroutine per discovered prime, connected by pipe nuts into a growing pipeline.",
	Version: version,
	RunE:    runSieve,
}

func init() {
	rootCmd.SilenceErrors = true

	rootCmd.Flags().Uint64VarP(&sieveLimit, "limit", "l", 100, "print every prime strictly below this bound")
	rootCmd.PersistentFlags().StringVar(&sieveLogLevel, "log-level", "", "log level (debug, info, warn, error); empty disables logging")
}

func runSieve(cmd *cobra.Command, args []string) error {
	var opts []conut.Option
	if sieveLogLevel != "" {
		level, err := zerolog.ParseLevel(sieveLogLevel)
		if err != nil {
			return fmt.Errorf("sieve: invalid --log-level %q: %w", sieveLogLevel, err)
		}
		logger := zerolog.New(cmd.ErrOrStderr()).Level(level).With().Timestamp().Logger()
		opts = append(opts, conut.WithLogger(logger))
	}

	return sieve.Run(sieveLimit, cmd.OutOrStdout(), opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
