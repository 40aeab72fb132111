package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/central-publisher/internal/config"
	"github.com/oshokin/central-publisher/internal/logger"
	"github.com/oshokin/central-publisher/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel is the minimum level of log messages written to stderr.
	logLevel string

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "central-publisher",
		Short: "Bundle, sign and publish Maven artifacts to the Central Publisher Portal.",
		Long: `Stages built artifacts in the Maven repository layout, signs them with an OpenPGP key,
writes MD5 and SHA-1 checksums plus the configured extras, archives the tree and uploads
it to the Central Publisher Portal.

Deployments can then be inspected, dropped or promoted. The last uploaded deployment is
recorded in the build directory and used when no deployment id is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.SetLevelFromString(logLevel)
		},
	}
)

// Execute runs the central-publisher CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Command failed", "error", err)
	}

	stop()
	logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup persistent flags shared by every subcommand.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}
