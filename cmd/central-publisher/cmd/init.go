package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/central-publisher/internal/config"
)

var (
	// force overwrites an existing configuration file.
	force bool

	// errConfigExists is returned when init would overwrite a configuration.
	errConfigExists = errors.New("configuration file already exists, use --force to overwrite")

	// initCmd writes a starter configuration.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file.",
		Long: `Writes an example configuration for a Java library to the --config path.
Secrets are never written, provide them through CENTRAL_PUBLISHER_PASSWORD,
CENTRAL_PUBLISHER_TOKEN and CENTRAL_PUBLISHER_SIGNING_PASSPHRASE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%w: %s", errConfigExists, configPath)
			}

			if err := config.Save(configPath, config.Example()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), configPath)

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}
