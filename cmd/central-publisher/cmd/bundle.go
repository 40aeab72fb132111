package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oshokin/central-publisher/internal/config"
	"github.com/oshokin/central-publisher/internal/service/publisher"
)

var (
	// clean removes an archive left by a previous run.
	clean bool

	// bundleCmd builds the archive without uploading it.
	bundleCmd = &cobra.Command{
		Use:   "bundle",
		Short: "Build the signed and checksummed bundle archive without uploading it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			result, err := publisher.RunBundle(cmd.Context(), &publisher.Options{
				Config: cfg,
				Clean:  clean,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(cfg.BuildDir, result.Archive.Path))

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	bundleCmd.Flags().BoolVar(&clean, "clean", false, "remove an archive left by a previous run")
	rootCmd.AddCommand(bundleCmd)
}
