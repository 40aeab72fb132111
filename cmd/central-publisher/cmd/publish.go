package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/central-publisher/internal/service/publisher"
)

var (
	// publishingType overrides the configured publishing type.
	publishingType string
	// publishWait keeps polling until the deployment settles.
	publishWait bool
	// publishClean removes an archive left by a previous run.
	publishClean bool

	// publishCmd builds and uploads the bundle.
	publishCmd = &cobra.Command{
		Use:   "publish",
		Short: "Build the bundle, upload it and record the deployment.",
		Long: `Builds the bundle like "bundle" does, uploads it to the publisher and records the
issued deployment id in the build directory. The deployment id is printed to stdout.

With --wait the command polls until the deployment is PUBLISHED, or VALIDATED for
USER_MANAGED deployments, and fails when validation fails or the poll timeout expires.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := publisher.Run(cmd.Context(), &publisher.Options{
				ConfigPath:     configPath,
				PublishingType: publishingType,
				Clean:          publishClean,
				Wait:           publishWait,
			})

			// The deployment exists remotely even when waiting for it failed.
			if result != nil && result.Record != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Record.ID)
			}

			if err != nil {
				return err
			}

			if result.Report != nil {
				printErrors(cmd, result.Report.Errors)
			}

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	publishCmd.Flags().
		StringVarP(&publishingType, "publishing-type", "t", "", "AUTOMATIC or USER_MANAGED, overrides the configuration")
	publishCmd.Flags().BoolVarP(&publishWait, "wait", "w", false, "wait until the deployment settles")
	publishCmd.Flags().BoolVar(&publishClean, "clean", false, "remove an archive left by a previous run")
	rootCmd.AddCommand(publishCmd)
}
