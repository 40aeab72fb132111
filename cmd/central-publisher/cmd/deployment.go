package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/central-publisher/internal/service/deployment"
)

var (
	// deploymentID overrides the recorded deployment.
	deploymentID string
	// statusWait keeps polling until the deployment settles.
	statusWait bool

	// statusCmd prints the state of a deployment.
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print the state of a deployment and its validation errors.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := deployment.Status(cmd.Context(), deploymentOptions())
			if report != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", report.ID, report.State)
				printErrors(cmd, report.Errors)
			}

			return err
		},
	}

	// dropCmd deletes a deployment that is not published yet.
	dropCmd = &cobra.Command{
		Use:   "drop",
		Short: "Drop a deployment that is not published yet.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := deployment.Drop(cmd.Context(), deploymentOptions())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)

			return err
		},
	}

	// promoteCmd publishes a validated USER_MANAGED deployment.
	promoteCmd = &cobra.Command{
		Use:   "promote",
		Short: "Publish a validated USER_MANAGED deployment.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := deployment.Promote(cmd.Context(), deploymentOptions())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)

			return err
		},
	}
)

func deploymentOptions() *deployment.Options {
	return &deployment.Options{
		ConfigPath:   configPath,
		DeploymentID: deploymentID,
		Wait:         statusWait,
	}
}

func printErrors(cmd *cobra.Command, messages []string) {
	for _, message := range messages {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  "+message)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	for _, c := range []*cobra.Command{statusCmd, dropCmd, promoteCmd} {
		c.Flags().StringVarP(&deploymentID, "deployment-id", "d", "", "deployment to act on, the recorded one when empty")
		rootCmd.AddCommand(c)
	}

	statusCmd.Flags().BoolVarP(&statusWait, "wait", "w", false, "wait until the deployment settles")
}
