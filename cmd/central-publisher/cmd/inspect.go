package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/oshokin/central-publisher/internal/archive"
	"github.com/oshokin/central-publisher/internal/config"
)

var (
	// extractDir unpacks the archive into this directory when set.
	extractDir string

	// inspectCmd lists or unpacks a bundle archive.
	inspectCmd = &cobra.Command{
		Use:   "inspect [archive]",
		Short: "List the entries of a bundle archive, optionally extracting them.",
		Long: `Lists the entries of the given archive, or of the archive built for the configured
coordinate when no path is given. With --extract the entries are unpacked into the
directory, entries escaping it are rejected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := archivePath(args)
			if err != nil {
				return err
			}

			fs := osfs.New(filepath.Dir(path))
			name := filepath.Base(path)

			var entries []string
			if extractDir != "" {
				entries, err = archive.Extract(cmd.Context(), fs, name, extractDir)
			} else {
				entries, err = archive.List(fs, name)
			}

			if err != nil {
				return err
			}

			for _, entry := range entries {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), entry)
			}

			return nil
		},
	}
)

func archivePath(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}

	return filepath.Join(cfg.BuildDir, archive.FileName(cfg.Coordinate)), nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	inspectCmd.Flags().StringVarP(&extractDir, "extract", "x", "", "directory to unpack the archive into")
	rootCmd.AddCommand(inspectCmd)
}
