package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/changekeeper/changekeeper/pkg/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type statusParams struct {
	fx.In

	Config *config.Config
}

// NewStatusCommand creates the status command: parse the project's whole
// changelog directory and report per-file and aggregate changeset counts.
//
// Example usage:
//
//	# Summarize the configured changelog directory
//	changekeeper status
func NewStatusCommand(p statusParams) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show changelog status for the project",
		Before: requireConfig(p.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if currentProject == nil {
				return errors.New("changekeeper.yaml not found")
			}

			slog.Info("Loading changelog set", "dir", p.Config.Dir)

			set, err := currentProject.LoadChangelogSet(p.Config)
			if err != nil {
				return err
			}

			for _, log := range set.Changelogs {
				fmt.Fprintf(cmd.Writer, "%s: %d changeset(s)\n", log.PhysicalFilePath, len(log.ChangeSets))
			}
			for _, name := range set.Skipped {
				fmt.Fprintf(cmd.Writer, "%s: skipped (not a formatted changelog)\n", name)
			}

			fmt.Fprintf(cmd.Writer, "total: %d changeset(s) across %d file(s)\n",
				set.TotalChangeSets(), len(set.Changelogs))
			return nil
		},
	}
}
