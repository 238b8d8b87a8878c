package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/changekeeper/changekeeper/pkg/project"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// initCmd creates the init command: scaffold a changekeeper project in the
// current directory, with the standard layout and a starter changelog.
func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new changekeeper project",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, "failed to get current working directory")
			}

			p := currentProject
			if p == nil {
				p = project.New(project.ProjectParams{Dir: pwd})
			}

			if err := p.Initialize(); err != nil {
				return err
			}

			slog.Info("Project initialized", "dir", p.Root())
			return nil
		},
	}
}
