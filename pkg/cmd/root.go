package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/changekeeper/changekeeper/pkg/config"
	"github.com/changekeeper/changekeeper/pkg/consts"
	"github.com/changekeeper/changekeeper/pkg/project"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

var currentProject *project.Project

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run assembles and executes the changekeeper CLI application. Commands are
// contributed through the fx "commands" group; global behavior (project
// directory selection and detection) lives here.
//
// Global flags:
//   - --dir, -d: project directory (defaults to the current directory)
//
// The application detects changekeeper projects by looking for
// changekeeper.yaml in the selected directory. When found, the project is
// made available to subcommands.
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := &cli.Command{
		Name:  "changekeeper",
		Usage: "A tool for working with formatted SQL changelogs",
		Description: `changekeeper parses database changelogs written as formatted SQL: plain
SQL scripts whose changesets, rollbacks, preconditions, and properties are
declared through specially formed comments. It reports on changesets,
normalizes changelog files, and scaffolds new projects.`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "the project directory",
				Value:       ".",
				DefaultText: "Current directory",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			projectDir := cmd.String("dir")

			if err := os.Chdir(projectDir); err != nil {
				return ctx, err
			}

			_, err := os.Stat(consts.ConfigFileName)
			if os.IsNotExist(err) {
				return ctx, nil
			}
			if err != nil {
				return ctx, err
			}

			pwd, err := os.Getwd()
			if err != nil {
				return ctx, errors.Wrap(err, "failed to get current working directory")
			}

			currentProject = project.New(project.ProjectParams{Dir: pwd})
			return ctx, nil
		},
		Commands: p.Commands,
	}

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			slog.Error("Error running command", "err", err)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

func requireConfig(cfg *config.Config) func(context.Context, *cli.Command) (context.Context, error) {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if cfg == nil {
			return ctx, errors.New("changekeeper.yaml not found")
		}

		return ctx, nil
	}
}
