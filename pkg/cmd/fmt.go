package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/changekeeper/changekeeper/pkg/consts"
	"github.com/changekeeper/changekeeper/pkg/format"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// fmtCmd creates the fmt command: parse a formatted changelog and re-emit it
// in canonical directive form, either to stdout (default) or back to the
// source file with -w.
//
// Example usage:
//
//	# Print the canonical form
//	changekeeper fmt db/changelogs/0001_init.sql
//
//	# Rewrite the file in place
//	changekeeper fmt -w db/changelogs/0001_init.sql
func fmtCmd() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Format a changelog in canonical directive form",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write result to the source file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("a changelog file is required")
			}

			log, err := parseChangelogFile(path)
			if err != nil {
				return err
			}

			if !cmd.Bool("write") {
				return format.Write(cmd.Writer, log)
			}

			var buf strings.Builder
			if err := format.Write(&buf, log); err != nil {
				return err
			}

			if err := os.WriteFile(path, []byte(buf.String()), consts.ModeFile); err != nil {
				return errors.Wrapf(err, "failed to write: %s", path)
			}
			return nil
		},
	}
}
