package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/changekeeper/changekeeper/pkg/params"
	"github.com/changekeeper/changekeeper/pkg/parser"
	"github.com/changekeeper/changekeeper/pkg/resource"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// parseCmd creates the parse command: parse one formatted changelog file and
// print a summary of its changesets.
//
// Example usage:
//
//	# Summarize a changelog
//	changekeeper parse db/changelogs/0001_init.sql
func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a changelog and summarize its changesets",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("a changelog file is required")
			}

			log, err := parseChangelogFile(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.Writer, "%s: %d changeset(s)\n", path, len(log.ChangeSets))
			for _, cs := range log.ChangeSets {
				fmt.Fprintf(cmd.Writer, "  %s (rollbacks: %d)%s\n", cs, len(cs.RollbackChanges), changeSetNotes(cs))
			}

			return nil
		},
	}
}

// parseChangelogFile dispatches through the default registry so the right
// dialect handles the file.
func parseChangelogFile(path string) (*changelog.ChangeLog, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	accessor := resource.FS(os.DirFS(dir))

	p, err := parser.Default.ForFile(name, accessor)
	if err != nil {
		return nil, err
	}

	return p.Parse(name, params.New(), accessor)
}

func changeSetNotes(cs *changelog.ChangeSet) string {
	notes := ""
	if cs.Preconditions != nil {
		notes += " [preconditions]"
	}
	if cs.Ignore {
		notes += " [ignored]"
	}
	return notes
}
