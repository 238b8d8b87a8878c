package project

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/changekeeper/changekeeper/pkg/config"
	"github.com/changekeeper/changekeeper/pkg/params"
	"github.com/changekeeper/changekeeper/pkg/resource"
	"github.com/pkg/errors"
)

type (
	// ChangelogSet is every parsed changelog from the project's changelog
	// directory, in lexical file order. Each changelog's parent is the one
	// parsed before it, so rollback references can reach back across files.
	ChangelogSet struct {
		// Changelogs holds the parsed files in lexical order.
		Changelogs []*changelog.ChangeLog

		// Skipped lists .sql files in the directory no registered parser
		// supported (e.g. plain SQL without the formatted header).
		Skipped []string

		params *params.Parameters
	}
)

// Params returns the parameter registry the set was parsed with: the
// configured properties plus everything registered by property directives.
func (cs *ChangelogSet) Params() *params.Parameters {
	return cs.params
}

// TotalChangeSets counts changesets across all changelogs in the set.
func (cs *ChangelogSet) TotalChangeSets() int {
	total := 0
	for _, log := range cs.Changelogs {
		total += len(log.ChangeSets)
	}
	return total
}

// Find locates a changeset by (path, author, id) anywhere in the set.
func (cs *ChangelogSet) Find(path, author, id string) *changelog.ChangeSet {
	for _, log := range cs.Changelogs {
		if found := log.ChangeSet(path, author, id); found != nil {
			return found
		}
	}
	return nil
}

// LoadChangelogSet parses every supported changelog file in the configured
// directory, in lexical order, chaining each file to the previously parsed
// one as its parent. Properties from the configuration are registered before
// parsing begins.
//
// Only files ending in .sql are considered; other files are ignored and not
// recorded. A .sql file no parser supports is skipped and recorded in Skipped
// rather than failing the load.
func (p *Project) LoadChangelogSet(cfg *config.Config) (*ChangelogSet, error) {
	if cfg == nil {
		return nil, errors.New("changekeeper.yaml not found")
	}

	dir := filepath.Join(p.root, cfg.Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dir: %s", cfg.Dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	set := &ChangelogSet{params: cfg.Parameters()}
	accessor := resource.FS(os.DirFS(dir))

	var parent *changelog.ChangeLog
	for _, name := range names {
		pr, err := p.registry.ForFile(name, accessor)
		if err != nil {
			set.Skipped = append(set.Skipped, name)
			continue
		}

		log, err := pr.ParseWithParent(name, set.params, accessor, parent)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse changelog: %s", name)
		}

		set.Changelogs = append(set.Changelogs, log)
		parent = log
	}

	return set, nil
}
