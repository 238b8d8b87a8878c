// Package project handles changekeeper project directories: scaffolding the
// standard layout and loading the configured changelog set.
package project

import (
	_ "embed"
	"os"
	"path/filepath"
	"testing/fstest"

	"github.com/changekeeper/changekeeper/pkg/consts"
	"github.com/changekeeper/changekeeper/pkg/parser"
	"github.com/pkg/errors"
)

var (
	//go:embed embed/0001_init.sql
	defaultChangelogSQL []byte

	//go:embed embed/changekeeper.yaml
	defaultConfig []byte

	image = fstest.MapFS{
		"db":                          {Mode: os.ModeDir | consts.ModeDir},
		"db/changelogs":               {Mode: os.ModeDir | consts.ModeDir},
		"db/changelogs/0001_init.sql": {Data: defaultChangelogSQL},
		consts.ConfigFileName:         {Data: defaultConfig},
	}
)

type (
	// ProjectParams configures a Project.
	ProjectParams struct {
		// Dir is the project root.
		Dir string

		// Registry selects parsers for changelog files. Defaults to
		// parser.Default.
		Registry *parser.Registry
	}

	Project struct {
		root     string
		registry *parser.Registry
	}
)

// New creates a Project rooted at p.Dir.
func New(p ProjectParams) *Project {
	registry := p.Registry
	if registry == nil {
		registry = parser.Default
	}

	return &Project{root: p.Dir, registry: registry}
}

// Root returns the project root directory.
func (p *Project) Root() string {
	return p.root
}

// Initialize sets up the project directory structure and starter files. It
// is idempotent: existing files and directories are left untouched.
func (p *Project) Initialize() error {
	for _, name := range []string{"db", "db/changelogs"} {
		if err := os.MkdirAll(filepath.Join(p.root, name), consts.ModeDir); err != nil {
			return errors.Wrapf(err, "failed to create dir: %s", name)
		}
	}

	for name, file := range image {
		if file.Mode.IsDir() {
			continue
		}

		path := filepath.Join(p.root, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to stat: %s", path)
		}

		if err := os.WriteFile(path, file.Data, consts.ModeFile); err != nil {
			return errors.Wrapf(err, "failed to write: %s", path)
		}
	}

	return nil
}
