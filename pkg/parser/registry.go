package parser

import (
	"sort"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/changekeeper/changekeeper/pkg/resource"
	"github.com/pkg/errors"
)

type (
	// ChangeLogParser is the contract a registry dispatches on. Parser
	// implements it for every dialect; alternative implementations can be
	// registered alongside.
	ChangeLogParser interface {
		// Supports reports whether this parser can handle the given file.
		Supports(path string, accessor resource.Accessor) bool

		// Priority orders parsers during dispatch; higher wins.
		Priority() int

		// Parse produces the in-memory changelog for path.
		Parse(path string, params changelog.Parameters, accessor resource.Accessor) (*changelog.ChangeLog, error)

		// ParseWithParent parses like Parse, recording parent for rollback
		// reference resolution across files.
		ParseWithParent(path string, params changelog.Parameters, accessor resource.Accessor, parent *changelog.ChangeLog) (*changelog.ChangeLog, error)
	}

	// Registry selects the highest-priority parser that supports a file.
	Registry struct {
		parsers []ChangeLogParser
	}
)

// Default dispatches across the dialects shipped with this package.
var Default = NewRegistry(New(SQL))

// NewRegistry returns a registry holding the given parsers.
func NewRegistry(parsers ...ChangeLogParser) *Registry {
	r := &Registry{}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// Register adds a parser to the registry.
func (r *Registry) Register(p ChangeLogParser) {
	r.parsers = append(r.parsers, p)
}

// ForFile returns the highest-priority registered parser whose Supports
// accepts the file. Registration order breaks priority ties.
func (r *Registry) ForFile(path string, accessor resource.Accessor) (ChangeLogParser, error) {
	sorted := make([]ChangeLogParser, len(r.parsers))
	copy(sorted, r.parsers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})

	for _, p := range sorted {
		if p.Supports(path, accessor) {
			return p, nil
		}
	}

	return nil, errors.Errorf("no parser supports changelog: %s", path)
}
