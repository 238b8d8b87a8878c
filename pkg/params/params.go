// Package params implements the changelog parameter registry used for
// ${name} expression expansion during parsing.
//
// Parameters are registered either programmatically (typically from project
// configuration) or by property directives encountered while a changelog is
// parsed. Registration order matters: the first registration of a name wins,
// so properties defined earlier shadow later redefinitions.
package params

import (
	"regexp"
	"strings"

	"github.com/changekeeper/changekeeper/pkg/changelog"
)

var expressionPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

type (
	// Parameters is the standard changelog.Parameters implementation: an
	// ordered registry of named values with optional changelog-local scoping.
	//
	// The zero value is not usable; call New.
	Parameters struct {
		entries []entry
	}

	entry struct {
		name          string
		value         string
		contextFilter string
		labels        string
		dbms          string
		global        bool

		// scope is the changelog a non-global parameter was declared in.
		scope *changelog.ChangeLog
	}
)

// New returns an empty parameter registry.
func New() *Parameters {
	return &Parameters{}
}

// Set registers a parameter. The contextFilter, labels, and dbms attributes
// are stored with the value for the execution engine's benefit; they do not
// affect expansion here. A parameter with global set to false is visible only
// from scope and changelogs parsed beneath it.
//
// A non-global parameter registered with a nil scope is bound to the first
// changelog it is looked up from.
//
// Registering a name twice does not overwrite the earlier value.
func (p *Parameters) Set(name, value, contextFilter, labels, dbms string, global bool, scope *changelog.ChangeLog) {
	p.entries = append(p.entries, entry{
		name:          strings.TrimSpace(name),
		value:         value,
		contextFilter: contextFilter,
		labels:        labels,
		dbms:          dbms,
		global:        global,
		scope:         scope,
	})
}

// Get returns the value of name as seen from scope. Name matching is
// case-insensitive; the earliest visible registration wins.
func (p *Parameters) Get(name string, scope *changelog.ChangeLog) (string, bool) {
	name = strings.TrimSpace(name)
	for i := range p.entries {
		e := &p.entries[i]
		if !strings.EqualFold(e.name, name) {
			continue
		}
		if !e.global && e.scope == nil && scope != nil {
			e.scope = scope
		}
		if e.visibleFrom(scope) {
			return e.value, true
		}
	}
	return "", false
}

// ExpandExpressions substitutes every ${name} token in text whose name is
// registered and visible from scope. Unrecognized tokens are left untouched,
// which makes expansion over token-free text the identity.
func (p *Parameters) ExpandExpressions(text string, scope *changelog.ChangeLog) string {
	if text == "" || !strings.Contains(text, "${") {
		return text
	}

	return expressionPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[2 : len(token)-1]
		if value, ok := p.Get(name, scope); ok {
			return value
		}
		return token
	})
}

// visibleFrom reports whether the entry can be seen from scope: global
// entries always, local entries only when their declaring changelog is scope
// itself or one of scope's ancestors.
func (e entry) visibleFrom(scope *changelog.ChangeLog) bool {
	if e.global {
		return true
	}
	for log := scope; log != nil; log = log.Parent {
		if log == e.scope {
			return true
		}
	}
	return false
}
