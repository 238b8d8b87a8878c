package changelog

import "strings"

type (
	// Change is a single unit of work attached to a changeset, either as its
	// primary change or as a rollback. Concrete types are supplied by the
	// parser dialect in use.
	Change interface {
		// Name identifies the change kind (e.g. "sql", "empty").
		Name() string
	}

	// SQLChange is a raw SQL change: the statement text plus the splitting
	// and comment-handling policy applied when it is executed.
	//
	// SplitStatements and StripComments are tri-state so that "explicitly
	// set" can be told apart from "defaulted"; both default to true.
	SQLChange struct {
		SQL string

		SplitStatements *bool
		StripComments   *bool

		// EndDelimiter is the statement delimiter override. Nil means the
		// executor's default applies.
		EndDelimiter *string
	}

	// EmptyChange is a change that does nothing. It is attached as the sole
	// rollback of a changeset whose rollback is declared "not required".
	EmptyChange struct{}
)

func (c *SQLChange) Name() string { return "sql" }

// SplitStatementsEnabled reports the effective statement-splitting policy.
func (c *SQLChange) SplitStatementsEnabled() bool {
	return c.SplitStatements == nil || *c.SplitStatements
}

// StripCommentsEnabled reports the effective comment-stripping policy.
func (c *SQLChange) StripCommentsEnabled() bool {
	return c.StripComments == nil || *c.StripComments
}

// EndsWithSlash reports whether the trimmed SQL text ends in a line holding a
// lone forward slash, the PL/SQL block terminator convention.
func (c *SQLChange) EndsWithSlash() bool {
	return strings.HasSuffix(strings.TrimSpace(c.SQL), "\n/")
}

func (c *EmptyChange) Name() string { return "empty" }
