package parser

import "github.com/changekeeper/changekeeper/pkg/changelog"

type (
	// Dialect describes one host language's take on the formatted changelog
	// format: its comment tokens, which files it claims, how its change
	// values are built and mutated, and any dialect-specific directive
	// handling. The parser itself is dialect-agnostic and drives everything
	// through this capability record.
	Dialect struct {
		// Name identifies the dialect (e.g. "sql").
		Name string

		// SingleLineComment is the literal token opening a directive line
		// (e.g. "--" for SQL).
		SingleLineComment string

		// StartMultiLineComment and EndMultiLineComment delimit multi-line
		// comments in the host language (e.g. "/*" and "*/"). They are
		// required for multi-line rollback blocks.
		StartMultiLineComment string
		EndMultiLineComment   string

		// SequenceType labels the change sequence in error messages
		// (e.g. "SQL").
		SequenceType string

		// DocumentationLink is referenced in formatting error messages.
		DocumentationLink string

		// SupportsExtension reports whether this dialect handles the given
		// changelog path.
		SupportsExtension func(path string) bool

		// NewChange builds an empty change value of the dialect's type, used
		// for both primary and rollback changes.
		NewChange func() changelog.Change

		// SetChangeSequence installs already-expanded sequence text into a
		// change.
		SetChangeSequence func(change changelog.Change, text string)

		// SetFinalChangeSequence installs the end-of-file body into the
		// change, trimming and expanding parameters itself. cs provides the
		// expansion scope.
		SetFinalChangeSequence func(params changelog.Parameters, sequence string, cs *changelog.ChangeSet, change changelog.Change)

		// SetSplitStatements, SetStripComments, and SetEndDelimiter mutate
		// the corresponding execution policy on a change of the dialect's
		// type.
		SetSplitStatements func(change changelog.Change, split bool)
		SetStripComments   func(change changelog.Change, strip bool)
		SetEndDelimiter    func(change changelog.Change, delimiter string)

		// IsEndDelimiter reports whether the dialect's final-delimiter
		// heuristic applies to the assembled change. When it does, the
		// parser forces the end delimiter to "\n/$" at end of file.
		IsEndDelimiter func(change changelog.Change) bool

		// HandlePreconditions parses the remainder of a preconditions
		// directive line (everything after the keyword) and attaches the
		// resulting container to cs. lineNo is the source line for error
		// reporting.
		HandlePreconditions func(cs *changelog.ChangeSet, lineNo int, rest string) error
	}
)

func (d Dialect) supports(path string) bool {
	return d.SupportsExtension == nil || d.SupportsExtension(path)
}
