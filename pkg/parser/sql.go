package parser

import (
	"strings"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/pkg/errors"
)

// SQL is the SQL dialect: formatted changelogs embedded in .sql scripts with
// `--` directive comments and `/* ... */` multi-line rollback blocks.
var SQL = Dialect{
	Name:                  "sql",
	SingleLineComment:     "--",
	StartMultiLineComment: "/*",
	EndMultiLineComment:   "*/",
	SequenceType:          "SQL",
	DocumentationLink:     "https://docs.liquibase.com/concepts/changelogs/sql-format.html",

	SupportsExtension: func(path string) bool {
		return strings.HasSuffix(strings.ToLower(path), ".sql")
	},

	NewChange: func() changelog.Change {
		return &changelog.SQLChange{}
	},

	SetChangeSequence: func(change changelog.Change, text string) {
		change.(*changelog.SQLChange).SQL = text
	},

	SetFinalChangeSequence: func(params changelog.Parameters, sequence string, cs *changelog.ChangeSet, change changelog.Change) {
		text := strings.TrimSpace(sequence)
		if params != nil {
			text = params.ExpandExpressions(text, cs.ChangeLog)
		}
		change.(*changelog.SQLChange).SQL = text
	},

	SetSplitStatements: func(change changelog.Change, split bool) {
		change.(*changelog.SQLChange).SplitStatements = &split
	},

	SetStripComments: func(change changelog.Change, strip bool) {
		change.(*changelog.SQLChange).StripComments = &strip
	},

	SetEndDelimiter: func(change changelog.Change, delimiter string) {
		change.(*changelog.SQLChange).EndDelimiter = &delimiter
	},

	IsEndDelimiter: func(change changelog.Change) bool {
		sc, ok := change.(*changelog.SQLChange)
		return ok && sc.EndDelimiter == nil && sc.EndsWithSlash()
	},

	HandlePreconditions: sqlPreconditions,
}

// sqlPreconditions parses the SQL dialect's precondition container header:
// onFail and onError policies plus at most one of onSqlOutput / onUpdateSql.
func sqlPreconditions(cs *changelog.ChangeSet, _ int, rest string) error {
	pc := &changelog.PreconditionContainer{}

	if v, ok := matchValue(onFailPattern, rest); ok {
		pc.OnFail = strings.TrimSpace(v)
	}
	if v, ok := matchValue(onErrorPattern, rest); ok {
		pc.OnError = strings.TrimSpace(v)
	}

	sqlOutput, hasSQLOutput := matchValue(onSQLOutputPattern, rest)
	updateSQL, hasUpdateSQL := matchValue(onUpdateSQLPattern, rest)
	if hasSQLOutput && hasUpdateSQL {
		return errors.New("Please modify the changelog to have preconditions set with either onUpdateSql or onSqlOutput, not both.")
	}
	if hasSQLOutput {
		pc.OnSQLOutput = strings.TrimSpace(sqlOutput)
	} else if hasUpdateSQL {
		pc.OnUpdateSQL = strings.TrimSpace(updateSQL)
	}

	cs.Preconditions = pc
	return nil
}
