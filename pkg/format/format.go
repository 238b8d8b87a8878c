// Package format re-emits a parsed changelog in canonical formatted-SQL
// directive form. The output parses back to an equivalent changelog, which
// makes the formatter useful both as a normalizer (the CLI fmt command) and
// as the round-trip oracle in tests.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/pkg/errors"
)

const header = "--liquibase formatted sql"

// Write renders log in canonical directive form. Attributes are emitted only
// when they differ from their defaults, in a fixed order, so formatting is
// deterministic for a given changelog.
func Write(w io.Writer, log *changelog.ChangeLog) error {
	var buf strings.Builder

	buf.WriteString(header)
	if log.LogicalFilePath != "" {
		buf.WriteString(" logicalFilePath:")
		buf.WriteString(log.LogicalFilePath)
	}
	buf.WriteString("\n")

	for _, cs := range log.ChangeSets {
		buf.WriteString("\n")
		writeChangeSet(&buf, log, cs)
	}

	if _, err := io.WriteString(w, buf.String()); err != nil {
		return errors.Wrap(err, "failed to write changelog")
	}
	return nil
}

func writeChangeSet(buf *strings.Builder, log *changelog.ChangeLog, cs *changelog.ChangeSet) {
	buf.WriteString("--changeset ")
	buf.WriteString(quoteIfNeeded(cs.Author))
	buf.WriteString(":")
	buf.WriteString(quoteIfNeeded(cs.ID))
	writeAttributes(buf, log, cs)
	buf.WriteString("\n")

	if cs.Comments != "" {
		fmt.Fprintf(buf, "--comment: %s\n", cs.Comments)
	}

	writePreconditions(buf, cs.Preconditions)

	for _, sum := range cs.ValidChecksums {
		fmt.Fprintf(buf, "--validCheckSum: %s\n", sum)
	}

	for _, change := range cs.Changes {
		if sql, ok := change.(*changelog.SQLChange); ok {
			buf.WriteString(sql.SQL)
			buf.WriteString("\n")
		}
	}

	for _, change := range cs.RollbackChanges {
		writeRollback(buf, change)
	}
}

// writeAttributes emits the non-default changeset attributes. The order is
// fixed; runWithSpoolFile always comes last because its value extends to the
// end of the line.
func writeAttributes(buf *strings.Builder, log *changelog.ChangeLog, cs *changelog.ChangeSet) {
	if len(cs.Changes) == 1 {
		if sql, ok := cs.Changes[0].(*changelog.SQLChange); ok {
			if !sql.StripCommentsEnabled() {
				buf.WriteString(" stripComments:false")
			}
			if !sql.SplitStatementsEnabled() {
				buf.WriteString(" splitStatements:false")
			}
			// A "\n/$" delimiter came from the trailing-slash heuristic and
			// cannot be written inline; re-parsing restores it from the body.
			if sql.EndDelimiter != nil && *sql.EndDelimiter != "\n/$" {
				fmt.Fprintf(buf, " endDelimiter:%s", *sql.EndDelimiter)
			}
		}
	}

	if cs.RunOnChange {
		buf.WriteString(" runOnChange:true")
	}
	if cs.RunAlways {
		buf.WriteString(" runAlways:true")
	}
	if !cs.RunInTransaction {
		buf.WriteString(" runInTransaction:false")
	}
	if !cs.FailOnError {
		buf.WriteString(" failOnError:false")
	}
	if cs.ContextFilter != "" {
		fmt.Fprintf(buf, " contextFilter:%s", quoteIfSpaced(cs.ContextFilter))
	}
	if cs.Labels != "" {
		fmt.Fprintf(buf, " labels:%s", cs.Labels)
	}
	if cs.DBMS != "" {
		fmt.Fprintf(buf, " dbms:%s", cs.DBMS)
	}
	if cs.Ignore {
		buf.WriteString(" ignore:true")
	}
	if cs.LogicalFilePath != "" && cs.LogicalFilePath != log.FilePath() {
		fmt.Fprintf(buf, " logicalFilePath:%s", cs.LogicalFilePath)
	}
	if cs.RunWith != "" {
		fmt.Fprintf(buf, " runWith:%s", cs.RunWith)
	}
	if cs.RunWithSpoolFile != "" {
		fmt.Fprintf(buf, " runWithSpoolFile:%s", cs.RunWithSpoolFile)
	}
}

func writePreconditions(buf *strings.Builder, pc *changelog.PreconditionContainer) {
	if pc == nil {
		return
	}

	buf.WriteString("--preconditions")
	if pc.OnFail != "" {
		fmt.Fprintf(buf, " onFail:%s", pc.OnFail)
	}
	if pc.OnError != "" {
		fmt.Fprintf(buf, " onError:%s", pc.OnError)
	}
	if pc.OnSQLOutput != "" {
		fmt.Fprintf(buf, " onSqlOutput:%s", pc.OnSQLOutput)
	} else if pc.OnUpdateSQL != "" {
		fmt.Fprintf(buf, " onUpdateSql:%s", pc.OnUpdateSQL)
	}
	buf.WriteString("\n")

	for _, nested := range pc.Nested {
		if check, ok := nested.(*changelog.SQLCheckPrecondition); ok {
			fmt.Fprintf(buf, "--precondition-sql-check expectedResult:%s %s\n",
				quoteIfSpaced(check.ExpectedResult), check.SQL)
		}
	}
}

func writeRollback(buf *strings.Builder, change changelog.Change) {
	switch c := change.(type) {
	case *changelog.EmptyChange:
		buf.WriteString("--rollback not required\n")

	case *changelog.SQLChange:
		for _, line := range strings.Split(strings.TrimRight(c.SQL, "\n"), "\n") {
			fmt.Fprintf(buf, "--rollback %s\n", line)
		}
	}
}

// quoteIfNeeded wraps author/id values whose characters would confuse the
// changeset directive.
func quoteIfNeeded(v string) string {
	if strings.ContainsAny(v, " \t:") {
		return `"` + v + `"`
	}
	return v
}

func quoteIfSpaced(v string) string {
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}
