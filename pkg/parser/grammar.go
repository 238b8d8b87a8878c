package parser

import (
	"fmt"
	"regexp"
)

// Changeset attribute and rollback-reference patterns. These are applied to
// the full text of a directive line (or a rollback buffer) and are
// independent of the dialect's comment tokens, so they are compiled once.
//
// Each pattern deliberately matches its key anywhere in the line, mirroring
// the free-standing key:value placement rules of the format.
var (
	stripCommentsPattern           = regexp.MustCompile(`(?i)^.*stripComments:(\w+).*$`)
	splitStatementsPattern         = regexp.MustCompile(`(?i)^.*splitStatements:(\w+).*$`)
	rollbackSplitStatementsPattern = regexp.MustCompile(`(?i)^.*rollbackSplitStatements:(\w+).*$`)
	endDelimiterPattern            = regexp.MustCompile(`(?i)^.*endDelimiter:(\S*).*$`)
	rollbackEndDelimiterPattern    = regexp.MustCompile(`(?i)^.*rollbackEndDelimiter:(\S*).*$`)
	runWithPattern                 = regexp.MustCompile(`(?i)^.*runWith:([\w${}]+).*$`)
	runWithSpoolFilePattern        = regexp.MustCompile(`(?i)^.*runWithSpoolFile:(.*).*$`)
	runOnChangePattern             = regexp.MustCompile(`(?i)^.*runOnChange:(\w+).*$`)
	runAlwaysPattern               = regexp.MustCompile(`(?i)^.*runAlways:(\w+).*$`)
	contextPattern                 = regexp.MustCompile(`(?i)^.*context:(".*"|\S*).*$`)
	contextFilterPattern           = regexp.MustCompile(`(?i)^.*contextFilter:(".*"|\S*).*$`)
	logicalFilePathPattern         = regexp.MustCompile(`(?i)^.*logicalFilePath:(\S*).*$`)
	labelsPattern                  = regexp.MustCompile(`(?i)^.*labels:(\S*).*$`)
	runInTransactionPattern        = regexp.MustCompile(`(?i)^.*runInTransaction:(\w+).*$`)
	dbmsPattern                    = regexp.MustCompile(`(?i)^.*dbms:([^,][\w!,]+).*$`)
	ignoreAttrPattern              = regexp.MustCompile(`(?i)^.*ignore:(\w*).*$`)
	failOnErrorPattern             = regexp.MustCompile(`(?i)^.*failOnError:(\w+).*$`)

	onFailPattern      = regexp.MustCompile(`(?i)^.*onFail:(\w+).*$`)
	onErrorPattern     = regexp.MustCompile(`(?i)^.*onError:(\w+).*$`)
	onUpdateSQLPattern = regexp.MustCompile(`(?i)^.*onUpdateSQL:(\w+).*$`)
	onSQLOutputPattern = regexp.MustCompile(`(?i)^.*onSqlOutput:(\w+).*$`)

	rollbackChangeSetIDPattern     = regexp.MustCompile(`(?i)^.*changeSetId:(\S+).*$`)
	rollbackChangeSetAuthorPattern = regexp.MustCompile(`(?i)^.*changesetAuthor:(\S+).*$`)
	rollbackChangeSetPathPattern   = regexp.MustCompile(`(?i)^.*changesetPath:(\S+).*$`)

	notRequiredPattern = regexp.MustCompile(`(?i)^not required.*$`)

	// The three accepted shapes of a sql-check precondition body: bare-word,
	// single-quoted, and double-quoted expected results. The optional
	// expectedResult: prefix is accepted on all of them. A body matching
	// none of the three is a parse error.
	sqlCheckPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:expectedResult:)?(\w+) (.*)$`),
		regexp.MustCompile(`(?i)^(?:expectedResult:)?'([^']+)' (.*)$`),
		regexp.MustCompile(`(?i)^(?:expectedResult:)?"([^"]+)" (.*)$`),
	}
)

type (
	// grammar is the full directive pattern table for one dialect: the
	// primary directive family plus the alt-dash family of near-miss shapes
	// that exist only to produce precise formatting errors.
	grammar struct {
		comment string // quoted single-line comment token fragment

		firstLine *regexp.Regexp

		property           *regexp.Regexp
		propertyRest       *regexp.Regexp
		altPropertyOneDash *regexp.Regexp

		changeSet               *regexp.Regexp
		altChangeSetOneDash     *regexp.Regexp
		altChangeSetNoOtherInfo *regexp.Regexp

		rollback           *regexp.Regexp
		altRollbackOneDash *regexp.Regexp

		preconditions           *regexp.Regexp
		altPreconditionsOneDash *regexp.Regexp
		precondition            *regexp.Regexp
		altPreconditionOneDash  *regexp.Regexp

		commentDirective  *regexp.Regexp
		altCommentPlural  *regexp.Regexp
		altCommentOneDash *regexp.Regexp

		validCheckSum           *regexp.Regexp
		altValidCheckSumOneDash *regexp.Regexp

		ignoreLines           *regexp.Regexp
		altIgnoreLinesOneDash *regexp.Regexp
		altIgnore             *regexp.Regexp

		rollbackMultiLineStart *regexp.Regexp
		rollbackMultiLineEnd   *regexp.Regexp
		multiLineEndSplit      *regexp.Regexp
	}
)

// newGrammar compiles the directive table for the given dialect's comment
// tokens.
func newGrammar(d Dialect) *grammar {
	c := regexp.QuoteMeta(d.SingleLineComment)
	start := regexp.QuoteMeta(d.StartMultiLineComment)
	end := regexp.QuoteMeta(d.EndMultiLineComment)

	return &grammar{
		comment: c,

		firstLine: regexp.MustCompile(fmt.Sprintf(`(?i)^%s\s*liquibase formatted.*$`, c)),

		property:           regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s[\s]*property\s+(.*:.*)\s+(.*:.*).*$`, c)),
		propertyRest:       regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s[\s]*property\s+(.*)$`, c)),
		altPropertyOneDash: regexp.MustCompile(`(?i)^\s*?[-]+\s*property\s.*$`),

		changeSet:               regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s[\s]*changeset\s+("[^"]+"|[^:]+):\s*("[^"]+"|\S+).*$`, c)),
		altChangeSetOneDash:     regexp.MustCompile(`(?i)^\-[\s]*changeset\s.*$`),
		altChangeSetNoOtherInfo: regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s[\s]*changeset[\s]*.*$`, c)),

		rollback:           regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s[\s]*rollback (.*)$`, c)),
		altRollbackOneDash: regexp.MustCompile(`(?i)^\s*\-[\s]*rollback\s.*$`),

		preconditions:           regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s[\s]*preconditions(.*)$`, c)),
		altPreconditionsOneDash: regexp.MustCompile(`(?i)^\s*\-[\s]*preconditions\s.*$`),
		precondition:            regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s[\s]*precondition\-([a-zA-Z0-9-]+) (.*)$`, c)),
		altPreconditionOneDash:  regexp.MustCompile(`(?i)^\s*\-[\s]*precondition(.*)$`),

		commentDirective:  regexp.MustCompile(fmt.Sprintf(`(?i)^%s[\s]*comment:? (.*)$`, c)),
		altCommentPlural:  regexp.MustCompile(fmt.Sprintf(`(?i)^%s[\s]*comments:? (.*)$`, c)),
		altCommentOneDash: regexp.MustCompile(`(?i)^\-[\s]*comment:? (.*)$`),

		validCheckSum:           regexp.MustCompile(fmt.Sprintf(`(?i)^%s[\s]*validCheckSum:? (.*)$`, c)),
		altValidCheckSumOneDash: regexp.MustCompile(`(?i)^\-[\s]*validCheckSum(.*)$`),

		ignoreLines:           regexp.MustCompile(fmt.Sprintf(`(?i)^%s[\s]*ignoreLines:(\w+)$`, c)),
		altIgnoreLinesOneDash: regexp.MustCompile(`(?i)^\-[\s]*?ignoreLines:(\w+).*$`),
		altIgnore:             regexp.MustCompile(fmt.Sprintf(`(?i)^%s[\s]*ignore:(\w+)$`, c)),

		rollbackMultiLineStart: regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s\s*liquibase\s*rollback\s*$`, start)),
		rollbackMultiLineEnd:   regexp.MustCompile(fmt.Sprintf(`(?i)^.*\s*%s\s*$`, end)),
		multiLineEndSplit:      regexp.MustCompile(fmt.Sprintf(`%s\s*$`, end)),
	}
}

// changeSetAuthorIDPattern builds the strict author:id adjacency check for a
// single changeset line: the literal author and id, exactly as captured, must
// be joined by a colon with no surrounding whitespace.
func (g *grammar) changeSetAuthorIDPattern(author, id string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s[\s]*changeset\s+%s.*$`, g.comment, regexp.QuoteMeta(author+":"+id)))
}

// matchValue applies a single-group pattern and reports the captured value
// along with whether the pattern matched at all. Patterns with optional-empty
// groups (such as endDelimiter) rely on the second return to distinguish
// "matched empty" from "absent".
func matchValue(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
