package parser

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/changekeeper/changekeeper/pkg/resource"
	"github.com/changekeeper/changekeeper/pkg/utils"
	"github.com/pkg/errors"
)

// PriorityDefault is the baseline parser priority. Formatted changelog
// parsers register above it so they win dispatch for files they support.
const PriorityDefault = 1

type (
	// Parser parses formatted changelogs for a single dialect. It is
	// stateless across invocations and safe to reuse; each Parse call
	// consumes one input stream synchronously and returns a fully built
	// ChangeLog or an error.
	Parser struct {
		dialect Dialect
		grammar *grammar
	}

	// run carries the state of a single parse: the changelog being built,
	// the changeset under construction, and the body/rollback accumulators
	// scoped to it.
	run struct {
		parser *Parser
		g      *grammar
		log    *changelog.ChangeLog
		params changelog.Parameters
		sc     *lineScanner

		body     strings.Builder
		rollback strings.Builder

		changeSet *changelog.ChangeSet
		change    changelog.Change

		rollbackSplitSet     bool
		rollbackSplit        bool
		rollbackEndDelimiter *string
	}
)

// New returns a parser for the given dialect. The directive grammar is
// compiled once here.
func New(d Dialect) *Parser {
	return &Parser{dialect: d, grammar: newGrammar(d)}
}

// Dialect returns the dialect this parser was built for.
func (p *Parser) Dialect() Dialect {
	return p.dialect
}

// Priority places formatted parsers above the default when a registry picks
// a parser for a file.
func (p *Parser) Priority() int {
	return PriorityDefault + 5
}

// Supports reports whether path holds a formatted changelog this parser can
// handle: the dialect must claim the extension and the first non-blank line
// must match the formatted-changelog header. I/O problems while probing make
// Supports return false rather than fail.
func (p *Parser) Supports(path string, accessor resource.Accessor) bool {
	if !p.dialect.supports(path) {
		return false
	}

	f, err := accessor.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	sc := newLineScanner(f)
	for {
		line, err := sc.ReadLine()
		if err != nil {
			return false
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		return p.grammar.firstLine.MatchString(line)
	}
}

// Parse reads the changelog at path and returns its in-memory form. params
// supplies ${name} expansion and receives property registrations; it may be
// nil, in which case expansion is the identity and properties are dropped.
func (p *Parser) Parse(path string, params changelog.Parameters, accessor resource.Accessor) (*changelog.ChangeLog, error) {
	return p.ParseWithParent(path, params, accessor, nil)
}

// ParseWithParent parses like Parse but records parent as the changelog this
// one is parsed beneath. The parser consults the parent chain only when a
// rollback references a changeset not defined in the current file; params
// also walks it when deciding whether a non-global parameter is visible.
func (p *Parser) ParseWithParent(path string, params changelog.Parameters, accessor resource.Accessor, parent *changelog.ChangeLog) (*changelog.ChangeLog, error) {
	log := &changelog.ChangeLog{
		PhysicalFilePath: path,
		Params:           params,
		Parent:           parent,
	}

	f, err := accessor.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open changelog: %s", path)
	}
	defer func() { _ = f.Close() }()

	r := &run{
		parser: p,
		g:      p.grammar,
		log:    log,
		params: params,
		sc:     newLineScanner(f),
	}

	if err := r.execute(); err != nil {
		return nil, err
	}

	return log, nil
}

func (r *run) execute() error {
	for {
		line, err := r.sc.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to read changelog")
		}

		if err := r.handleLine(line); err != nil {
			return err
		}
	}

	return r.finishAtEOF()
}

// handleLine classifies one line and applies its effect. Match order follows
// directive specificity: property, header, ignoreLines, changeset, then the
// changeset-scoped directives, with alt-dash near-misses raising formatting
// errors before a line can fall through to the body.
func (r *run) handleLine(line string) error {
	g := r.g

	if g.property.MatchString(line) {
		r.handleProperty(line)
		return nil
	}
	if g.altPropertyOneDash.MatchString(line) {
		return r.formatError("--property name:<property name> value:<property value>")
	}

	// A header line anywhere updates (or clears) the logical file path.
	if g.firstLine.MatchString(line) {
		v, _ := matchValue(logicalFilePathPattern, line)
		r.log.LogicalFilePath = v
	}

	if m := g.ignoreLines.FindStringSubmatch(line); m != nil {
		return r.handleIgnoreLines(m[1])
	}
	if g.altIgnoreLinesOneDash.MatchString(line) || g.altIgnore.MatchString(line) {
		return r.formatError("--ignoreLines:<count|start>")
	}

	if m := g.changeSet.FindStringSubmatch(line); m != nil {
		return r.beginChangeSet(line, m[1], m[2])
	}
	if g.altChangeSetOneDash.MatchString(line) || g.altChangeSetNoOtherInfo.MatchString(line) {
		return r.formatError("--changeset <authorname>:<changesetId>")
	}

	if r.changeSet != nil {
		return r.handleChangeSetLine(line)
	}

	if g.commentDirective.MatchString(line) {
		return errors.Errorf(
			"\nUnexpected formatting at line %d. Formatted %s changelogs do not allow comment lines outside of changesets. Learn all the options at %s",
			r.sc.Line(), r.parser.dialect.SequenceType, r.parser.dialect.DocumentationLink)
	}

	// Anything else before the first changeset is discarded.
	return nil
}

// handleChangeSetLine applies a line inside an open changeset: directives
// mutate the changeset, everything else accumulates into its body.
func (r *run) handleChangeSetLine(line string) error {
	g := r.g
	d := r.parser.dialect

	switch {
	case g.commentDirective.MatchString(line):
		m := g.commentDirective.FindStringSubmatch(line)
		r.changeSet.Comments = m[1]

	case g.altCommentOneDash.MatchString(line) || g.altCommentPlural.MatchString(line):
		return r.formatError("--comment <comment>")

	case g.validCheckSum.MatchString(line):
		m := g.validCheckSum.FindStringSubmatch(line)
		r.changeSet.AddValidChecksum(m[1])

	case g.altValidCheckSumOneDash.MatchString(line):
		return r.formatError("--validChecksum <checksum>")

	case g.rollback.MatchString(line):
		m := g.rollback.FindStringSubmatch(line)
		r.rollback.WriteString(m[1])
		r.rollback.WriteString("\n")

	case g.altRollbackOneDash.MatchString(line):
		return r.formatError("--rollback <rollback " + d.SequenceType + ">")

	case g.rollbackMultiLineStart.MatchString(line):
		return r.extractMultiLineRollback()

	case g.preconditions.MatchString(line):
		m := g.preconditions.FindStringSubmatch(line)
		return d.HandlePreconditions(r.changeSet, r.sc.Line(), m[1])

	case g.altPreconditionsOneDash.MatchString(line):
		return r.formatError("--preconditions <onFail>|<onError>|<onUpdate>")

	case g.precondition.MatchString(line):
		m := g.precondition.FindStringSubmatch(line)
		return r.handlePrecondition(strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))

	case g.altPreconditionOneDash.MatchString(line):
		return errors.Errorf(
			"\nUnexpected formatting at line %d. Formatted %s changelogs require known formats, such as '--precondition-sql-check' and others to be recognized and run. Learn all the options at `%s`",
			r.sc.Line(), d.SequenceType, d.DocumentationLink)

	default:
		r.body.WriteString(line)
		r.body.WriteString("\n")
	}

	return nil
}

// beginChangeSet finalizes any open changeset and opens a new one populated
// from the attribute sub-directives on the changeset line.
func (r *run) beginChangeSet(line, authorGroup, idGroup string) error {
	d := r.parser.dialect

	if r.changeSet != nil {
		body := strings.TrimSpace(r.body.String())
		if body == "" {
			return errors.Errorf("No %s for changeset %s", d.SequenceType, r.changeSet)
		}
		d.SetChangeSequence(r.change, r.expand(body))

		if err := r.attachRollback(); err != nil {
			return err
		}
	}

	stripComments := r.parseBool(stripCommentsPattern, line, true)
	splitStatements, splitStatementsSet := r.parseBoolSet(splitStatementsPattern, line, true)
	r.rollbackSplit, r.rollbackSplitSet = r.parseBoolSet(rollbackSplitStatementsPattern, line, true)
	runOnChange := r.parseBool(runOnChangePattern, line, false)
	runAlways := r.parseBool(runAlwaysPattern, line, false)
	runInTransaction := r.parseBool(runInTransactionPattern, line, true)
	failOnError := r.parseBool(failOnErrorPattern, line, true)

	runWith, _ := matchValue(runWithPattern, line)
	if runWith != "" {
		runWith = r.expand(runWith)
	}
	runWithSpoolFile, _ := matchValue(runWithSpoolFilePattern, line)
	if runWithSpoolFile != "" {
		runWithSpoolFile = r.expand(runWithSpoolFile)
	}

	endDelimiter, endDelimiterSet := matchValue(endDelimiterPattern, line)
	if v, ok := matchValue(rollbackEndDelimiterPattern, line); ok {
		r.rollbackEndDelimiter = &v
	} else {
		r.rollbackEndDelimiter = nil
	}

	// contextFilter wins over the legacy context attribute; surrounding
	// double quotes are stripped from either.
	contextValue, _ := matchValue(contextFilterPattern, line)
	context := stripContextQuotes(contextValue)
	if context == "" {
		contextValue, _ = matchValue(contextPattern, line)
		context = stripContextQuotes(contextValue)
	}
	if context != "" {
		context = r.expand(context)
	}

	labels, _ := matchValue(labelsPattern, line)
	if labels != "" {
		labels = r.expand(labels)
	}

	logicalFilePath, _ := matchValue(logicalFilePathPattern, line)
	if logicalFilePath == "" {
		logicalFilePath = r.log.LogicalFilePath
	}
	if logicalFilePath != "" {
		logicalFilePath = r.expand(logicalFilePath)
	}

	dbms, _ := matchValue(dbmsPattern, line)
	if dbms != "" {
		dbms = r.expand(dbms)
	}

	ignore, _ := matchValue(ignoreAttrPattern, line)
	if ignore != "" {
		ignore = r.expand(ignore)
	}

	// The author and id must be joined by a colon with no surrounding
	// whitespace; the capture groups alone are too permissive to catch that.
	if !r.g.changeSetAuthorIDPattern(authorGroup, idGroup).MatchString(line) {
		return r.formatError("--changeset <authorname>:<changesetId>")
	}

	id := r.expand(utils.StripEnclosingQuotes(idGroup))
	author := r.expand(utils.StripEnclosingQuotes(authorGroup))

	cs := changelog.NewChangeSet(id, author)
	cs.LogicalFilePath = normalizePath(logicalFilePath)
	cs.ContextFilter = context
	cs.Labels = labels
	cs.DBMS = dbms
	cs.RunWith = runWith
	cs.RunWithSpoolFile = runWithSpoolFile
	cs.RunAlways = runAlways
	cs.RunOnChange = runOnChange
	cs.RunInTransaction = runInTransaction
	cs.FailOnError = failOnError
	cs.Ignore = utils.ParseBool(ignore)
	cs.ObjectQuotingStrategy = r.log.ObjectQuotingStrategy
	r.log.AddChangeSet(cs)

	change := r.parser.dialect.NewChange()
	if splitStatementsSet {
		d.SetSplitStatements(change, splitStatements)
	}
	d.SetStripComments(change, stripComments)
	if endDelimiterSet {
		d.SetEndDelimiter(change, endDelimiter)
	}
	cs.AddChange(change)

	r.changeSet = cs
	r.change = change
	r.body.Reset()
	r.rollback.Reset()

	return nil
}

// finishAtEOF closes out the changeset left open when the input ends.
func (r *run) finishAtEOF() error {
	if r.changeSet == nil {
		return nil
	}

	d := r.parser.dialect

	body := strings.TrimSpace(r.body.String())
	if body == "" {
		return errors.Errorf("No %s for changeset %s", d.SequenceType, r.changeSet)
	}
	d.SetFinalChangeSequence(r.params, r.body.String(), r.changeSet, r.change)

	if d.IsEndDelimiter != nil && d.IsEndDelimiter(r.change) {
		d.SetEndDelimiter(r.change, "\n/$")
	}

	return r.attachRollback()
}

// attachRollback converts the accumulated rollback buffer into rollback
// changes on the current changeset. The buffer may declare the rollback
// unnecessary, reference another changeset, or carry literal sequence text.
func (r *run) attachRollback() error {
	raw := r.rollback.String()
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	switch {
	case notRequiredPattern.MatchString(trimmed):
		r.changeSet.AddRollbackChange(&changelog.EmptyChange{})

	case strings.Contains(strings.ToLower(trimmed), "changesetid"):
		return r.resolveRollbackReference(raw)

	default:
		d := r.parser.dialect
		rb := d.NewChange()
		d.SetChangeSequence(rb, r.expandScoped(raw, r.changeSet.ChangeLog))
		if r.rollbackSplitSet {
			d.SetSplitStatements(rb, r.rollbackSplit)
		}
		if r.rollbackEndDelimiter != nil {
			d.SetEndDelimiter(rb, *r.rollbackEndDelimiter)
		}
		r.changeSet.AddRollbackChange(rb)
	}

	return nil
}

// extractMultiLineRollback consumes lines into the rollback buffer until the
// dialect's closing comment token ends a line. The close token itself (and
// anything that is only whitespace before it) is excluded from the capture.
func (r *run) extractMultiLineRollback() error {
	for {
		line, err := r.sc.ReadLine()
		if err == io.EOF {
			return errors.New("Liquibase rollback comment is not closed.")
		}
		if err != nil {
			return errors.Wrap(err, "failed to read changelog")
		}

		if r.g.rollbackMultiLineEnd.MatchString(line) {
			parts := r.g.multiLineEndSplit.Split(line, -1)
			if len(parts) > 0 && !utils.IsWhitespace(parts[0]) {
				r.rollback.WriteString(parts[0])
			}
			return nil
		}
		r.rollback.WriteString(line)
	}
}

// handleIgnoreLines skips either a fixed number of lines or everything up to
// the matching ignoreLines:end directive.
func (r *run) handleIgnoreLines(value string) error {
	if value == "start" {
		for {
			line, err := r.sc.ReadLine()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "failed to read changelog")
			}

			if m := r.g.ignoreLines.FindStringSubmatch(line); m != nil {
				if m[1] == "end" {
					return nil
				}
			} else if r.g.altIgnoreLinesOneDash.MatchString(line) {
				return r.formatError("--ignoreLines:end")
			}
		}
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return errors.New("Unknown ignoreLines syntax")
	}

	for ; count > 0; count-- {
		if _, err := r.sc.ReadLine(); err == io.EOF {
			break
		} else if err != nil {
			return errors.Wrap(err, "failed to read changelog")
		}
	}
	return nil
}

// handlePrecondition attaches one named nested precondition. Only sql-check
// is recognized.
func (r *run) handlePrecondition(name, body string) error {
	if name == "" {
		return nil
	}
	if r.changeSet.Preconditions == nil {
		r.changeSet.Preconditions = &changelog.PreconditionContainer{}
	}

	if name != "sql-check" {
		return errors.Errorf("The '%s' precondition type is not supported.", name)
	}

	p, err := parseSQLCheck(r.expandScoped(body, r.changeSet.ChangeLog))
	if err != nil {
		return err
	}
	r.changeSet.Preconditions.AddNested(p)
	return nil
}

// handleProperty registers a property directive's key:value attributes with
// the parameter context. Unknown keys are ignored; global defaults to true.
func (r *run) handleProperty(line string) {
	if r.params == nil {
		return
	}

	rest, ok := matchValue(r.g.propertyRest, line)
	if !ok {
		return
	}

	var name, value, context, labels, dbms string
	global := true

	for _, field := range strings.Fields(rest) {
		key, val, found := strings.Cut(field, ":")
		if !found {
			continue
		}
		val = strings.TrimSpace(val)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			name = val
		case "value":
			value = val
		case "context":
			context = val
		case "labels":
			labels = val
		case "dbms":
			dbms = val
		case "global":
			global = utils.ParseBool(val)
		}
	}

	r.params.Set(name, value, context, labels, dbms, global, r.log)
}

func parseSQLCheck(body string) (*changelog.SQLCheckPrecondition, error) {
	for _, pattern := range sqlCheckPatterns {
		if m := pattern.FindStringSubmatch(body); m != nil {
			return &changelog.SQLCheckPrecondition{ExpectedResult: m[1], SQL: m[2]}, nil
		}
	}
	return nil, errors.Errorf("Could not parse a SqlCheck precondition from '%s'.", body)
}

func (r *run) expand(text string) string {
	return r.expandScoped(text, r.log)
}

func (r *run) expandScoped(text string, scope *changelog.ChangeLog) string {
	if r.params == nil {
		return text
	}
	return r.params.ExpandExpressions(text, scope)
}

func (r *run) parseBool(re *regexp.Regexp, line string, defaultValue bool) bool {
	v, _ := r.parseBoolSet(re, line, defaultValue)
	return v
}

// parseBoolSet reports the attribute's effective value and whether it was
// present at all. Anything other than a literal "true" counts as false.
func (r *run) parseBoolSet(re *regexp.Regexp, line string, defaultValue bool) (bool, bool) {
	v, ok := matchValue(re, line)
	if !ok {
		return defaultValue, false
	}
	return utils.ParseBool(v), true
}

func (r *run) formatError(example string) error {
	d := r.parser.dialect
	return errors.Errorf(
		"\nUnexpected formatting at line %d. Formatted %s changelogs require known formats, such as '%s' and others to be recognized and run. Learn all the options at %s",
		r.sc.Line(), d.SequenceType, example, d.DocumentationLink)
}

// stripContextQuotes trims a context value and removes a leading and/or
// trailing double quote independently.
func stripContextQuotes(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, `"`)
	v = strings.TrimSuffix(v, `"`)
	return strings.TrimSpace(v)
}

// normalizePath brings a logical path into canonical form: forward slashes
// with no leading ./ or / prefix.
func normalizePath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}
