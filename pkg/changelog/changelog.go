package changelog

type (
	// Parameters is the narrow contract the changelog model (and the parser)
	// has with the parameter registry. The params package provides the
	// standard implementation.
	Parameters interface {
		// ExpandExpressions substitutes ${name} tokens in text using the
		// parameters visible from scope. Unrecognized tokens are left as-is.
		ExpandExpressions(text string, scope *ChangeLog) string

		// Set registers a parameter. A parameter with global set to false is
		// only visible to scope and changelogs parsed beneath it.
		Set(name, value, contextFilter, labels, dbms string, global bool, scope *ChangeLog)
	}

	// ChangeLog is an ordered collection of changesets parsed from a single
	// changelog file, along with the metadata needed to locate and expand it.
	ChangeLog struct {
		// PhysicalFilePath is the path the changelog was opened from. It is
		// the identity of this parse.
		PhysicalFilePath string

		// LogicalFilePath overrides the physical path for changeset
		// identification when set. The parser sets it from the changelog
		// header; it is not copied from Parent.
		LogicalFilePath string

		// Params is the parameter context used for ${name} expansion while
		// this changelog was parsed.
		Params Parameters

		// ChangeSets holds the changesets in source order.
		ChangeSets []*ChangeSet

		// Parent is the changelog this one was parsed beneath, if any. It is
		// walked when resolving rollback references to changesets defined in
		// other files, and when deciding whether a non-global parameter is
		// visible from this changelog.
		Parent *ChangeLog

		// ObjectQuotingStrategy is passed through to changesets untouched;
		// interpreting it is the execution engine's concern.
		ObjectQuotingStrategy string
	}
)

// FilePath returns the logical file path when set, falling back to the
// physical path.
func (c *ChangeLog) FilePath() string {
	if c.LogicalFilePath != "" {
		return c.LogicalFilePath
	}
	return c.PhysicalFilePath
}

// AddChangeSet appends cs to the changelog, preserving source order, and
// records this changelog as the changeset's owner.
func (c *ChangeLog) AddChangeSet(cs *ChangeSet) {
	cs.ChangeLog = c
	c.ChangeSets = append(c.ChangeSets, cs)
}

// ChangeSet returns the changeset identified by (path, author, id), or nil if
// this changelog does not contain it. Only this changelog is searched; use
// FindChangeSet to walk parent changelogs as well.
func (c *ChangeLog) ChangeSet(path, author, id string) *ChangeSet {
	for _, cs := range c.ChangeSets {
		if cs.ID == id && cs.Author == author && cs.FilePath() == path {
			return cs
		}
	}
	return nil
}

// FindChangeSet looks up (path, author, id) in this changelog and then in
// each parent changelog in turn. Returns nil when no changelog in the chain
// contains the changeset.
func (c *ChangeLog) FindChangeSet(path, author, id string) *ChangeSet {
	for log := c; log != nil; log = log.Parent {
		if cs := log.ChangeSet(path, author, id); cs != nil {
			return cs
		}
	}
	return nil
}
