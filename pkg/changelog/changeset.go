package changelog

import "fmt"

type (
	// ChangeSet is the atomic unit of migration: a uniquely identified block
	// of work (one primary change) plus optional rollback changes,
	// preconditions, and execution metadata.
	//
	// A changeset is identified by the triple (file path, author, id).
	ChangeSet struct {
		ID     string
		Author string

		// LogicalFilePath overrides the owning changelog's file path for
		// identification purposes. Empty means "inherit".
		LogicalFilePath string

		// ContextFilter is the context expression controlling when this
		// changeset runs. Surrounding double quotes have been stripped.
		ContextFilter string

		Labels string
		DBMS   string

		RunWith          string
		RunWithSpoolFile string

		RunAlways        bool
		RunOnChange      bool
		RunInTransaction bool
		FailOnError      bool
		Ignore           bool

		Comments string

		// ValidChecksums holds checksums explicitly accepted for this
		// changeset in addition to its computed one.
		ValidChecksums []string

		Preconditions *PreconditionContainer

		// Changes holds the primary change. The parser attaches exactly one.
		Changes []Change

		// RollbackChanges holds the changes that undo this changeset, in
		// declaration order.
		RollbackChanges []Change

		ObjectQuotingStrategy string

		// ChangeLog is the changelog this changeset belongs to. Set by
		// ChangeLog.AddChangeSet.
		ChangeLog *ChangeLog
	}
)

// NewChangeSet returns a changeset with the documented flag defaults:
// runInTransaction and failOnError are on, everything else is off.
func NewChangeSet(id, author string) *ChangeSet {
	return &ChangeSet{
		ID:               id,
		Author:           author,
		RunInTransaction: true,
		FailOnError:      true,
	}
}

// FilePath returns the path this changeset is identified by: its own logical
// path when set, otherwise the owning changelog's file path.
func (cs *ChangeSet) FilePath() string {
	if cs.LogicalFilePath != "" {
		return cs.LogicalFilePath
	}
	if cs.ChangeLog != nil {
		return cs.ChangeLog.FilePath()
	}
	return ""
}

// AddChange attaches the primary change.
func (cs *ChangeSet) AddChange(c Change) {
	cs.Changes = append(cs.Changes, c)
}

// AddRollbackChange appends a rollback change, preserving order.
func (cs *ChangeSet) AddRollbackChange(c Change) {
	cs.RollbackChanges = append(cs.RollbackChanges, c)
}

// AddValidChecksum records a checksum as valid for this changeset.
// Duplicates are ignored.
func (cs *ChangeSet) AddValidChecksum(sum string) {
	for _, s := range cs.ValidChecksums {
		if s == sum {
			return
		}
	}
	cs.ValidChecksums = append(cs.ValidChecksums, sum)
}

// String renders the changeset identity as path::id::author, the form used in
// error messages and reports.
func (cs *ChangeSet) String() string {
	return fmt.Sprintf("%s::%s::%s", cs.FilePath(), cs.ID, cs.Author)
}
