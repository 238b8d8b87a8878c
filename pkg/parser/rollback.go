package parser

import (
	"strings"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/pkg/errors"
)

// resolveRollbackReference handles a rollback buffer that names another
// changeset instead of carrying literal sequence text:
//
//	--rollback changesetId:1 changesetAuthor:alice changesetPath:other.sql
//
// The referenced changeset is located in the current changelog first, then by
// walking up the parent changelog chain; its changes are attached (by
// reference, in order) as the current changeset's rollback. changesetPath
// defaults to the current physical location.
func (r *run) resolveRollbackReference(rollbackText string) error {
	ref := strings.NewReplacer("\n", "", "\r", "").Replace(rollbackText)

	author, _ := matchValue(rollbackChangeSetAuthorPattern, ref)
	id, _ := matchValue(rollbackChangeSetIDPattern, ref)
	path, _ := matchValue(rollbackChangeSetPathPattern, ref)

	author = strings.TrimSpace(author)
	id = strings.TrimSpace(id)
	path = strings.TrimSpace(path)

	if id == "" {
		return errors.Errorf("'changesetId' not set in rollback block '%s'", ref)
	}
	if author == "" {
		return errors.Errorf("'changesetAuthor' not set in rollback block '%s'", ref)
	}
	if path == "" {
		path = r.log.PhysicalFilePath
	}

	target := r.log.FindChangeSet(path, author, id)
	if target == nil {
		missing := &changelog.ChangeSet{ID: id, Author: author, LogicalFilePath: path}
		return errors.Errorf("Change set %s does not exist", missing)
	}

	for _, c := range target.Changes {
		r.changeSet.AddRollbackChange(c)
	}
	return nil
}
