package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/changekeeper/changekeeper/pkg/consts"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "changelog.sql")
	require.NoError(t, os.WriteFile(path, []byte(content), consts.ModeFile))
	return path
}

func TestParseChangelogFile(t *testing.T) {
	path := writeFile(t, `--liquibase formatted sql
--changeset alice:1
SELECT 1;
`)

	log, err := parseChangelogFile(path)
	require.NoError(t, err)
	require.Len(t, log.ChangeSets, 1)
	require.Equal(t, "alice", log.ChangeSets[0].Author)
}

func TestParseChangelogFileUnsupported(t *testing.T) {
	path := writeFile(t, "CREATE TABLE t (id INT);\n")

	_, err := parseChangelogFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no parser supports changelog")
}

func TestChangeSetNotes(t *testing.T) {
	cs := changelog.NewChangeSet("1", "alice")
	require.Empty(t, changeSetNotes(cs))

	cs.Preconditions = &changelog.PreconditionContainer{}
	cs.Ignore = true
	require.Equal(t, " [preconditions] [ignored]", changeSetNotes(cs))
}
