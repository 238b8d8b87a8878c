package parser

import (
	"testing"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/changekeeper/changekeeper/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestSQLDialectExtension(t *testing.T) {
	require.True(t, SQL.SupportsExtension("db/changelog.sql"))
	require.True(t, SQL.SupportsExtension("db/CHANGELOG.SQL"))
	require.False(t, SQL.SupportsExtension("db/changelog.xml"))
}

func TestSQLDialectEndDelimiterHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		change   *changelog.SQLChange
		expected bool
	}{
		{
			name:     "trailing_slash",
			change:   &changelog.SQLChange{SQL: "BEGIN NULL; END;\n/\n"},
			expected: true,
		},
		{
			name:     "no_trailing_slash",
			change:   &changelog.SQLChange{SQL: "SELECT 1;"},
			expected: false,
		},
		{
			name:     "explicit_delimiter_wins",
			change:   &changelog.SQLChange{SQL: "BEGIN NULL; END;\n/", EndDelimiter: utils.Ptr("GO")},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, SQL.IsEndDelimiter(tt.change))
		})
	}
}

func TestSQLPreconditionsHeader(t *testing.T) {
	cs := changelog.NewChangeSet("1", "alice")

	require.NoError(t, sqlPreconditions(cs, 3, " onFail:MARK_RAN onError:HALT onUpdateSql:FAIL"))
	require.NotNil(t, cs.Preconditions)
	require.Equal(t, "MARK_RAN", cs.Preconditions.OnFail)
	require.Equal(t, "HALT", cs.Preconditions.OnError)
	require.Equal(t, "FAIL", cs.Preconditions.OnUpdateSQL)
	require.Empty(t, cs.Preconditions.OnSQLOutput)
}

func TestSQLPreconditionsReplaceExisting(t *testing.T) {
	cs := changelog.NewChangeSet("1", "alice")
	cs.Preconditions = &changelog.PreconditionContainer{OnFail: "HALT"}
	cs.Preconditions.AddNested(&changelog.SQLCheckPrecondition{ExpectedResult: "1", SQL: "SELECT 1"})

	require.NoError(t, sqlPreconditions(cs, 3, " onFail:WARN"))
	require.Equal(t, "WARN", cs.Preconditions.OnFail)
	require.Empty(t, cs.Preconditions.Nested)
}
