package utils_test

import (
	"testing"

	"github.com/changekeeper/changekeeper/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestStripEnclosingQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "quoted", input: `"Jane Doe"`, expected: "Jane Doe"},
		{name: "plain", input: "plain", expected: "plain"},
		{name: "leading_only", input: `"unbalanced`, expected: `"unbalanced`},
		{name: "trailing_only", input: `unbalanced"`, expected: `unbalanced"`},
		{name: "inner_quotes_kept", input: `"a "b" c"`, expected: `a "b" c`},
		{name: "empty", input: "", expected: ""},
		{name: "single_quote_char", input: `"`, expected: `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.StripEnclosingQuotes(tt.input))
		})
	}
}

func TestIsWhitespace(t *testing.T) {
	require.True(t, utils.IsWhitespace(""))
	require.True(t, utils.IsWhitespace("  \t\r\n"))
	require.False(t, utils.IsWhitespace(" x "))
}

func TestParseBool(t *testing.T) {
	require.True(t, utils.ParseBool("true"))
	require.True(t, utils.ParseBool("TRUE"))
	require.True(t, utils.ParseBool(" True "))
	require.False(t, utils.ParseBool("yes"))
	require.False(t, utils.ParseBool("1"))
	require.False(t, utils.ParseBool(""))
}

func TestPtr(t *testing.T) {
	b := utils.Ptr(true)
	require.NotNil(t, b)
	require.True(t, *b)

	s := utils.Ptr("delim")
	require.Equal(t, "delim", *s)
}
