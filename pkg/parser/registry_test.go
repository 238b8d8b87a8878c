package parser_test

import (
	"testing"

	"github.com/changekeeper/changekeeper/pkg/changelog"
	"github.com/changekeeper/changekeeper/pkg/parser"
	"github.com/changekeeper/changekeeper/pkg/resource"
	"github.com/stretchr/testify/require"
)

type stubParser struct {
	priority int
	supports bool
}

func (s *stubParser) Supports(string, resource.Accessor) bool { return s.supports }
func (s *stubParser) Priority() int                           { return s.priority }

func (s *stubParser) Parse(string, changelog.Parameters, resource.Accessor) (*changelog.ChangeLog, error) {
	return nil, nil
}

func (s *stubParser) ParseWithParent(string, changelog.Parameters, resource.Accessor, *changelog.ChangeLog) (*changelog.ChangeLog, error) {
	return nil, nil
}

func TestRegistryPicksHighestPriority(t *testing.T) {
	low := &stubParser{priority: 1, supports: true}
	high := &stubParser{priority: 10, supports: true}
	unsupporting := &stubParser{priority: 100, supports: false}

	r := parser.NewRegistry(low, high, unsupporting)

	picked, err := r.ForFile("changelog.sql", nil)
	require.NoError(t, err)
	require.Same(t, high, picked)
}

func TestRegistryNoSupportingParser(t *testing.T) {
	r := parser.NewRegistry(&stubParser{priority: 1, supports: false})

	_, err := r.ForFile("changelog.txt", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no parser supports changelog: changelog.txt")
}

func TestDefaultRegistryDispatchesSQL(t *testing.T) {
	acc := accessorFor(map[string]string{"changelog.sql": "--liquibase formatted sql\n"})

	picked, err := parser.Default.ForFile("changelog.sql", acc)
	require.NoError(t, err)

	p, ok := picked.(*parser.Parser)
	require.True(t, ok)
	require.Equal(t, "sql", p.Dialect().Name)
}
