// Package changelog defines the in-memory representation of a parsed
// changelog: an ordered collection of changesets, each carrying a primary
// change, optional rollback changes, preconditions, and execution metadata.
//
// Values in this package are produced by the parser package and consumed by
// downstream migration tooling. A ChangeLog is created empty, populated while
// its source file is parsed, and treated as immutable afterwards.
package changelog
