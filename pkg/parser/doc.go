// Package parser implements the formatted changelog parser: a line-oriented,
// stateful recognizer for migration scripts written entirely in a host
// language (such as SQL) with changelog directives encoded as specially
// formed comments.
//
// A formatted changelog opens with a header comment:
//
//	--liquibase formatted sql
//
// and is divided into changesets by changeset directives:
//
//	--changeset alice:1
//	CREATE TABLE users (id INT);
//	--rollback DROP TABLE users;
//
// Lines that are not recognized as directives accumulate into the current
// changeset's SQL body verbatim. The parser also understands property
// declarations, preconditions, valid checksums, ignore regions, and both
// single- and multi-line rollback blocks, including rollbacks that reference
// another changeset by (path, author, id).
//
// Host-language specifics (comment tokens, file extensions, the change type,
// precondition attributes) are supplied by a Dialect; the SQL dialect ships
// with this package. Parsers are selected through a Registry that picks the
// highest-priority parser supporting a given file.
package parser
