// Package resource abstracts how changelog content is opened: the parser
// asks an Accessor for a named byte stream and never touches the filesystem
// directly. This keeps parsing testable against in-memory filesystems and
// lets callers source changelogs from embedded files or archives.
package resource

import (
	"io"
	"io/fs"

	"github.com/pkg/errors"
)

type (
	// Accessor opens a named resource for reading. Implementations decide
	// how names map onto storage.
	Accessor interface {
		// Open returns the content of the named resource. The caller owns
		// the returned ReadCloser and must close it.
		Open(name string) (io.ReadCloser, error)
	}

	fsAccessor struct {
		fsys fs.FS
	}
)

// FS returns an Accessor backed by fsys. Names follow io/fs conventions:
// slash-separated and relative to the filesystem root.
func FS(fsys fs.FS) Accessor {
	return &fsAccessor{fsys: fsys}
}

func (a *fsAccessor) Open(name string) (io.ReadCloser, error) {
	f, err := a.fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open: %s", name)
	}

	return f, nil
}
