package status

import (
	"context"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileStore reads and rewrites files below the root
type FileStore interface {
	// Open opens a file for reading; the caller must close it
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// WriteFile overwrites an existing file with content
	WriteFile(ctx context.Context, path string, content []byte) error
}

var _ FileStore = (*Store)(nil)

// 🔧 Store implements FileStore on a billy filesystem
type Store struct {
	fs billy.Filesystem
}

// 🏭 NewStore creates a new store
func NewStore(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening file: %w", err)
	}
	return f, nil
}

// WriteFile replaces the file through a temporary sibling that is renamed
// over it, so a failed write leaves the original bytes in place. The mode
// of the original is kept. It never creates a file.
func (s *Store) WriteFile(ctx context.Context, path string, content []byte) (err error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return errors.Errorf("checking file: %w", err)
	}

	tmp, err := s.fs.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return errors.Errorf("writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if ch, ok := s.fs.(billy.Chmod); ok {
		if err := ch.Chmod(tmpName, info.Mode().Perm()); err != nil {
			return errors.Errorf("setting file mode: %w", err)
		}
	}

	if err := s.fs.Rename(tmpName, path); err != nil {
		return errors.Errorf("replacing file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("file written")
	return nil
}
