package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const maxExtLen = 10

// Dir hands out exclusively owned temporary files for uploaded images.
type Dir struct {
	basePath string
}

func NewDir(basePath string) (*Dir, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Dir{basePath: basePath}, nil
}

func (d *Dir) Path() string {
	return d.basePath
}

// File is a staged upload. The caller owns it until Release.
type File struct {
	path string
	once sync.Once
	err  error
}

func (f *File) Path() string {
	return f.path
}

// Release deletes the file. It is safe to call more than once and a file
// that is already gone is not an error.
func (f *File) Release() error {
	f.once.Do(func() {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			f.err = fmt.Errorf("failed to remove staged file: %w", err)
		}
	})
	return f.err
}

// Stage copies r into a new file named upload-<uuid><ext>. On failure no
// file is left behind.
func (d *Dir) Stage(ctx context.Context, ext string, r io.Reader) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath := filepath.Join(d.basePath, "upload-"+uuid.NewString()+sanitiseExt(ext))
	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close staged file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove staged file after write error", "error", rerr)
		}
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove staged file after close error", "error", rerr)
		}
		return nil, fmt.Errorf("failed to close staged file: %w", err)
	}
	return &File{path: filePath}, nil
}

// sanitiseExt keeps ext only if it looks like a plain file extension.
func sanitiseExt(ext string) string {
	if len(ext) < 2 || len(ext) > maxExtLen || ext[0] != '.' {
		return ""
	}
	for _, c := range ext[1:] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return ""
		}
	}
	return ext
}
