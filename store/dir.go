package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Dir stores each blob in a <key>.json file of a directory. The files are
// plain JSON and can be kept under version control.
type Dir struct {
	path string
}

// OpenDir opens, and creates if needed, the directory path.
func OpenDir(path string) (*Dir, error) {
	if path == "" {
		return nil, errors.New("empty store directory")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("could not create store directory: %w", err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) filename(key string) string { return filepath.Join(d.path, key+".json") }

func (d *Dir) Get(_ context.Context, key string) ([]byte, error) {
	blob, err := os.ReadFile(d.filename(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", key, err)
	}
	log.Debug().Str("key", key).Int("bytes", len(blob)).Msg("read blob file")
	return blob, nil
}

// Put writes the blob to a temporary file and renames it over the old one, so
// that a crash never leaves a truncated collection.
func (d *Dir) Put(_ context.Context, key string, blob []byte) error {
	f, err := os.CreateTemp(d.path, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	tmp := f.Name()
	_, err = f.Write(blob)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, d.filename(key))
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	log.Debug().Str("key", key).Int("bytes", len(blob)).Msg("wrote blob file")
	return nil
}

func (d *Dir) Close() error { return nil }
