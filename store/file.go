package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lab1702/arena-bots/waypoint"
)

// FileStore keeps one compressed file per map in a directory.
type FileStore struct {
	dir string
}

// OpenDir returns a FileStore rooted at dir, creating it if needed.
func OpenDir(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty store directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(mapName string) (string, error) {
	name := strings.TrimSpace(mapName)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid map name %q", mapName)
	}
	return filepath.Join(s.dir, name+".wpt.zst"), nil
}

func (s *FileStore) Load(ctx context.Context, mapName string) (*waypoint.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(mapName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", mapName, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	g, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return g, nil
}

// Save writes through a temporary file so a crash never leaves a torn file.
func (s *FileStore) Save(ctx context.Context, mapName string, g *waypoint.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(mapName)
	if err != nil {
		return err
	}
	data, err := Encode(mapName, g)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (s *FileStore) Close() error { return nil }
