package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/logger"
)

// Extension is the file suffix of stored archives.
const Extension = ".vault.xz"

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store keeps one archive file per snapshot in a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the archive directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: snapshot name %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(s.dir, name+Extension), nil
}

// Save writes the snapshot archive atomically.
func (s *Store) Save(_ context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return domain.ErrInvalidInput
	}
	path, err := s.path(snapshot.Name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, snapshot); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	return nil
}

// Load reads and verifies a snapshot archive.
func (s *Store) Load(_ context.Context, name string) (*domain.Snapshot, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	snapshot, err := Decode(f)
	if err != nil {
		return nil, err
	}
	snapshot.Name = name
	return snapshot, nil
}

// List describes every readable archive, ordered by name.
// Unreadable files are skipped with a warning.
func (s *Store) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}

	var infos []domain.SnapshotInfo
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), Extension)
		if entry.IsDir() || !ok {
			continue
		}
		snapshot, err := s.Load(ctx, name)
		if err != nil {
			logger.Warn("archive: skipping %s: %v", entry.Name(), err)
			continue
		}
		infos = append(infos, domain.SnapshotInfo{
			Name:      name,
			Hash:      snapshot.Hash,
			Entities:  snapshot.State.Count(),
			CreatedAt: snapshot.CreatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a snapshot archive. Deleting a missing snapshot is not an error.
func (s *Store) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting archive: %w", err)
	}
	return nil
}
