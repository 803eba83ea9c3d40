package zonemap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/hupe1980/zonescan/blobstore"
)

const (
	// SnapshotPrefix is the file name prefix of saved snapshots.
	SnapshotPrefix = "ZONEMAP"
	// CurrentFileName names the pointer file that holds the active snapshot name.
	CurrentFileName = "CURRENT"
)

// Store persists zone index snapshots in a blob store under dir.
type Store struct {
	store blobstore.BlobStore
	dir   string
	mu    sync.Mutex
}

// NewStore creates a new snapshot store. dir is a slash-separated prefix such as "index".
func NewStore(store blobstore.BlobStore, dir string) *Store {
	return &Store{store: store, dir: dir}
}

func (s *Store) name(file string) string {
	if s.dir == "" {
		return file
	}
	return path.Join(s.dir, file)
}

func snapshotName(id uint64) string {
	return fmt.Sprintf("%s-%06d.bin", SnapshotPrefix, id)
}

// Load loads the snapshot named by CURRENT.
func (s *Store) Load(ctx context.Context) (*Index, error) {
	return s.LoadVersion(ctx, 0)
}

// LoadVersion loads a specific snapshot ID. 0 means the current one.
func (s *Store) LoadVersion(ctx context.Context, id uint64) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := snapshotName(id)
	if id == 0 {
		content, err := blobstore.ReadAll(ctx, s.store, s.name(CurrentFileName))
		if err != nil {
			if errors.Is(err, blobstore.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		file = strings.TrimSpace(string(content))
	}

	data, err := blobstore.ReadAll(ctx, s.store, s.name(file))
	if err != nil {
		return nil, fmt.Errorf("open zone index %s: %w", file, err)
	}
	ix, err := ReadBinary(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read zone index %s: %w", file, err)
	}
	return ix, nil
}

// Save writes ix as the next snapshot and points CURRENT at it.
// It returns a copy of ix carrying the new snapshot ID.
func (s *Store) Save(ctx context.Context, ix *Index) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, err := s.latestID(ctx)
	if err != nil {
		return nil, err
	}

	saved := *ix
	saved.id = max(latest, ix.id) + 1

	var buf bytes.Buffer
	if err := saved.WriteBinary(&buf); err != nil {
		return nil, err
	}

	file := snapshotName(saved.id)
	if err := s.store.Put(ctx, s.name(file), buf.Bytes()); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, s.name(CurrentFileName), []byte(file)); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Versions returns the IDs of all saved snapshots in ascending order.
func (s *Store) Versions(ctx context.Context) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions(ctx)
}

// DeleteVersion deletes the snapshot with the given ID.
func (s *Store) DeleteVersion(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, s.name(snapshotName(id)))
}

func (s *Store) versions(ctx context.Context) ([]uint64, error) {
	names, err := s.store.List(ctx, s.name(SnapshotPrefix))
	if err != nil {
		return nil, err
	}
	var ids []uint64
	for _, n := range names {
		var id uint64
		if _, err := fmt.Sscanf(path.Base(n), SnapshotPrefix+"-%d.bin", &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Store) latestID(ctx context.Context) (uint64, error) {
	ids, err := s.versions(ctx)
	if err != nil {
		return 0, err
	}
	var latest uint64
	for _, id := range ids {
		latest = max(latest, id)
	}
	return latest, nil
}
