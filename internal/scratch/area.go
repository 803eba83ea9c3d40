package scratch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"slices"

	"github.com/hupe1980/zonescan/blobstore"
)

// Area is the scratch directory plus its archive in a blob store.
type Area struct {
	store   blobstore.BlobStore
	dir     string
	archive string
}

// NewArea creates an Area. dir and archive are slash-separated prefixes,
// e.g. "temp" and "archive".
func NewArea(store blobstore.BlobStore, dir, archive string) *Area {
	return &Area{store: store, dir: dir, archive: archive}
}

// Path returns the blob name of a scratch file.
func (a *Area) Path(kind string, k Key) string {
	return path.Join(a.dir, FileName(kind, k))
}

// ArchivePath returns the blob name of an archived scratch file.
func (a *Area) ArchivePath(kind string, k Key) string {
	return path.Join(a.archive, FileName(kind, k))
}

// Reset deletes every scratch and archived file.
func (a *Area) Reset(ctx context.Context) error {
	for _, dir := range []string{a.dir, a.archive} {
		if err := blobstore.DeletePrefix(ctx, a.store, dir+"/"); err != nil {
			return fmt.Errorf("reset %s: %w", dir, err)
		}
	}
	return nil
}

// Keys returns the keys of all scratch files of kind in chronological order.
func (a *Area) Keys(ctx context.Context, kind string) ([]Key, error) {
	return a.keys(ctx, a.dir, kind)
}

// ArchivedKeys returns the keys of all archived files of kind.
func (a *Area) ArchivedKeys(ctx context.Context, kind string) ([]Key, error) {
	return a.keys(ctx, a.archive, kind)
}

func (a *Area) keys(ctx context.Context, dir, kind string) ([]Key, error) {
	names, err := a.store.List(ctx, path.Join(dir, kind)+"_")
	if err != nil {
		return nil, err
	}
	var keys []Key
	for _, n := range names {
		if k, key, ok := ParseFileName(path.Base(n)); ok && k == kind && path.Dir(n) == dir {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, Key.Compare)
	return keys, nil
}

// Read loads a scratch file. Positions must be strictly ascending.
// A missing file reads as empty.
func (a *Area) Read(ctx context.Context, kind string, k Key) ([]Entry, error) {
	name := a.Path(kind, k)
	data, err := blobstore.ReadAll(ctx, a.store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		e, err := ParseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if err := checkSorted(entries); err != nil {
		var ue *UnsortedError
		if errors.As(err, &ue) {
			ue.Name = name
		}
		return nil, err
	}
	return entries, nil
}

// ReadSet loads a scratch file as a PositionSet.
func (a *Area) ReadSet(ctx context.Context, kind string, k Key) (*PositionSet, error) {
	entries, err := a.Read(ctx, kind, k)
	if err != nil {
		return nil, err
	}
	return NewPositionSet(entries)
}

// Write replaces a scratch file with entries. Nothing is written for no entries.
func (a *Area) Write(ctx context.Context, kind string, k Key, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := checkSorted(entries); err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.String())
		buf.WriteByte('\n')
	}
	return a.store.Put(ctx, a.Path(kind, k), buf.Bytes())
}

// Archive moves a scratch file into the archive. Archiving a file that is
// already gone is a no-op, so a file is never duplicated or resurrected.
func (a *Area) Archive(ctx context.Context, kind string, k Key) error {
	return blobstore.Move(ctx, a.store, a.Path(kind, k), a.ArchivePath(kind, k))
}

// Writers opens a lazily created writer per (year, month) key.
func (a *Area) Writers(kind string) *Writers {
	return &Writers{area: a, kind: kind, open: make(map[Key]*writer)}
}
