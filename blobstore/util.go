package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// ReadAll reads a whole blob into memory.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		// The mapping dies with the blob.
		return bytes.Clone(data), nil
	}

	r, err := NewReader(ctx, b)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	buf := make([]byte, 0, b.Size())
	w := bytes.NewBuffer(buf)
	if _, err := io.Copy(w, r); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// NewReader returns a reader over the whole blob. Empty blobs yield an
// immediately exhausted reader.
func NewReader(ctx context.Context, b Blob) (io.ReadCloser, error) {
	if b.Size() == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return b.ReadRange(ctx, 0, b.Size())
}

// Exists reports whether a blob exists.
func Exists(ctx context.Context, store BlobStore, name string) (bool, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, b.Close()
}

// Move moves src to dst. A missing src is a no-op, so moving an already
// moved blob again neither fails nor resurrects it.
func Move(ctx context.Context, store BlobStore, src, dst string) error {
	if r, ok := store.(Renamer); ok {
		err := r.Rename(ctx, src, dst)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	data, err := ReadAll(ctx, store, src)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if err := store.Put(ctx, dst, data); err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	return store.Delete(ctx, src)
}

// DeletePrefix removes every blob whose name starts with prefix.
func DeletePrefix(ctx context.Context, store BlobStore, prefix string) error {
	names, err := store.List(ctx, prefix)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := store.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
	}
	return nil
}
