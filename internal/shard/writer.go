package shard

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/internal/resource"
)

// ErrClosed is returned when writing to a closed shard.
var ErrClosed = errors.New("shard closed")

// Writer streams one shard into a blob.
type Writer struct {
	blob   blobstore.WritableBlob
	enc    io.WriteCloser
	bw     *bufio.Writer
	lines  int
	closed bool
}

// Create starts a new shard named name.
func Create(ctx context.Context, store blobstore.BlobStore, name string, c Compression, rc *resource.Controller) (*Writer, error) {
	blob, err := store.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	var sink io.Writer = blob
	if rc != nil {
		sink = resource.NewRateLimitedWriter(ctx, blob, rc)
	}

	enc, err := newEncoder(sink, c)
	if err != nil {
		_ = blob.Close()
		return nil, err
	}

	return &Writer{
		blob: blob,
		enc:  enc,
		bw:   bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// WriteLine appends one value followed by a newline.
func (w *Writer) WriteLine(v string) error {
	if w.closed {
		return ErrClosed
	}
	if _, err := w.bw.WriteString(v); err != nil {
		return err
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	w.lines++
	return nil
}

// Lines returns the number of values written.
func (w *Writer) Lines() int { return w.lines }

// Close flushes the shard and publishes the blob.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.bw.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = w.blob.Sync()
	}
	if cerr := w.blob.Close(); err == nil {
		err = cerr
	}
	return err
}
