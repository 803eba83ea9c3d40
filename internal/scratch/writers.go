package scratch

import (
	"bufio"
	"context"
	"maps"
	"slices"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/model"
)

type writer struct {
	blob  blobstore.WritableBlob
	bw    *bufio.Writer
	last  model.Position
	count int
}

// Writers appends entries to one scratch file per key. A file is created on
// its first entry, so keys without entries leave no file behind.
type Writers struct {
	area *Area
	kind string
	open map[Key]*writer
}

// Append adds e to the file of k. Positions per key must be strictly ascending.
func (w *Writers) Append(ctx context.Context, k Key, e Entry) error {
	fw, ok := w.open[k]
	if !ok {
		blob, err := w.area.store.Create(ctx, w.area.Path(w.kind, k))
		if err != nil {
			return err
		}
		fw = &writer{blob: blob, bw: bufio.NewWriter(blob)}
		w.open[k] = fw
	} else if e.Position <= fw.last {
		return &UnsortedError{Name: w.area.Path(w.kind, k), Index: fw.count, Prev: fw.last, Got: e.Position}
	}

	if _, err := fw.bw.WriteString(e.String()); err != nil {
		return err
	}
	if err := fw.bw.WriteByte('\n'); err != nil {
		return err
	}
	fw.last = e.Position
	fw.count++
	return nil
}

// Counts returns the number of entries appended per key.
func (w *Writers) Counts() map[Key]int {
	out := make(map[Key]int, len(w.open))
	for k, fw := range w.open {
		out[k] = fw.count
	}
	return out
}

// Close flushes and publishes every file. It returns the first error.
func (w *Writers) Close() error {
	var firstErr error
	keys := slices.SortedFunc(maps.Keys(w.open), Key.Compare)
	for _, k := range keys {
		fw := w.open[k]
		err := fw.bw.Flush()
		if cerr := fw.blob.Close(); err == nil {
			err = cerr
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.open = map[Key]*writer{}
	return firstErr
}
