package splitter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/internal/resource"
	"github.com/hupe1980/zonescan/internal/shard"
	"github.com/hupe1980/zonescan/internal/zonemap"
	"github.com/hupe1980/zonescan/model"
)

// Options configures a Splitter.
type Options struct {
	// ZoneSize is the number of rows per zone.
	ZoneSize int
	// IndexedColumns are the columns that get zone summaries.
	// Must include model.ColumnTimestamp.
	IndexedColumns []string
	// Mapper is applied to every value before it is written.
	Mapper Mapper
	// Prefix is the blob prefix for shards, e.g. "split_data".
	Prefix string
	// Compression is the shard codec.
	Compression shard.Compression
	// Resource throttles shard writes. May be nil.
	Resource *resource.Controller
}

// Result describes a completed split.
type Result struct {
	Index *zonemap.Index
	// Columns are all header columns, in header order.
	Columns []string
	// Shards is the number of shard blobs written.
	Shards int
}

// Splitter writes column shards for a table.
type Splitter struct {
	store blobstore.BlobStore
	opts  Options
}

// New creates a Splitter writing into store.
func New(store blobstore.BlobStore, opts Options) (*Splitter, error) {
	if opts.ZoneSize <= 0 {
		return nil, fmt.Errorf("%d: %w", opts.ZoneSize, ErrInvalidZoneSize)
	}
	if !slices.Contains(opts.IndexedColumns, model.ColumnTimestamp) {
		return nil, fmt.Errorf("indexed columns must include %s: %w", model.ColumnTimestamp, ErrMissingColumn)
	}
	opts.IndexedColumns = slices.Clone(opts.IndexedColumns)
	return &Splitter{store: store, opts: opts}, nil
}

// zoneWriter holds the open shards of the current zone.
type zoneWriter struct {
	zone    model.ZoneID
	writers []*shard.Writer
}

// Split reads the table from r and writes its shards. source names the
// table in the resulting index.
func (s *Splitter) Split(ctx context.Context, source string, r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, rowError(err, 1)
	}
	columns := slices.Clone(header)
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], "\ufeff")
	}
	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}
	// The header fixes the field count of every record.
	cr.FieldsPerRecord = len(columns)

	collectors, err := s.collectors(columns)
	if err != nil {
		return nil, err
	}

	builder := zonemap.NewBuilder(source, s.opts.ZoneSize, s.opts.IndexedColumns)
	res := &Result{Columns: columns}

	var (
		cur  *zoneWriter
		rows int
	)
	defer func() {
		if cur != nil {
			for _, w := range cur.writers {
				_ = w.Close()
			}
		}
	}()

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rowError(err, rows+2)
		}

		if rows%s.opts.ZoneSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if cur != nil {
				if err := s.flush(cur, columns, collectors, builder); err != nil {
					return nil, err
				}
				res.Shards += len(cur.writers)
			}
			cur, err = s.open(ctx, columns, model.ZoneID(rows/s.opts.ZoneSize))
			if err != nil {
				return nil, err
			}
		}

		for i, v := range rec {
			v, err = s.opts.Mapper.Map(columns[i], v)
			if err != nil {
				line, _ := cr.FieldPos(i)
				return nil, &RowError{Line: line, Err: err}
			}
			if err := cur.writers[i].WriteLine(v); err != nil {
				return nil, fmt.Errorf("write %s zone %d: %w", columns[i], cur.zone, err)
			}
			if c := collectors[i]; c != nil {
				c.Add(v)
			}
		}
		rows++
	}

	if cur != nil {
		if err := s.flush(cur, columns, collectors, builder); err != nil {
			return nil, err
		}
		res.Shards += len(cur.writers)
		cur = nil
	}

	res.Index, err = builder.Build()
	if err != nil {
		return nil, err
	}
	return res, nil
}

// collectors returns one collector per header column, nil for columns
// without a zone summary.
func (s *Splitter) collectors(columns []string) ([]*zonemap.Collector, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, fmt.Errorf("%s: %w", c, ErrDuplicateColumn)
		}
		seen[c] = true
	}

	collectors := make([]*zonemap.Collector, len(columns))
	for _, ic := range s.opts.IndexedColumns {
		i := slices.Index(columns, ic)
		if i < 0 {
			return nil, fmt.Errorf("%s: %w", ic, ErrMissingColumn)
		}
		collectors[i] = &zonemap.Collector{}
	}
	return collectors, nil
}

func (s *Splitter) open(ctx context.Context, columns []string, zone model.ZoneID) (*zoneWriter, error) {
	zw := &zoneWriter{zone: zone, writers: make([]*shard.Writer, 0, len(columns))}
	for _, c := range columns {
		name := shard.Name(s.opts.Prefix, c, zone, s.opts.Compression)
		w, err := shard.Create(ctx, s.store, name, s.opts.Compression, s.opts.Resource)
		if err != nil {
			for _, open := range zw.writers {
				_ = open.Close()
			}
			return nil, fmt.Errorf("create shard %s: %w", name, err)
		}
		zw.writers = append(zw.writers, w)
	}
	return zw, nil
}

func (s *Splitter) flush(zw *zoneWriter, columns []string, collectors []*zonemap.Collector, b *zonemap.Builder) error {
	var firstErr error
	for i, w := range zw.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s zone %d: %w", columns[i], zw.zone, err)
		}
	}
	if firstErr != nil {
		return firstErr
	}
	for i, c := range collectors {
		if c == nil {
			continue
		}
		if err := b.Add(columns[i], c.Flush(zw.zone)); err != nil {
			return err
		}
	}
	return nil
}

func rowError(err error, line int) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &RowError{Line: pe.Line, Err: pe.Err}
	}
	return &RowError{Line: line, Err: err}
}
