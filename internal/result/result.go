// Package result writes extremum records to the result CSV.
package result

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/model"
)

// Header is the first line of every result file.
var Header = []string{"Date", "Station", "Category", "Value"}

// ErrMalformed is returned when an existing result file cannot be read back.
var ErrMalformed = errors.New("malformed result file")

// Append adds records to the result file name, creating it with Header when
// it does not exist. The whole file is rewritten with a single Put so that a
// failed append leaves the previous content intact.
func Append(ctx context.Context, store blobstore.BlobStore, name string, records []model.Extremum) error {
	existing, err := blobstore.ReadAll(ctx, store, name)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("read %s: %w", name, err)
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		buf.WriteByte('\n')
	}

	w := csv.NewWriter(&buf)
	if len(existing) == 0 {
		if err := w.Write(Header); err != nil {
			return err
		}
	}
	for _, r := range records {
		if err := w.Write([]string{r.Date, r.Station, r.Category.String(), r.Value}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Read loads every record of the result file name.
func Read(ctx context.Context, store blobstore.BlobStore, name string) ([]model.Extremum, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(Header)

	var out []model.Extremum
	for line := 0; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", name, ErrMalformed, err)
		}
		if line == 0 {
			continue
		}
		c, ok := model.ParseCategory(rec[2])
		if !ok {
			return nil, fmt.Errorf("%s: category %q: %w", name, rec[2], ErrMalformed)
		}
		out = append(out, model.Extremum{Date: rec[0], Station: rec[1], Category: c, Value: rec[3]})
	}
	return out, nil
}

// Render writes records as a table.
func Render(w io.Writer, records []model.Extremum) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	row := make(table.Row, len(Header))
	for i, h := range Header {
		row[i] = h
	}
	t.AppendHeader(row)
	for _, r := range records {
		t.AppendRow(table.Row{r.Date, r.Station, r.Category.String(), r.Value})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
