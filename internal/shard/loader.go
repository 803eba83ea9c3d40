package shard

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/internal/resource"
	"github.com/hupe1980/zonescan/model"
)

// Zone is one loaded shard. Lines[i] is the value of row FirstPosition(ID)+i.
type Zone struct {
	Column string
	ID     model.ZoneID
	Lines  []string

	charged int64
	rc      *resource.Controller
}

// Release returns the zone's memory to the budget. It is idempotent.
func (z *Zone) Release() {
	if z == nil || z.charged == 0 {
		return
	}
	z.rc.ReleaseMemory(z.charged)
	z.charged = 0
}

// Loader loads column shards written under prefix.
type Loader struct {
	store       blobstore.BlobStore
	prefix      string
	compression Compression
	rc          *resource.Controller
}

// NewLoader creates a loader. rc may be nil.
func NewLoader(store blobstore.BlobStore, prefix string, c Compression, rc *resource.Controller) *Loader {
	return &Loader{store: store, prefix: prefix, compression: c, rc: rc}
}

// Name returns the blob name of column's shard for zone.
func (l *Loader) Name(column string, zone model.ZoneID) string {
	return Name(l.prefix, column, zone, l.compression)
}

// Load reads the whole shard of column for zone.
// It fails with resource.ErrMemoryLimitExceeded when the decoded zone does
// not fit in the remaining memory budget.
func (l *Loader) Load(ctx context.Context, column string, zone model.ZoneID) (*Zone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := l.Name(column, zone)

	blob, err := l.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open shard %s: %w", name, err)
	}
	defer blob.Close()

	r, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("read shard %s: %w", name, err)
	}
	defer r.Close()

	var src io.Reader = r
	if l.rc != nil {
		src = resource.NewRateLimitedReader(ctx, r, l.rc)
	}
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read shard %s: %w", name, err)
	}

	data, err := decode(raw, l.compression)
	if err != nil {
		return nil, fmt.Errorf("decode shard %s: %w", name, err)
	}

	size := int64(len(data))
	if err := l.rc.AcquireMemory(size); err != nil {
		return nil, fmt.Errorf("load shard %s (%d bytes): %w", name, size, err)
	}

	return &Zone{
		Column:  column,
		ID:      zone,
		Lines:   splitLines(string(data)),
		charged: size,
		rc:      l.rc,
	}, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
