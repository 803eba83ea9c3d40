package shard

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/internal/resource"
	"github.com/hupe1980/zonescan/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeShard(t *testing.T, store blobstore.BlobStore, c Compression, column string, zone model.ZoneID, lines []string) {
	t.Helper()
	w, err := Create(context.Background(), store, Name("split_data", column, zone, c), c, nil)
	require.NoError(t, err)
	for _, l := range lines {
		require.NoError(t, w.WriteLine(l))
	}
	assert.Equal(t, len(lines), w.Lines())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.WriteLine("late"), ErrClosed)
}

func TestName(t *testing.T) {
	assert.Equal(t, "split_data/Timestamp_0.txt", Name("split_data", model.ColumnTimestamp, 0, CompressionNone))
	assert.Equal(t, "split_data/Station_12.txt.lz4", Name("split_data", model.ColumnStation, 12, CompressionLZ4))
	assert.Equal(t, "Humidity_3.txt.zst", Name("", model.ColumnHumidity, 3, CompressionZSTD))
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "LZ4": CompressionLZ4, "zstd": CompressionZSTD} {
		got, err := ParseCompression(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseCompression("gzip")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	lines := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		lines = append(lines, fmt.Sprintf("2013-01-%02d %02d:00", i%28+1, i%24))
	}
	lines = append(lines, "", "M")

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			writeShard(t, store, c, model.ColumnTimestamp, 4, lines)

			z, err := NewLoader(store, "split_data", c, nil).Load(context.Background(), model.ColumnTimestamp, 4)
			require.NoError(t, err)
			defer z.Release()

			assert.Equal(t, model.ZoneID(4), z.ID)
			assert.Equal(t, lines, z.Lines)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	store := blobstore.NewMemoryStore()
	writeShard(t, store, CompressionNone, model.ColumnStation, 0, nil)
	writeShard(t, store, CompressionNone, model.ColumnStation, 1, []string{""})

	l := NewLoader(store, "split_data", CompressionNone, nil)
	z, err := l.Load(context.Background(), model.ColumnStation, 0)
	require.NoError(t, err)
	assert.Empty(t, z.Lines)

	z, err = l.Load(context.Background(), model.ColumnStation, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, z.Lines)
}

func TestLoad_Missing(t *testing.T) {
	_, err := NewLoader(blobstore.NewMemoryStore(), "split_data", CompressionNone, nil).
		Load(context.Background(), model.ColumnStation, 7)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLoad_MemoryBudget(t *testing.T) {
	store := blobstore.NewMemoryStore()
	lines := strings.Split(strings.Repeat("Changi,", 10), ",")[:10]
	writeShard(t, store, CompressionZSTD, model.ColumnStation, 0, lines)
	writeShard(t, store, CompressionZSTD, model.ColumnStation, 1, lines)

	// Each decoded shard is 70 bytes.
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	l := NewLoader(store, "split_data", CompressionZSTD, rc)

	z0, err := l.Load(context.Background(), model.ColumnStation, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(70), rc.MemoryUsage())

	_, err = l.Load(context.Background(), model.ColumnStation, 1)
	require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	z0.Release()
	z0.Release()
	assert.Equal(t, int64(0), rc.MemoryUsage())

	z1, err := l.Load(context.Background(), model.ColumnStation, 1)
	require.NoError(t, err)
	z1.Release()
	assert.Equal(t, int64(70), rc.PeakMemoryUsage())
}
