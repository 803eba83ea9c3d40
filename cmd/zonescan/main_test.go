package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/zonescan"
	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/testutil"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv(t *testing.T) {
	s, err := fromEnv(env(map[string]string{
		"ZONESCAN_DATA_FILE":       "w.csv",
		"ZONESCAN_ZONE_SIZE":       "500",
		"ZONESCAN_BACKEND":         "MinIO",
		"ZONESCAN_COMPRESSION":     "zstd",
		"ZONESCAN_CACHE_BYTES":     "1048576",
		"ZONESCAN_INDEXED_COLUMNS": "Timestamp, Station,",
		"ZONESCAN_REUSE_INDEX":     "true",
		"ZONESCAN_LOG_LEVEL":       "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "w.csv", s.cfg.DataFile)
	assert.Equal(t, 500, s.cfg.ZoneSize)
	assert.Equal(t, zonescan.BackendMinIO, s.cfg.Backend)
	assert.Equal(t, "zstd", s.cfg.Compression)
	assert.Equal(t, int64(1048576), s.cfg.CacheBytes)
	assert.Equal(t, []string{"Timestamp", "Station"}, s.cfg.IndexedColumns)
	assert.True(t, s.reuseIndex)
	assert.Equal(t, slog.LevelDebug, s.logLevel)
	// Unset variables keep their defaults.
	assert.Equal(t, 2002, s.cfg.FirstYear)
	assert.Equal(t, "split_data", s.cfg.SplitPrefix)
}

func TestFromEnv_Malformed(t *testing.T) {
	_, err := fromEnv(env(map[string]string{"ZONESCAN_ZONE_SIZE": "big"}))
	assert.ErrorContains(t, err, "ZONESCAN_ZONE_SIZE")

	_, err = fromEnv(env(map[string]string{"ZONESCAN_REUSE_INDEX": "maybe"}))
	assert.ErrorContains(t, err, "ZONESCAN_REUSE_INDEX")
}

func TestLoadEnv_MissingDefaultIgnored(t *testing.T) {
	assert.NoError(t, loadEnv(t.TempDir()+"/.env", false))
	assert.Error(t, loadEnv(t.TempDir()+"/.env", true))
}

func TestNewBlobStore(t *testing.T) {
	s, err := fromEnv(env(map[string]string{"ZONESCAN_ROOT": t.TempDir()}))
	require.NoError(t, err)
	store, err := newBlobStore(context.Background(), s)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, store)

	s.cfg.Backend = zonescan.BackendS3
	_, err = newBlobStore(context.Background(), s)
	assert.ErrorContains(t, err, "bucket")

	s.cfg.Backend = "ftp"
	_, err = newBlobStore(context.Background(), s)
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "weather.csv", []byte(testutil.CSV(testutil.ToyRows()))))

	cfg := zonescan.DefaultConfig()
	cfg.DataFile = "weather.csv"
	cfg.ZoneSize = 4
	eng, err := zonescan.Open(ctx, cfg, zonescan.WithBlobStore(store), zonescan.WithLogger(nil))
	require.NoError(t, err)
	defer eng.Close()

	var out bytes.Buffer
	in := strings.NewReader("short\nA0000023X\nc\nA0000013X\n")
	require.NoError(t, prompt(ctx, eng, in, &out))

	text := out.String()
	assert.Contains(t, text, "Invalid input")
	assert.Contains(t, text, "Processing data for years ending in 3 at Changi")
	assert.Contains(t, text, "Max Temperature")
	assert.Contains(t, text, "14 records appended to results/ScanResult_A0000023X.csv")
	assert.Contains(t, text, "bye bye")

	// Input after "c" is never processed.
	exists, err := blobstore.Exists(ctx, store, "results/ScanResult_A0000013X.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPrompt_EOF(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "weather.csv", []byte(testutil.CSV(testutil.ToyRows()))))

	cfg := zonescan.DefaultConfig()
	cfg.DataFile = "weather.csv"
	eng, err := zonescan.Open(ctx, cfg, zonescan.WithBlobStore(store), zonescan.WithLogger(nil))
	require.NoError(t, err)
	defer eng.Close()

	var out bytes.Buffer
	assert.NoError(t, prompt(ctx, eng, strings.NewReader(""), &out))
}
