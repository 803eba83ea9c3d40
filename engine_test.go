package zonescan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/zonescan"
	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/internal/resource"
	"github.com/hupe1980/zonescan/internal/scratch"
	"github.com/hupe1980/zonescan/testutil"
)

func newStore(t *testing.T, rows []testutil.Row) blobstore.BlobStore {
	t.Helper()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "weather.csv", []byte(testutil.CSV(rows))))
	return store
}

func testConfig(zoneSize int) zonescan.Config {
	cfg := zonescan.DefaultConfig()
	cfg.DataFile = "weather.csv"
	cfg.ZoneSize = zoneSize
	return cfg
}

func open(t *testing.T, store blobstore.BlobStore, cfg zonescan.Config, opts ...zonescan.Option) *zonescan.Engine {
	t.Helper()
	opts = append([]zonescan.Option{zonescan.WithBlobStore(store), zonescan.WithLogger(nil)}, opts...)
	eng, err := zonescan.Open(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestEngine_ToyRoundTrip(t *testing.T) {
	rows := testutil.ToyRows()
	want := append(
		testutil.ExactExtrema(rows, 2003, "Changi", false),
		testutil.ExactExtrema(rows, 2013, "Changi", false)...,
	)

	for _, zoneSize := range []int{4, 3} {
		store := newStore(t, rows)
		eng := open(t, store, testConfig(zoneSize))

		rep, err := eng.Query(context.Background(), zonescan.Query{YearDigit: 3, Location: "0", Label: "toy"})
		require.NoError(t, err)

		assert.Equal(t, []int{2003, 2013}, rep.Years)
		assert.Empty(t, rep.FailedYears)
		assert.Equal(t, "Changi", rep.Station)
		assert.Equal(t, 7, rep.RowsLocated)
		assert.Equal(t, 5, rep.RowsJoined)
		assert.Equal(t, want, rep.Extrema, "zone size %d", zoneSize)
		assert.Equal(t, "results/ScanResult_toy.csv", rep.ResultName)
		assert.NotEmpty(t, rep.RunID)

		got, err := eng.Results(context.Background(), rep.Query)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEngine_FailedYearsContinue(t *testing.T) {
	store := newStore(t, testutil.ToyRows())
	eng := open(t, store, testConfig(4))

	// 2009 starts in the 2013 zone and finds nothing; 2019 is past every zone.
	rep, err := eng.Query(context.Background(), zonescan.Query{YearDigit: 9, Location: "1"})
	require.NoError(t, err)
	assert.Equal(t, []int{2009, 2019}, rep.Years)
	assert.Equal(t, []int{2019}, rep.FailedYears)
	assert.Zero(t, rep.Records)
	assert.Equal(t, "results/ScanResult.csv", rep.ResultName)
}

func TestEngine_ResultsAppend(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, testutil.ToyRows())
	eng := open(t, store, testConfig(4))
	q := zonescan.Query{YearDigit: 3, Location: "1", Label: "twice"}

	first, err := eng.Query(ctx, q)
	require.NoError(t, err)
	_, err = eng.Query(ctx, q)
	require.NoError(t, err)

	got, err := eng.Results(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, append(first.Extrema, first.Extrema...), got)
}

func TestEngine_ScratchArchived(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, testutil.ToyRows())
	eng := open(t, store, testConfig(4))

	_, err := eng.Query(ctx, zonescan.Query{YearDigit: 3, Location: "0"})
	require.NoError(t, err)

	left, err := store.List(ctx, "temp/")
	require.NoError(t, err)
	assert.Empty(t, left)

	archived, err := store.List(ctx, "archive/")
	require.NoError(t, err)
	assert.Contains(t, archived, "archive/"+scratch.FileName(scratch.KindTimestamp, scratch.Key{Year: 2013, Month: 3}))
	assert.Contains(t, archived, "archive/"+scratch.FileName(scratch.KindStation, scratch.Key{Year: 2003, Month: 2}))
}

func TestEngine_InvalidQuery(t *testing.T) {
	store := newStore(t, testutil.ToyRows())
	eng := open(t, store, testConfig(4))

	for _, q := range []zonescan.Query{
		{YearDigit: 10, Location: "0"},
		{YearDigit: -1, Location: "0"},
		{YearDigit: 3, Location: "2"},
		{YearDigit: 3, Location: "0", Label: "../x"},
	} {
		_, err := eng.Query(context.Background(), q)
		require.ErrorIs(t, err, zonescan.ErrInvalidQuery)
		var qe *zonescan.QueryError
		assert.ErrorAs(t, err, &qe)
	}

	names, err := store.List(context.Background(), "results/")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEngine_IndexReuse(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, testutil.ToyRows())
	cfg := testConfig(4)

	first := &zonescan.BasicMetricsCollector{}
	eng := open(t, store, cfg, zonescan.WithIndexReuse(true), zonescan.WithMetricsCollector(first))
	assert.Equal(t, int64(1), first.GetStats().SplitCount)
	assert.Equal(t, int64(7), first.GetStats().SplitRows)
	require.NoError(t, eng.Close())

	second := &zonescan.BasicMetricsCollector{}
	eng = open(t, store, cfg, zonescan.WithIndexReuse(true), zonescan.WithMetricsCollector(second))
	assert.Zero(t, second.GetStats().SplitCount)
	assert.Equal(t, uint64(7), eng.Index().TotalRows())

	rep, err := eng.Query(ctx, zonescan.Query{YearDigit: 3, Location: "0"})
	require.NoError(t, err)
	assert.Equal(t, 8+6, rep.Records)

	// A different zone size cannot reuse the snapshot.
	third := &zonescan.BasicMetricsCollector{}
	open(t, store, testConfig(3), zonescan.WithIndexReuse(true), zonescan.WithMetricsCollector(third))
	assert.Equal(t, int64(1), third.GetStats().SplitCount)
}

func TestEngine_Compression(t *testing.T) {
	rows := testutil.NewRNG(4).WeatherRows(testutil.TableOptions{Rows: 2000, MissingRate: 0.05, Levels: 6})
	want := testutil.ExactExtrema(rows, 2003, "Paya Lebar", false)

	for _, c := range []string{"none", "lz4", "zstd"} {
		cfg := testConfig(128)
		cfg.Compression = c
		eng := open(t, newStore(t, rows), cfg)

		rep, err := eng.Query(context.Background(), zonescan.Query{YearDigit: 3, Location: "1"})
		require.NoError(t, err, c)
		assert.Equal(t, want, rep.Extrema, c)
	}
}

func TestEngine_ZonePruning(t *testing.T) {
	rows := testutil.NewRNG(8).WeatherRows(testutil.TableOptions{Rows: 1000, Stations: []string{"Changi"}})
	metrics := &zonescan.BasicMetricsCollector{}
	eng := open(t, newStore(t, rows), testConfig(50), zonescan.WithMetricsCollector(metrics))

	rep, err := eng.Query(context.Background(), zonescan.Query{YearDigit: 3, Location: "1"})
	require.NoError(t, err)
	assert.Zero(t, rep.RowsJoined)
	assert.Positive(t, rep.ZonesPruned)
	assert.Equal(t, int64(rep.ZonesPruned), metrics.GetStats().ZonesPruned)
}

func TestEngine_MemoryLimit(t *testing.T) {
	cfg := testConfig(4)
	cfg.MemoryLimitBytes = 8
	eng := open(t, newStore(t, testutil.ToyRows()), cfg)

	_, err := eng.Query(context.Background(), zonescan.Query{YearDigit: 3, Location: "0"})
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
}

func TestEngine_TieByDay(t *testing.T) {
	rows := testutil.ToyRows()
	eng := open(t, newStore(t, rows), testConfig(4), zonescan.WithTieResolution(zonescan.TieByDay))

	rep, err := eng.Query(context.Background(), zonescan.Query{YearDigit: 3, Location: "0"})
	require.NoError(t, err)
	want := append(
		testutil.ExactExtrema(rows, 2003, "Changi", true),
		testutil.ExactExtrema(rows, 2013, "Changi", true)...,
	)
	assert.Equal(t, want, rep.Extrema)
}

func TestEngine_Closed(t *testing.T) {
	eng := open(t, newStore(t, testutil.ToyRows()), testConfig(4))
	require.NoError(t, eng.Close())
	require.NoError(t, eng.Close())

	_, err := eng.Query(context.Background(), zonescan.Query{YearDigit: 3, Location: "0"})
	assert.ErrorIs(t, err, zonescan.ErrClosed)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(0)
	_, err := zonescan.Open(ctx, cfg)
	assert.ErrorIs(t, err, zonescan.ErrInvalidConfig)

	cfg = testConfig(4)
	cfg.Backend = zonescan.BackendS3
	_, err = zonescan.Open(ctx, cfg)
	assert.ErrorIs(t, err, zonescan.ErrInvalidConfig)

	cfg = testConfig(4)
	cfg.DataFile = "missing.csv"
	_, err = zonescan.Open(ctx, cfg, zonescan.WithBlobStore(blobstore.NewMemoryStore()), zonescan.WithLogger(nil))
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestEngine_LocalStoreWithCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	local := blobstore.NewLocalStore(dir)
	rows := testutil.ToyRows()
	require.NoError(t, local.Put(ctx, "weather.csv", []byte(testutil.CSV(rows))))

	cfg := testConfig(3)
	cfg.Root = dir
	cfg.CacheBytes = 1 << 20
	cfg.CacheBlockSize = 16
	eng, err := zonescan.Open(ctx, cfg, zonescan.WithLogger(nil))
	require.NoError(t, err)
	defer eng.Close()

	rep, err := eng.Query(ctx, zonescan.Query{YearDigit: 3, Location: "1", Label: "A0000013X"})
	require.NoError(t, err)
	want := append(
		testutil.ExactExtrema(rows, 2003, "Paya Lebar", false),
		testutil.ExactExtrema(rows, 2013, "Paya Lebar", false)...,
	)
	assert.Equal(t, want, rep.Extrema)

	exists, err := blobstore.Exists(ctx, local, "results/ScanResult_A0000013X.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}
