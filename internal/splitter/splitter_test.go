package splitter

import (
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/internal/shard"
	"github.com/hupe1980/zonescan/internal/zonemap"
	"github.com/hupe1980/zonescan/model"
	"github.com/hupe1980/zonescan/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allColumns = []string{model.ColumnTimestamp, model.ColumnStation, model.ColumnTemperature, model.ColumnHumidity}

func stationMapper() Mapper {
	return NewMapper(map[string]map[string]string{
		model.ColumnStation: {"Changi": "0", "Paya Lebar": "1"},
	})
}

func split(t *testing.T, store blobstore.BlobStore, zoneSize int, input string) *Result {
	t.Helper()
	s, err := New(store, Options{
		ZoneSize:       zoneSize,
		IndexedColumns: allColumns,
		Mapper:         stationMapper(),
		Prefix:         "split_data",
	})
	require.NoError(t, err)
	res, err := s.Split(context.Background(), "toy.csv", strings.NewReader(input))
	require.NoError(t, err)
	return res
}

func readShard(t *testing.T, store blobstore.BlobStore, column string, zone model.ZoneID) []string {
	t.Helper()
	z, err := shard.NewLoader(store, "split_data", shard.CompressionNone, nil).Load(context.Background(), column, zone)
	require.NoError(t, err)
	return z.Lines
}

func TestSplit_Toy(t *testing.T) {
	store := blobstore.NewMemoryStore()
	res := split(t, store, 4, testutil.CSV(testutil.ToyRows()))

	assert.Equal(t, allColumns, res.Columns)
	assert.Equal(t, 8, res.Shards)

	ix := res.Index
	assert.Equal(t, uint64(7), ix.TotalRows())
	assert.Equal(t, 2, ix.NumZones())
	assert.Equal(t, "toy.csv", ix.Source())

	ts, err := ix.Summaries(model.ColumnTimestamp)
	require.NoError(t, err)
	assert.Equal(t, []zonemap.Summary{
		{Zone: 0, Min: "2003-01-01 00:00", Max: "2003-02-01 00:00", Rows: 4},
		{Zone: 1, Min: "2013-01-01 00:00", Max: "2013-03-01 00:00", Rows: 3},
	}, ts)

	st, err := ix.Summaries(model.ColumnStation)
	require.NoError(t, err)
	assert.Equal(t, "0", st[0].Min)
	assert.Equal(t, "1", st[0].Max)

	temp, err := ix.Summaries(model.ColumnTemperature)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), temp[0].Missing)
	assert.Equal(t, "10", temp[0].Min)
	assert.Equal(t, "30", temp[0].Max)

	assert.Equal(t, []string{"0", "0", "1", "0"}, readShard(t, store, model.ColumnStation, 0))
	assert.Equal(t, []string{"0", "0", "1"}, readShard(t, store, model.ColumnStation, 1))
	assert.Equal(t, []string{"25", "25", "20"}, readShard(t, store, model.ColumnTemperature, 1))
	assert.Equal(t, []string{"90", "M", "60"}, readShard(t, store, model.ColumnHumidity, 1))
}

func TestSplit_ExactZoneMultiple(t *testing.T) {
	store := blobstore.NewMemoryStore()
	rows := testutil.ToyRows()[:4]
	res := split(t, store, 2, testutil.CSV(rows))

	assert.Equal(t, 2, res.Index.NumZones())
	assert.Equal(t, uint64(4), res.Index.TotalRows())

	names, err := store.List(context.Background(), "split_data/Timestamp_")
	require.NoError(t, err)
	assert.Equal(t, []string{"split_data/Timestamp_0.txt", "split_data/Timestamp_1.txt"}, names)
}

func TestSplit_HeaderOnly(t *testing.T) {
	store := blobstore.NewMemoryStore()
	res := split(t, store, 4, "Timestamp,Station,Temperature,Humidity\n")
	assert.Equal(t, 0, res.Index.NumZones())
	assert.Equal(t, 0, res.Shards)

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSplit_UnindexedColumnsAreWritten(t *testing.T) {
	store := blobstore.NewMemoryStore()
	input := "Timestamp,Station,Temperature,Humidity,Wind\n2003-01-01 00:00,Changi,10,80,NE\n"
	res := split(t, store, 4, input)

	assert.False(t, res.Index.Has("Wind"))
	assert.Equal(t, []string{"NE"}, readShard(t, store, "Wind", 0))
}

func TestSplit_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "empty",
			input: "",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrEmptyInput) },
		},
		{
			name:  "column count",
			input: "Timestamp,Station,Temperature,Humidity\n2003-01-01 00:00,Changi,10,80\n2003-01-01 01:00,Changi,10\n",
			check: func(t *testing.T, err error) {
				var re *RowError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, 3, re.Line)
			},
		},
		{
			name:  "unmapped station",
			input: "Timestamp,Station,Temperature,Humidity\n2003-01-01 00:00,Tengah,10,80\n",
			check: func(t *testing.T, err error) {
				var re *RowError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, 2, re.Line)
				assert.ErrorIs(t, err, ErrUnmappedValue)
			},
		},
		{
			name:  "missing indexed column",
			input: "Timestamp,Station,Temperature\n",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrMissingColumn) },
		},
		{
			name:  "duplicate column",
			input: "Timestamp,Station,Temperature,Humidity,Station\n",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrDuplicateColumn) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(blobstore.NewMemoryStore(), Options{
				ZoneSize:       4,
				IndexedColumns: allColumns,
				Mapper:         stationMapper(),
				Prefix:         "split_data",
			})
			require.NoError(t, err)
			_, err = s.Split(context.Background(), "bad.csv", strings.NewReader(tt.input))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(blobstore.NewMemoryStore(), Options{ZoneSize: 0, IndexedColumns: allColumns})
	assert.ErrorIs(t, err, ErrInvalidZoneSize)

	_, err = New(blobstore.NewMemoryStore(), Options{ZoneSize: 4, IndexedColumns: []string{model.ColumnStation}})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestSplit_Compressed(t *testing.T) {
	store := blobstore.NewMemoryStore()
	s, err := New(store, Options{
		ZoneSize:       3,
		IndexedColumns: allColumns,
		Mapper:         stationMapper(),
		Prefix:         "split_data",
		Compression:    shard.CompressionLZ4,
	})
	require.NoError(t, err)
	_, err = s.Split(context.Background(), "toy.csv", strings.NewReader(testutil.CSV(testutil.ToyRows())))
	require.NoError(t, err)

	z, err := shard.NewLoader(store, "split_data", shard.CompressionLZ4, nil).Load(context.Background(), model.ColumnTimestamp, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2013-03-01 00:00"}, z.Lines)
}

func TestSplit_LargeTableZoneCoverage(t *testing.T) {
	rows := testutil.NewRNG(11).WeatherRows(testutil.TableOptions{Rows: 2500, MissingRate: 0.05})
	store := blobstore.NewMemoryStore()
	res := split(t, store, 300, testutil.CSV(rows))

	ix := res.Index
	require.Equal(t, uint64(len(rows)), ix.TotalRows())
	require.Equal(t, 9, ix.NumZones())

	for p, row := range rows {
		zone, off := model.Locate(model.Position(p), ix.ZoneSize())
		s, ok := ix.Summary(model.ColumnTimestamp, zone)
		require.True(t, ok)
		assert.True(t, s.Contains(row.Timestamp), "row %d", p)
		if off == 0 {
			assert.Equal(t, row.Timestamp, s.Min)
		}
	}
}

func TestMapper(t *testing.T) {
	src := map[string]map[string]string{model.ColumnStation: {"Changi": "0"}}
	m := NewMapper(src)
	src[model.ColumnStation]["Changi"] = "9"

	code, err := m.Map(model.ColumnStation, "Changi")
	require.NoError(t, err)
	assert.Equal(t, "0", code)

	label, ok := m.Label(model.ColumnStation, "0")
	assert.True(t, ok)
	assert.Equal(t, "Changi", label)

	v, err := m.Map(model.ColumnTemperature, "25")
	require.NoError(t, err)
	assert.Equal(t, "25", v)
	assert.False(t, Mapper{}.Maps(model.ColumnStation))
}
