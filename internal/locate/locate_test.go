package locate

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/internal/scratch"
	"github.com/hupe1980/zonescan/internal/shard"
	"github.com/hupe1980/zonescan/internal/splitter"
	"github.com/hupe1980/zonescan/internal/zonemap"
	"github.com/hupe1980/zonescan/model"
	"github.com/hupe1980/zonescan/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, zoneSize int, rows []testutil.Row) (*Locator, *scratch.Area) {
	t.Helper()
	store := blobstore.NewMemoryStore()
	s, err := splitter.New(store, splitter.Options{
		ZoneSize:       zoneSize,
		IndexedColumns: []string{model.ColumnTimestamp},
		Prefix:         "split_data",
	})
	require.NoError(t, err)
	res, err := s.Split(context.Background(), "test.csv", strings.NewReader(testutil.CSV(rows)))
	require.NoError(t, err)

	area := scratch.NewArea(store, "temp", "archive")
	loader := shard.NewLoader(store, "split_data", shard.CompressionNone, nil)
	return New(res.Index, loader, area), area
}

func TestBinarySearch(t *testing.T) {
	rng := testutil.NewRNG(11)
	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(40)
		lines := make([]string, n)
		for i := range lines {
			// Small alphabet to force duplicates.
			lines[i] = string(rune('a' + rng.Intn(6)))
		}
		sort.Strings(lines)

		targets := []string{"", "a", "c", "f", "z"}
		if n > 0 {
			targets = append(targets, lines[0], lines[n-1], lines[rng.Intn(n)])
		}
		for _, target := range targets {
			i := BinarySearch(target, lines)
			require.GreaterOrEqual(t, i, 0)
			require.LessOrEqual(t, i, n)
			if i < n {
				assert.GreaterOrEqual(t, lines[i], target)
			}
			if i > 0 {
				assert.Less(t, lines[i-1], target)
			}
		}
	}
}

func TestBoundaryTimestamp(t *testing.T) {
	assert.Equal(t, "2003-01-01 00:00", BoundaryTimestamp(2003))
}

func TestMonth(t *testing.T) {
	m, err := Month("2013-03-01 00:00")
	require.NoError(t, err)
	assert.Equal(t, 3, m)

	for _, bad := range []string{"2013", "2013-13-01", "2013/01/01", "2013-xx-01"} {
		_, err := Month(bad)
		assert.ErrorIs(t, err, ErrMalformedTimestamp, bad)
	}
}

func TestLocate_Toy(t *testing.T) {
	ctx := context.Background()
	l, area := setup(t, 4, testutil.ToyRows())

	res, err := l.Locate(ctx, 2003)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, map[int]int{1: 3, 2: 1}, res.Months)
	assert.Equal(t, model.ZoneID(0), res.StartZone)

	jan, err := area.Read(ctx, scratch.KindTimestamp, scratch.Key{Year: 2003, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, []scratch.Entry{
		{Timestamp: "2003-01-01 00:00", Position: 0},
		{Timestamp: "2003-01-01 01:00", Position: 1},
		{Timestamp: "2003-01-01 02:00", Position: 2},
	}, jan)

	res, err = l.Locate(ctx, 2013)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 2, 3: 1}, res.Months)
	assert.Equal(t, model.ZoneID(1), res.StartZone)

	keys, err := area.Keys(ctx, scratch.KindTimestamp)
	require.NoError(t, err)
	assert.Equal(t, []scratch.Key{{Year: 2003, Month: 1}, {Year: 2003, Month: 2}, {Year: 2013, Month: 1}, {Year: 2013, Month: 3}}, keys)
}

func TestLocate_ZoneBoundaryContinuation(t *testing.T) {
	ctx := context.Background()
	rows := []testutil.Row{
		{Timestamp: "2002-12-31 23:00", Station: "Changi", Temperature: "1", Humidity: "1"},
		{Timestamp: "2003-01-01 00:00", Station: "Changi", Temperature: "1", Humidity: "1"},
		{Timestamp: "2003-01-02 00:00", Station: "Changi", Temperature: "1", Humidity: "1"},
		{Timestamp: "2003-05-02 00:00", Station: "Changi", Temperature: "1", Humidity: "1"},
		{Timestamp: "2003-06-02 00:00", Station: "Changi", Temperature: "1", Humidity: "1"},
		{Timestamp: "2003-12-02 00:00", Station: "Changi", Temperature: "1", Humidity: "1"},
		{Timestamp: "2004-01-01 00:00", Station: "Changi", Temperature: "1", Humidity: "1"},
	}
	l, area := setup(t, 2, rows)

	res, err := l.Locate(ctx, 2003)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Rows)
	// Zones 0, 1 and 2 hold 2003 rows; zone 3 holds the stopping row.
	assert.Equal(t, 4, res.ZonesScanned)

	dec, err := area.Read(ctx, scratch.KindTimestamp, scratch.Key{Year: 2003, Month: 12})
	require.NoError(t, err)
	assert.Equal(t, []scratch.Entry{{Timestamp: "2003-12-02 00:00", Position: 5}}, dec)
}

func TestLocate_GapAndMissingYears(t *testing.T) {
	ctx := context.Background()
	l, area := setup(t, 4, testutil.ToyRows())

	// 2008 falls in the gap between the 2003 and 2013 rows.
	res, err := l.Locate(ctx, 2008)
	require.NoError(t, err)
	assert.Zero(t, res.Rows)

	// 2002 lies before the first zone.
	res, err = l.Locate(ctx, 2002)
	require.NoError(t, err)
	assert.Zero(t, res.Rows)

	_, err = l.Locate(ctx, 2021)
	require.ErrorIs(t, err, zonemap.ErrZoneNotFound)

	keys, err := area.Keys(ctx, scratch.KindTimestamp)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocate_MatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	// About two months of hourly rows for two stations from late 2002.
	rows := testutil.NewRNG(5).WeatherRows(testutil.TableOptions{Rows: 3000})
	l, area := setup(t, 97, rows)

	want := map[scratch.Key][]scratch.Entry{}
	for i, r := range rows {
		if !strings.HasPrefix(r.Timestamp, "2003-") {
			continue
		}
		m, err := Month(r.Timestamp)
		require.NoError(t, err)
		k := scratch.Key{Year: 2003, Month: m}
		want[k] = append(want[k], scratch.Entry{Timestamp: r.Timestamp, Position: model.Position(i)})
	}
	require.NotEmpty(t, want)

	res, err := l.Locate(ctx, 2003)
	require.NoError(t, err)
	for k, entries := range want {
		got, err := area.Read(ctx, scratch.KindTimestamp, k)
		require.NoError(t, err)
		assert.Equal(t, entries, got, "%v", k)
		assert.Equal(t, len(entries), res.Months[k.Month])
	}
}

func TestLocate_Cancelled(t *testing.T) {
	l, _ := setup(t, 4, testutil.ToyRows())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Locate(ctx, 2003)
	assert.ErrorIs(t, err, context.Canceled)
}
