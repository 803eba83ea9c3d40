package testutil

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/zonescan/model"
)

// TimestampLayout is the timestamp format of the weather table.
const TimestampLayout = "2006-01-02 15:04"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Row is one record of the weather table.
type Row struct {
	Timestamp   string
	Station     string
	Temperature string
	Humidity    string
}

// Fields returns the row in header order.
func (r Row) Fields() []string {
	return []string{r.Timestamp, r.Station, r.Temperature, r.Humidity}
}

// Header is the weather table header.
var Header = []string{model.ColumnTimestamp, model.ColumnStation, model.ColumnTemperature, model.ColumnHumidity}

// TableOptions configures WeatherRows.
type TableOptions struct {
	// Start is the first timestamp. Default 2002-12-31 18:00.
	Start time.Time
	// Step is the time between consecutive rows. Default 1h.
	Step time.Duration
	// Rows is the number of rows. Default 1000.
	Rows int
	// MissingRate is the probability of an "M" reading.
	MissingRate float64
	// Stations are cycled through. Default Changi and Paya Lebar.
	Stations []string
	// Levels bounds the number of distinct temperature values, forcing ties. Default 20.
	Levels int
}

// WeatherRows generates rows sorted by timestamp.
func (r *RNG) WeatherRows(opts TableOptions) []Row {
	if opts.Start.IsZero() {
		opts.Start = time.Date(2002, 12, 31, 18, 0, 0, 0, time.UTC)
	}
	if opts.Step <= 0 {
		opts.Step = time.Hour
	}
	if opts.Rows <= 0 {
		opts.Rows = 1000
	}
	if len(opts.Stations) == 0 {
		opts.Stations = []string{"Changi", "Paya Lebar"}
	}
	if opts.Levels <= 0 {
		opts.Levels = 20
	}

	rows := make([]Row, opts.Rows)
	ts := opts.Start
	for i := range rows {
		rows[i] = Row{
			Timestamp:   ts.Format(TimestampLayout),
			Station:     opts.Stations[i%len(opts.Stations)],
			Temperature: r.reading(opts, 20, 0.5),
			Humidity:    r.reading(opts, 60, 1),
		}
		// Every station reports at the same instant before time advances.
		if (i+1)%len(opts.Stations) == 0 {
			ts = ts.Add(opts.Step)
		}
	}
	return rows
}

func (r *RNG) reading(opts TableOptions, base, step float64) string {
	if opts.MissingRate > 0 && r.Float64() < opts.MissingRate {
		return model.MissingValue
	}
	return strconv.FormatFloat(base+float64(r.Intn(opts.Levels))*step, 'f', -1, 64)
}

// SortedTimestamps returns n ascending timestamps with duplicates.
func (r *RNG) SortedTimestamps(n int) []string {
	out := make([]string, n)
	ts := time.Date(2012, 11, 30, 0, 0, 0, 0, time.UTC)
	for i := range out {
		if r.Intn(3) > 0 {
			ts = ts.Add(time.Duration(r.Intn(48*60)) * time.Minute)
		}
		out[i] = ts.Format(TimestampLayout)
	}
	return out
}

// CSV renders rows as a weather table with header.
func CSV(rows []Row) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(Header, ","))
	sb.WriteByte('\n')
	for _, row := range rows {
		sb.WriteString(strings.Join(row.Fields(), ","))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ToyRows is a seven row table spanning 2003 and 2013.
func ToyRows() []Row {
	return []Row{
		{"2003-01-01 00:00", "Changi", "10", "80"},
		{"2003-01-01 01:00", "Changi", "15", "80"},
		{"2003-01-01 02:00", "Paya Lebar", "30", "50"},
		{"2003-02-01 00:00", "Changi", "M", "70"},
		{"2013-01-01 00:00", "Changi", "25", "90"},
		{"2013-01-01 01:00", "Changi", "25", "M"},
		{"2013-03-01 00:00", "Paya Lebar", "20", "60"},
	}
}

// ExactExtrema computes the monthly extrema of station for year by brute
// force, in the order the pipeline emits them. With byDay, ties are keyed by
// calendar day instead of full timestamp.
func ExactExtrema(rows []Row, year int, station string, byDay bool) []model.Extremum {
	type acc struct {
		value float64
		text  string
		dates map[string]bool
		seen  bool
	}
	better := []func(a, b float64) bool{
		func(a, b float64) bool { return a < b },
		func(a, b float64) bool { return a > b },
		func(a, b float64) bool { return a < b },
		func(a, b float64) bool { return a > b },
	}

	months := map[int][]*acc{}
	prefix := fmt.Sprintf("%04d-", year)
	for _, row := range rows {
		if !strings.HasPrefix(row.Timestamp, prefix) || row.Station != station {
			continue
		}
		month, _ := strconv.Atoi(row.Timestamp[5:7])
		accs, ok := months[month]
		if !ok {
			accs = []*acc{{}, {}, {}, {}}
			months[month] = accs
		}
		date := row.Timestamp
		if byDay {
			date = date[:10]
		}
		readings := []string{row.Temperature, row.Temperature, row.Humidity, row.Humidity}
		for i, text := range readings {
			if text == model.MissingValue {
				continue
			}
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				continue
			}
			a := accs[i]
			switch {
			case !a.seen || better[i](v, a.value):
				*a = acc{value: v, text: text, dates: map[string]bool{date: true}, seen: true}
			case v == a.value:
				a.dates[date] = true
			}
		}
	}

	keys := make([]int, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Ints(keys)

	var out []model.Extremum
	for _, m := range keys {
		for i, a := range months[m] {
			if !a.seen {
				continue
			}
			dates := make([]string, 0, len(a.dates))
			for d := range a.dates {
				dates = append(dates, d)
			}
			sort.Strings(dates)
			for _, d := range dates {
				out = append(out, model.Extremum{Date: d, Station: station, Category: model.Categories[i], Value: a.text})
			}
		}
	}
	return out
}
