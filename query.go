package zonescan

import (
	"fmt"
	"path"
	"time"

	"github.com/hupe1980/zonescan/internal/aggregate"
	"github.com/hupe1980/zonescan/model"
)

// TieKey selects how tied rows are told apart.
type TieKey = aggregate.TieKey

const (
	// TieByTimestamp keys ties by full timestamp.
	TieByTimestamp = aggregate.TieByTimestamp
	// TieByDay keys ties by calendar day.
	TieByDay = aggregate.TieByDay
)

// Location codes of the two stations.
const (
	LocationChangi    = "0"
	LocationPayaLebar = "1"
)

// Query asks for the monthly extrema of one station over every year whose
// last digit is YearDigit.
type Query struct {
	// YearDigit is 0-9.
	YearDigit int
	// Location is a station code, "0" or "1".
	Location string
	// Label names the result file, usually the matriculation number.
	Label string
}

// Validate returns a *QueryError for the first invalid field.
func (q Query) Validate() error {
	if q.YearDigit < 0 || q.YearDigit > 9 {
		return &QueryError{Field: "YearDigit", Value: q.YearDigit, Reason: "must be 0-9"}
	}
	if q.Location != LocationChangi && q.Location != LocationPayaLebar {
		return &QueryError{Field: "Location", Value: q.Location, Reason: "must be \"0\" or \"1\""}
	}
	for _, r := range q.Label {
		if r == '/' || r == '\\' {
			return &QueryError{Field: "Label", Value: q.Label, Reason: "must not contain path separators"}
		}
	}
	return nil
}

// Years returns the years in [first, last] ending in the query's digit.
func (q Query) Years(first, last int) []int {
	var years []int
	for y := first; y <= last; y++ {
		if y%10 == q.YearDigit {
			years = append(years, y)
		}
	}
	return years
}

// ResultName returns the result file name under prefix.
func (q Query) ResultName(prefix string) string {
	if q.Label == "" {
		return path.Join(prefix, "ScanResult.csv")
	}
	return path.Join(prefix, fmt.Sprintf("ScanResult_%s.csv", q.Label))
}

// ParseMatriculation derives a query from a nine character matriculation
// number: the second to last character is the year digit, the third to last
// selects the station (odd digits Paya Lebar, even digits Changi).
func ParseMatriculation(s string) (Query, error) {
	if len(s) != 9 {
		return Query{}, fmt.Errorf("%q: length %d, want 9: %w", s, len(s), ErrInvalidMatriculation)
	}
	year, loc := s[7], s[6]
	if !isDigit(year) || !isDigit(loc) {
		return Query{}, fmt.Errorf("%q: expected digits at positions 7 and 8: %w", s, ErrInvalidMatriculation)
	}

	q := Query{YearDigit: int(year - '0'), Location: LocationChangi, Label: s}
	if (loc-'0')%2 == 1 {
		q.Location = LocationPayaLebar
	}
	return q, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Report describes a finished query.
type Report struct {
	// RunID identifies the query in logs.
	RunID string
	Query Query
	// Station is the display label of the queried location.
	Station string
	// Years are the years scanned, FailedYears those without a zone to start from.
	Years       []int
	FailedYears []int

	RowsLocated int
	RowsJoined  int
	Records     int
	// Extrema are the records appended to ResultName.
	Extrema    []model.Extremum
	ResultName string

	ZonesScanned int
	ZonesPruned  int
	ZonesSkipped int

	Duration time.Duration
}
