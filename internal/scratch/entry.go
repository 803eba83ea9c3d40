package scratch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/zonescan/model"
)

var (
	// ErrUnsortedPositions is returned when a file's positions are not strictly ascending.
	ErrUnsortedPositions = errors.New("positions not strictly ascending")

	// ErrMalformedEntry is returned for a line that is not "{timestamp} {position}".
	ErrMalformedEntry = errors.New("malformed entry")
)

// Entry is one located row.
type Entry struct {
	Timestamp string
	Position  model.Position
}

// String returns the line form of the entry, without newline.
func (e Entry) String() string {
	return e.Timestamp + " " + strconv.FormatUint(uint64(e.Position), 10)
}

// ParseEntry parses a line written by Entry.String. The timestamp itself
// contains a space, so the position is taken after the last one.
func ParseEntry(line string) (Entry, error) {
	i := strings.LastIndexByte(line, ' ')
	if i <= 0 {
		return Entry{}, fmt.Errorf("%q: %w", line, ErrMalformedEntry)
	}
	p, err := strconv.ParseUint(line[i+1:], 10, 32)
	if err != nil {
		return Entry{}, fmt.Errorf("%q: %w", line, ErrMalformedEntry)
	}
	return Entry{Timestamp: line[:i], Position: model.Position(p)}, nil
}

// Date returns the calendar day of the entry ("YYYY-MM-DD").
func (e Entry) Date() string {
	if len(e.Timestamp) < 10 {
		return e.Timestamp
	}
	return e.Timestamp[:10]
}
