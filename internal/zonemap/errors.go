package zonemap

import "errors"

var (
	// ErrZoneNotFound is returned when no zone can contain the target value.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrUnknownColumn is returned for a column that is not indexed.
	ErrUnknownColumn = errors.New("column not indexed")

	// ErrZoneOrder is returned when summaries are added out of zone order.
	ErrZoneOrder = errors.New("zones out of order")

	// ErrIncompatibleVersion is returned when the snapshot version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible zone index version")

	// ErrCorrupt is returned when a snapshot fails its magic or checksum check.
	ErrCorrupt = errors.New("corrupt zone index")

	// ErrNotFound is returned when no snapshot has been saved yet.
	ErrNotFound = errors.New("zone index not found")
)
