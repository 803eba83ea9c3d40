package zonescan

import (
	"slices"

	"github.com/hupe1980/zonescan/internal/shard"
	"github.com/hupe1980/zonescan/model"
)

// Backend names a blob store implementation.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendS3    Backend = "s3"
	BackendMinIO Backend = "minio"
)

// DefaultZoneSize is the number of rows per zone.
const DefaultZoneSize = 100000

// Config describes the source table and the storage layout.
type Config struct {
	// DataFile is the blob name of the source table.
	DataFile string
	// ZoneSize is the number of rows per zone.
	ZoneSize int
	// IndexedColumns get zone summaries. Must include Timestamp.
	IndexedColumns []string
	// Mapper replaces values before they are written, per column:
	// {column: {label: code}}. Station labels are mapped to location codes.
	Mapper map[string]map[string]string

	SplitPrefix   string
	ScratchPrefix string
	ArchivePrefix string
	ResultPrefix  string
	IndexPrefix   string

	// FirstYear and LastYear bound the years a year digit expands to.
	FirstYear int
	LastYear  int

	// Compression is the shard codec: "none", "lz4" or "zstd".
	Compression string

	// MemoryLimitBytes caps the decoded shard data held at once. 0 is unlimited.
	MemoryLimitBytes int64
	// IOLimitBytesPerSec throttles shard reads and writes. 0 is unlimited.
	IOLimitBytesPerSec int64
	// CacheBytes enables a block cache in front of the store when positive.
	CacheBytes int64
	// CacheBlockSize is the cache block size. 0 selects the default.
	CacheBlockSize int64

	// Backend selects the blob store when WithBlobStore is not given.
	// Only the local backend can be built from Config alone.
	Backend  Backend
	Root     string
	Bucket   string
	Prefix   string
	Endpoint string
}

// DefaultConfig returns the configuration for the Singapore weather table.
func DefaultConfig() Config {
	return Config{
		DataFile:       "SingaporeWeather.csv",
		ZoneSize:       DefaultZoneSize,
		IndexedColumns: []string{model.ColumnTimestamp, model.ColumnStation, model.ColumnTemperature, model.ColumnHumidity},
		Mapper: map[string]map[string]string{
			model.ColumnStation: {"Changi": "0", "Paya Lebar": "1"},
		},
		SplitPrefix:   "split_data",
		ScratchPrefix: "temp",
		ArchivePrefix: "archive",
		ResultPrefix:  "results",
		IndexPrefix:   "index",
		FirstYear:     2002,
		LastYear:      2021,
		Compression:   "none",
		Backend:       BackendLocal,
		Root:          ".",
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.DataFile == "":
		return &ConfigError{Field: "DataFile", Reason: "must not be empty"}
	case c.ZoneSize <= 0:
		return &ConfigError{Field: "ZoneSize", Reason: "must be positive"}
	case !slices.Contains(c.IndexedColumns, model.ColumnTimestamp):
		return &ConfigError{Field: "IndexedColumns", Reason: "must include " + model.ColumnTimestamp}
	case c.SplitPrefix == "" || c.ScratchPrefix == "" || c.ArchivePrefix == "" || c.ResultPrefix == "" || c.IndexPrefix == "":
		return &ConfigError{Field: "Prefix", Reason: "storage prefixes must not be empty"}
	case c.ScratchPrefix == c.ArchivePrefix:
		return &ConfigError{Field: "ArchivePrefix", Reason: "must differ from ScratchPrefix"}
	case c.FirstYear > c.LastYear:
		return &ConfigError{Field: "FirstYear", Reason: "must not be after LastYear"}
	case c.MemoryLimitBytes < 0 || c.IOLimitBytesPerSec < 0 || c.CacheBytes < 0 || c.CacheBlockSize < 0:
		return &ConfigError{Field: "Limits", Reason: "must not be negative"}
	}
	if _, err := shard.ParseCompression(c.Compression); err != nil {
		return &ConfigError{Field: "Compression", Reason: err.Error()}
	}
	switch c.Backend {
	case "", BackendLocal, BackendS3, BackendMinIO:
	default:
		return &ConfigError{Field: "Backend", Reason: "unknown backend " + string(c.Backend)}
	}
	return nil
}
