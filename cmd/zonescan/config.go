package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hupe1980/zonescan"
)

// settings is everything the CLI reads from the environment and flags.
type settings struct {
	cfg        zonescan.Config
	reuseIndex bool
	tieByDay   bool
	logLevel   slog.Level
	logJSON    bool

	minioAccessKey string
	minioSecretKey string
	minioSecure    bool
	region         string
}

// loadEnv reads envFile into the process environment. A missing default
// file is not an error.
func loadEnv(envFile string, explicit bool) error {
	if err := godotenv.Load(envFile); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// fromEnv builds settings from ZONESCAN_* variables on top of the defaults.
func fromEnv(getenv func(string) string) (settings, error) {
	s := settings{cfg: zonescan.DefaultConfig(), logLevel: slog.LevelInfo}
	p := envParser{getenv: getenv}

	c := &s.cfg
	p.str("ZONESCAN_DATA_FILE", &c.DataFile)
	p.integer("ZONESCAN_ZONE_SIZE", &c.ZoneSize)
	p.integer("ZONESCAN_FIRST_YEAR", &c.FirstYear)
	p.integer("ZONESCAN_LAST_YEAR", &c.LastYear)
	p.str("ZONESCAN_COMPRESSION", &c.Compression)
	p.int64("ZONESCAN_MEMORY_LIMIT", &c.MemoryLimitBytes)
	p.int64("ZONESCAN_IO_LIMIT", &c.IOLimitBytesPerSec)
	p.int64("ZONESCAN_CACHE_BYTES", &c.CacheBytes)
	p.int64("ZONESCAN_CACHE_BLOCK_SIZE", &c.CacheBlockSize)
	p.str("ZONESCAN_ROOT", &c.Root)
	p.str("ZONESCAN_BUCKET", &c.Bucket)
	p.str("ZONESCAN_PREFIX", &c.Prefix)
	p.str("ZONESCAN_ENDPOINT", &c.Endpoint)
	if v := getenv("ZONESCAN_BACKEND"); v != "" {
		c.Backend = zonescan.Backend(strings.ToLower(v))
	}
	if v := getenv("ZONESCAN_INDEXED_COLUMNS"); v != "" {
		c.IndexedColumns = splitList(v)
	}

	p.boolean("ZONESCAN_REUSE_INDEX", &s.reuseIndex)
	p.boolean("ZONESCAN_TIE_BY_DAY", &s.tieByDay)
	p.boolean("ZONESCAN_LOG_JSON", &s.logJSON)
	if v := getenv("ZONESCAN_LOG_LEVEL"); v != "" {
		if err := s.logLevel.UnmarshalText([]byte(v)); err != nil {
			p.fail("ZONESCAN_LOG_LEVEL", err)
		}
	}

	p.str("ZONESCAN_MINIO_ACCESS_KEY", &s.minioAccessKey)
	p.str("ZONESCAN_MINIO_SECRET_KEY", &s.minioSecretKey)
	p.boolean("ZONESCAN_MINIO_SECURE", &s.minioSecure)
	p.str("ZONESCAN_REGION", &s.region)

	return s, p.err
}

func splitList(v string) []string {
	var out []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// envParser records the first malformed variable.
type envParser struct {
	getenv func(string) string
	err    error
}

func (p *envParser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %w", key, err)
	}
}

func (p *envParser) str(key string, dst *string) {
	if v := p.getenv(key); v != "" {
		*dst = v
	}
}

func (p *envParser) integer(key string, dst *int) {
	if v := p.getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = n
	}
}

func (p *envParser) int64(key string, dst *int64) {
	if v := p.getenv(key); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = n
	}
}

func (p *envParser) boolean(key string, dst *bool) {
	if v := p.getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = b
	}
}

func (s settings) logger() *zonescan.Logger {
	if s.logJSON {
		return zonescan.NewJSONLogger(s.logLevel)
	}
	return zonescan.NewTextLogger(s.logLevel)
}
