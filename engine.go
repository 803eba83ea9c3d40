package zonescan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/internal/aggregate"
	"github.com/hupe1980/zonescan/internal/cache"
	"github.com/hupe1980/zonescan/internal/join"
	"github.com/hupe1980/zonescan/internal/locate"
	"github.com/hupe1980/zonescan/internal/resource"
	"github.com/hupe1980/zonescan/internal/result"
	"github.com/hupe1980/zonescan/internal/scratch"
	"github.com/hupe1980/zonescan/internal/shard"
	"github.com/hupe1980/zonescan/internal/splitter"
	"github.com/hupe1980/zonescan/internal/zonemap"
	"github.com/hupe1980/zonescan/model"
)

// Engine holds the zone map of one source table and runs queries against it.
// Queries are serialized.
type Engine struct {
	cfg  Config
	opts options

	store  blobstore.BlobStore
	cache  cache.BlockCache
	rc     *resource.Controller
	mapper splitter.Mapper

	index  *zonemap.Index
	loader *shard.Loader
	area   *scratch.Area

	mu     sync.Mutex
	closed bool
}

// Open prepares an Engine for cfg. It splits cfg.DataFile into shards and
// persists the zone map, or with WithIndexReuse loads a zone map persisted
// earlier for the same source.
func Open(ctx context.Context, cfg Config, optFns ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)

	compression, err := shard.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		if cfg.Backend != "" && cfg.Backend != BackendLocal {
			return nil, &ConfigError{Field: "Backend", Reason: fmt.Sprintf("%s requires WithBlobStore", cfg.Backend)}
		}
		store = blobstore.NewLocalStore(cfg.Root)
	}

	e := &Engine{
		cfg:    cfg,
		opts:   o,
		mapper: splitter.NewMapper(cfg.Mapper),
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:   cfg.MemoryLimitBytes,
			IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
		}),
	}
	if cfg.CacheBytes > 0 {
		e.cache = cache.NewLRUBlockCache(cfg.CacheBytes)
		store = blobstore.NewCachingStore(store, e.cache, cfg.CacheBlockSize)
	}
	e.store = store
	e.loader = shard.NewLoader(store, cfg.SplitPrefix, compression, e.rc)
	e.area = scratch.NewArea(store, cfg.ScratchPrefix, cfg.ArchivePrefix)

	ixStore := zonemap.NewStore(store, cfg.IndexPrefix)
	if o.reuseIndex {
		ix, err := e.reusable(ctx, ixStore)
		if err != nil {
			return nil, errors.Join(err, e.closeCache())
		}
		if ix != nil {
			e.index = ix
			o.logger.LogIndexLoaded(ctx, ix.ID(), ix.Source(), ix.NumZones())
			return e, nil
		}
	}

	if err := e.split(ctx, compression, ixStore); err != nil {
		return nil, errors.Join(err, e.closeCache())
	}
	return e, nil
}

// reusable returns the persisted zone map when it matches the config and its
// shards are present, or nil when the source must be split again.
func (e *Engine) reusable(ctx context.Context, ixStore *zonemap.Store) (*zonemap.Index, error) {
	ix, err := ixStore.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, zonemap.ErrNotFound) {
			e.opts.logger.WarnContext(ctx, "persisted zone map unusable, splitting again", "error", err)
		}
		return nil, nil
	}

	if ix.Source() != e.cfg.DataFile || ix.ZoneSize() != e.cfg.ZoneSize {
		return nil, nil
	}
	for _, c := range e.cfg.IndexedColumns {
		if !ix.Has(c) {
			return nil, nil
		}
	}
	if ix.NumZones() > 0 {
		ok, err := blobstore.Exists(ctx, e.store, e.loader.Name(model.ColumnTimestamp, 0))
		if err != nil || !ok {
			return nil, err
		}
	}
	return ix, nil
}

func (e *Engine) split(ctx context.Context, compression shard.Compression, ixStore *zonemap.Store) (err error) {
	start := time.Now()
	var (
		rows  uint64
		zones int
	)
	defer func() {
		e.opts.metricsCollector.RecordSplit(rows, zones, time.Since(start), err)
		e.opts.logger.LogSplit(ctx, e.cfg.DataFile, rows, zones, err)
	}()

	s, err := splitter.New(e.store, splitter.Options{
		ZoneSize:       e.cfg.ZoneSize,
		IndexedColumns: e.cfg.IndexedColumns,
		Mapper:         e.mapper,
		Prefix:         e.cfg.SplitPrefix,
		Compression:    compression,
		Resource:       e.rc,
	})
	if err != nil {
		return err
	}

	if err := blobstore.DeletePrefix(ctx, e.store, e.cfg.SplitPrefix+"/"); err != nil {
		return fmt.Errorf("clear shards: %w", err)
	}

	blob, err := e.store.Open(ctx, e.cfg.DataFile)
	if err != nil {
		return fmt.Errorf("open source %s: %w", e.cfg.DataFile, err)
	}
	defer blob.Close()
	r, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := s.Split(ctx, e.cfg.DataFile, r)
	if err != nil {
		return fmt.Errorf("split %s: %w", e.cfg.DataFile, err)
	}
	rows, zones = res.Index.TotalRows(), res.Index.NumZones()

	saved, err := ixStore.Save(ctx, res.Index)
	if err != nil {
		return fmt.Errorf("persist zone map: %w", err)
	}
	e.index = saved
	return nil
}

// Index returns the zone map. It is immutable and safe to share.
func (e *Engine) Index() *zonemap.Index {
	return e.index
}

// Store returns the blob store the engine reads and writes.
func (e *Engine) Store() blobstore.BlobStore {
	return e.store
}

// StationLabel returns the display name of a location code.
func (e *Engine) StationLabel(location string) string {
	if label, ok := e.mapper.Label(model.ColumnStation, location); ok {
		return label
	}
	return location
}

// Query runs the pipeline for q and appends its records to the result file.
//
// Years without a zone to start from are listed in Report.FailedYears and do
// not stop the remaining years. Any other error aborts the query.
func (e *Engine) Query(ctx context.Context, q Query) (*Report, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	start := time.Now()
	rep := &Report{
		RunID:      uuid.NewString(),
		Query:      q,
		Station:    e.StationLabel(q.Location),
		Years:      q.Years(e.cfg.FirstYear, e.cfg.LastYear),
		ResultName: q.ResultName(e.cfg.ResultPrefix),
	}
	logger := e.opts.logger.WithRunID(rep.RunID)

	err := e.run(ctx, logger, q, rep)
	rep.Duration = time.Since(start)

	e.opts.metricsCollector.RecordQuery(rep.Records, rep.Duration, err)
	e.opts.metricsCollector.RecordZones(rep.ZonesScanned, rep.ZonesPruned, rep.ZonesSkipped)
	logger.LogQuery(ctx, q, rep, err)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (e *Engine) run(ctx context.Context, logger *Logger, q Query, rep *Report) error {
	if err := e.area.Reset(ctx); err != nil {
		return err
	}

	locator := locate.New(e.index, e.loader, e.area)
	for _, year := range rep.Years {
		res, err := locator.Locate(ctx, year)
		ylog := logger.WithYear(year)
		if err != nil {
			ylog.LogLocate(ctx, 0, 0, 0, err)
			if errors.Is(err, zonemap.ErrZoneNotFound) {
				rep.FailedYears = append(rep.FailedYears, year)
				continue
			}
			return err
		}
		ylog.LogLocate(ctx, uint32(res.StartZone), res.Rows, res.ZonesScanned, nil)
		rep.RowsLocated += res.Rows
		rep.ZonesScanned += res.ZonesScanned
	}

	walker := join.NewWalker(e.index, e.loader)

	jres, err := join.New(walker, e.area, join.Options{DisablePruning: e.opts.disablePruning}).Join(ctx, q.Location)
	if err != nil {
		logger.LogJoin(ctx, 0, 0, 0, 0, err)
		return err
	}
	logger.LogJoin(ctx, jres.Files, jres.Rows, jres.Matched, jres.Zones.Pruned, nil)
	rep.RowsJoined = jres.Matched
	e.addZones(rep, jres.Zones)

	ares, err := aggregate.New(walker, e.area, aggregate.Options{
		TieKey:       e.opts.tieKey,
		StationLabel: rep.Station,
	}).Aggregate(ctx)
	if err != nil {
		logger.LogAggregate(ctx, 0, 0, 0, err)
		return err
	}
	logger.LogAggregate(ctx, ares.Files, len(ares.Records), ares.Missing, nil)
	e.addZones(rep, ares.Zones)

	if err := result.Append(ctx, e.store, rep.ResultName, ares.Records); err != nil {
		return err
	}
	rep.Extrema = ares.Records
	rep.Records = len(ares.Records)
	return nil
}

func (e *Engine) addZones(rep *Report, s join.WalkStats) {
	rep.ZonesScanned += s.Scanned
	rep.ZonesPruned += s.Pruned
	rep.ZonesSkipped += s.Skipped
}

// Results reads back every record of the result file of q.
func (e *Engine) Results(ctx context.Context, q Query) ([]model.Extremum, error) {
	return result.Read(ctx, e.store, q.ResultName(e.cfg.ResultPrefix))
}

// Close releases the block cache. Queries after Close fail with ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.closeCache()
}

func (e *Engine) closeCache() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Close()
}

