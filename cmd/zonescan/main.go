// Command zonescan splits a weather table into zone-mapped column shards and
// answers extrema queries for matriculation numbers typed at a prompt.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/hupe1980/zonescan"
	"github.com/hupe1980/zonescan/internal/result"
)

var (
	envFlag         = flag.String("env", ".env", "Environment file with ZONESCAN_* settings")
	dataFlag        = flag.String("data", "", "Source table blob name (overrides ZONESCAN_DATA_FILE)")
	zoneSizeFlag    = flag.Int("zone-size", 0, "Rows per zone (overrides ZONESCAN_ZONE_SIZE)")
	backendFlag     = flag.String("backend", "", "Blob store: local, s3, minio (overrides ZONESCAN_BACKEND)")
	rootFlag        = flag.String("root", "", "Local store root directory (overrides ZONESCAN_ROOT)")
	compressionFlag = flag.String("compression", "", "Shard compression: none, lz4, zstd")
	reuseFlag       = flag.Bool("reuse-index", false, "Reuse a persisted zone map instead of splitting again")
	byDayFlag       = flag.Bool("tie-by-day", false, "Count ties once per calendar day")
	matricFlag      = flag.String("m", "", "Run a single matriculation number and exit")
	quietFlag       = flag.Bool("quiet", false, "Do not print result tables")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Splits the weather table once, then answers queries for matriculation numbers.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -data SingaporeWeather.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -reuse-index -m U1923456C\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -backend s3 -compression zstd\n", os.Args[0])
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	explicitEnv := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "env" {
			explicitEnv = true
		}
	})
	if err := loadEnv(*envFlag, explicitEnv); err != nil {
		return err
	}

	s, err := fromEnv(os.Getenv)
	if err != nil {
		return err
	}
	applyFlags(&s)

	store, err := newBlobStore(ctx, s)
	if err != nil {
		return err
	}

	opts := []zonescan.Option{
		zonescan.WithBlobStore(store),
		zonescan.WithLogger(s.logger()),
		zonescan.WithIndexReuse(s.reuseIndex),
	}
	if s.tieByDay {
		opts = append(opts, zonescan.WithTieResolution(zonescan.TieByDay))
	}

	fmt.Fprintf(out, "Data file used: %s\n", s.cfg.DataFile)
	if blob, err := store.Open(ctx, s.cfg.DataFile); err == nil {
		fmt.Fprintf(out, "File Size is %.2f MB\n", float64(blob.Size())/(1024*1024))
		_ = blob.Close()
	}

	eng, err := zonescan.Open(ctx, s.cfg, opts...)
	if err != nil {
		return err
	}
	defer eng.Close()

	ix := eng.Index()
	fmt.Fprintf(out, "Number of rows in the file is %d in %d zones\n", ix.TotalRows(), ix.NumZones())

	if *matricFlag != "" {
		return answer(ctx, eng, out, *matricFlag)
	}
	return prompt(ctx, eng, in, out)
}

func applyFlags(s *settings) {
	if *dataFlag != "" {
		s.cfg.DataFile = *dataFlag
	}
	if *zoneSizeFlag > 0 {
		s.cfg.ZoneSize = *zoneSizeFlag
	}
	if *backendFlag != "" {
		s.cfg.Backend = zonescan.Backend(*backendFlag)
	}
	if *rootFlag != "" {
		s.cfg.Root = *rootFlag
	}
	if *compressionFlag != "" {
		s.cfg.Compression = *compressionFlag
	}
	if *reuseFlag {
		s.reuseIndex = true
	}
	if *byDayFlag {
		s.tieByDay = true
	}
}

// prompt answers matriculation numbers until "c", EOF or cancellation.
func prompt(ctx context.Context, eng *zonescan.Engine, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out)
		fmt.Fprint(out, "Enter your matriculation number for processing, c to cancel: ")
		if !sc.Scan() {
			return sc.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(sc.Text())
		if line == "c" {
			fmt.Fprintln(out, "Have a good day, bye bye...")
			return nil
		}
		if err := answer(ctx, eng, out, line); err != nil {
			if errors.Is(err, zonescan.ErrInvalidMatriculation) {
				fmt.Fprintln(out, "Invalid input, matriculation number is 9 characters with digits in positions 7 and 8...")
				continue
			}
			return err
		}
	}
}

func answer(ctx context.Context, eng *zonescan.Engine, out io.Writer, matric string) error {
	q, err := zonescan.ParseMatriculation(matric)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Processing data for years ending in %d at %s...\n", q.YearDigit, eng.StationLabel(q.Location))
	rep, err := eng.Query(ctx, q)
	if err != nil {
		return err
	}

	if !*quietFlag {
		result.Render(out, rep.Extrema)
	}
	for _, y := range rep.FailedYears {
		fmt.Fprintf(out, "No data for %d\n", y)
	}
	fmt.Fprintf(out, "%d records appended to %s\n", rep.Records, rep.ResultName)
	return nil
}
