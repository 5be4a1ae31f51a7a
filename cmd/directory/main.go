package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/campuscharge/powerbank/backend-go/internal/cache"
	"github.com/campuscharge/powerbank/backend-go/internal/config"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/campuscharge/powerbank/backend-go/internal/qr"
	"github.com/campuscharge/powerbank/backend-go/internal/station"
	"github.com/rs/zerolog/log"
)

// publisher stores a validated directory where the server's sources read it
type publisher interface {
	SaveStations(ctx context.Context, stations []models.Station) error
}

var newPublisher = defaultPublisher

func defaultPublisher(ctx context.Context, target string, cfg *config.Config) (publisher, error) {
	switch target {
	case config.SourceS3:
		client, err := cache.NewS3Client(ctx, cfg.AWSEndpoint, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return cache.NewS3StationCache(client, cfg.DirectoryBucket, cfg.DirectoryKey, 0), nil
	case config.SourceDynamoDB:
		client, err := cache.NewDynamoClient(ctx, cfg.AWSEndpoint, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return cache.NewDynamoStationTable(client, cfg.DirectoryTable, nil), nil
	}
	return nil, fmt.Errorf("%w: %q", station.ErrUnknownSource, target)
}

type options struct {
	input     string
	target    string
	bucket    string
	table     string
	labelsDir string
	banks     int
	labelSize int
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("directory", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.input, "input", "", "JSON file with the station list (default: built-in campus stations)")
	fs.StringVar(&opts.target, "target", "", "publish to s3 or dynamodb; empty only validates")
	fs.StringVar(&opts.bucket, "bucket", "", "S3 bucket (overrides DIRECTORY_BUCKET)")
	fs.StringVar(&opts.table, "table", "", "DynamoDB table (overrides DIRECTORY_TABLE)")
	fs.StringVar(&opts.labelsDir, "labels", "", "directory to write QR label PNGs into")
	fs.IntVar(&opts.banks, "banks", 4, "labels per station")
	fs.IntVar(&opts.labelSize, "label-size", 512, "label size in pixels")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.banks < 1 {
		return opts, fmt.Errorf("-banks must be at least 1")
	}
	return opts, nil
}

func loadStations(path string) ([]models.Station, error) {
	if path == "" {
		return station.DefaultStations(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var stations []models.Station
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return stations, nil
}

// bankID names the n-th power bank docked at a station, e.g. SCHOOL-CANTEEN-001
func bankID(stationName string, n int) string {
	slug := strings.ToUpper(strings.Join(strings.Fields(stationName), "-"))
	return fmt.Sprintf("%s-%03d", slug, n)
}

func writeLabels(dir string, stations []models.Station, banks, size int) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	opt := qr.DefaultOptions()
	opt.SizePx = size

	written := 0
	for _, s := range stations {
		for n := 1; n <= banks; n++ {
			id := bankID(s.Name, n)
			path := filepath.Join(dir, id+".png")
			f, err := os.Create(path)
			if err != nil {
				return written, err
			}
			err = qr.EncodePNG(f, s.Name, id, opt)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return written, fmt.Errorf("writing %s: %w", path, err)
			}
			written++
		}
	}
	return written, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()
	if opts.bucket != "" {
		cfg.DirectoryBucket = opts.bucket
	}
	if opts.table != "" {
		cfg.DirectoryTable = opts.table
	}

	stations, err := loadStations(opts.input)
	if err != nil {
		return err
	}
	directory, err := station.NewDirectory(stations)
	if err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}
	fmt.Fprintf(stdout, "validated %d stations\n", directory.Len())

	if opts.target != "" {
		pub, err := newPublisher(ctx, opts.target, cfg)
		if err != nil {
			return err
		}
		if err := pub.SaveStations(ctx, directory.Stations()); err != nil {
			return fmt.Errorf("publishing to %s: %w", opts.target, err)
		}
		log.Info().Str("target", opts.target).Int("stations", directory.Len()).Msg("Directory published")
		fmt.Fprintf(stdout, "published to %s\n", opts.target)
	}

	if opts.labelsDir != "" {
		n, err := writeLabels(opts.labelsDir, directory.Stations(), opts.banks, opts.labelSize)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %d labels to %s\n", n, opts.labelsDir)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Error().Err(err).Msg("directory command failed")
		os.Exit(1)
	}
}
