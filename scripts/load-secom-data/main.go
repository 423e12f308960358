// load-secom-data loads the UCI SECOM data set into the MES schema.
//
// Each of the 1567 samples becomes one completed lot with its 590 sensor
// readings and a quality result. Lots are attributed to shifts, operators,
// equipment and products from the embedded catalog, the 2008 test times are
// moved onto a September to November 2025 calendar, and risk predictions are
// synthesized from the outcome and the out-of-spec readings. After loading,
// feature importance is recomputed as point-biserial correlation against
// failure overall and against each defect type.
//
// Usage: go run ./scripts/load-secom-data [flags]
//
// Database connection: config.yaml and PG* environment variables, as the server.
//
// Flags:
//
//	-data      Path to secom.data (default: data/secom.data)
//	-labels    Path to secom_labels.data (default: data/secom_labels.data)
//	-seed      Seed for the synthesized attributes (default: 42)
//	-truncate  Remove existing production data before loading (default: false)
//	-migrate   Apply pending migrations first (default: true)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/migrations"
	"github.com/secom-mes/mes-engine/pkg/config"
	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/logging"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

type options struct {
	dataPath   string
	labelsPath string
	seed       uint64
	truncate   bool
	migrate    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.dataPath, "data", "data/secom.data", "Path to secom.data")
	flag.StringVar(&opts.labelsPath, "labels", "data/secom_labels.data", "Path to secom_labels.data")
	flag.Uint64Var(&opts.seed, "seed", 42, "Seed for the synthesized attributes")
	flag.BoolVar(&opts.truncate, "truncate", false, "Remove existing production data before loading")
	flag.BoolVar(&opts.migrate, "migrate", true, "Apply pending migrations first")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Load failed: %s\n", logging.SanitizeError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load("loader")
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	samples, err := readSampleFiles(opts.dataPath, opts.labelsPath)
	if err != nil {
		return err
	}
	logger.Info("SECOM samples read", zap.Int("samples", len(samples)))

	if opts.migrate {
		sqlDB, err := database.OpenSQL(cfg.Database.URL())
		if err != nil {
			return err
		}
		if err := database.RunMigrations(sqlDB, migrations.FS, logger); err != nil {
			return err
		}
	}

	db, err := database.Connect(ctx, &database.Config{
		URL:             cfg.Database.URL(),
		MaxConnections:  4,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	loader := NewLoader(db, catalog, logger)

	exists, err := loader.HasLots(ctx)
	if err != nil {
		return err
	}
	if exists {
		if !opts.truncate {
			return fmt.Errorf("lots are already loaded; rerun with -truncate to replace them")
		}
		if err := loader.Truncate(ctx); err != nil {
			return err
		}
	}

	refs, err := loader.Seed(ctx)
	if err != nil {
		return err
	}

	stats, err := loader.Load(ctx, refs, samples, NewGenerator(catalog, opts.seed))
	if err != nil {
		return err
	}

	return printSummary(ctx, os.Stdout, stats, repositories.NewAnalyticsRepository(db))
}

func readSampleFiles(dataPath, labelsPath string) ([]*Sample, error) {
	data, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer data.Close()

	labels, err := os.Open(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels file: %w", err)
	}
	defer labels.Close()

	return readSamples(data, labels)
}
