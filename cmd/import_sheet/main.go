package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"pantagon/internal/config"
	"pantagon/internal/db"
	"pantagon/internal/domain"
	"pantagon/internal/excel"
	"pantagon/internal/logger"
	"pantagon/internal/repository"
	"pantagon/internal/service"
)

type options struct {
	itemsPath   string
	fxPath      string
	weightsPath string
	dryRun      bool
}

type sheets struct {
	items   []domain.ItemInput
	fx      []domain.FXEntryInput
	weights []domain.WeightInput
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info"})
		bootLog.Fatal().Err(err).Msg("config error")
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	data, err := readSheets(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("read spreadsheets")
	}

	if opts.dryRun {
		svc := service.New(nil, cfg.BurnFilter)
		if err := validate(svc, data); err != nil {
			log.Fatal().Err(err).Msg("validation failed")
		}
		log.Info().
			Int("items", len(data.items)).
			Int("fx_entries", len(data.fx)).
			Int("weights", len(data.weights)).
			Msg("dry run ok, nothing written")
		return
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database error")
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}

	svc := service.New(repository.New(pool), cfg.BurnFilter, service.WithLogger(log))
	if err := importAll(ctx, svc, data, log); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.itemsPath, "items", "", "path to an items .xlsx file")
	flag.StringVar(&opts.fxPath, "fx", "", "path to an fx ledger .xlsx file")
	flag.StringVar(&opts.weightsPath, "weights", "", "path to a weight log .xlsx file")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "parse and validate only; do not touch the database")
	flag.Parse()
	if opts.itemsPath == "" && opts.fxPath == "" && opts.weightsPath == "" {
		fmt.Fprintln(os.Stderr, "at least one of -items, -fx or -weights is required")
		flag.Usage()
		os.Exit(2)
	}
	return opts
}

func readSheets(opts options) (sheets, error) {
	var (
		data sheets
		err  error
	)
	if opts.itemsPath != "" {
		if data.items, err = parseFile(opts.itemsPath, excel.ParseItemRows); err != nil {
			return sheets{}, err
		}
	}
	if opts.fxPath != "" {
		if data.fx, err = parseFile(opts.fxPath, excel.ParseFXRows); err != nil {
			return sheets{}, err
		}
	}
	if opts.weightsPath != "" {
		if data.weights, err = parseFile(opts.weightsPath, excel.ParseWeightRows); err != nil {
			return sheets{}, err
		}
	}
	return data, nil
}

func parseFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// validate checks every sheet before anything is written.
func validate(svc *service.Service, data sheets) error {
	if err := svc.ValidateItems(data.items); err != nil {
		return fmt.Errorf("items: %w", err)
	}
	if err := svc.ValidateFXEntries(data.fx); err != nil {
		return fmt.Errorf("fx: %w", err)
	}
	if err := svc.ValidateWeights(data.weights); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	return nil
}

func importAll(ctx context.Context, svc *service.Service, data sheets, log zerolog.Logger) error {
	counts, err := svc.ImportSheets(ctx, data.items, data.fx, data.weights)
	if err != nil {
		return err
	}
	log.Info().
		Int("items", counts.Items).
		Int("fx_entries", counts.FXEntries).
		Int("weights", counts.Weights).
		Msg("import complete")
	return nil
}
