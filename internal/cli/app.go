package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/sigem/internal/config"
	"github.com/JonMunkholm/sigem/internal/core"
	"github.com/JonMunkholm/sigem/internal/logging"
	"github.com/JonMunkholm/sigem/internal/mapview"
	"github.com/JonMunkholm/sigem/internal/metrics"
	"github.com/JonMunkholm/sigem/internal/source"
)

// app holds everything a command needs after configuration is loaded.
type app struct {
	cfg     *config.Config
	store   *core.Store
	loader  *core.Loader
	mapView *mapview.Map
	mapSrc  core.Source
	metrics *metrics.Metrics
}

// loadEnv reads the dotenv file if it exists. Variables already set in the
// environment win.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// bootstrap loads configuration, installs the default logger and builds the
// dataset and map sources. Logs go to logOut, or stdout when it is nil.
func bootstrap(ctx context.Context, flags *rootFlags, logOut io.Writer) (*app, error) {
	if err := loadEnv(flags.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.LoadFile(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}

	if logOut == nil {
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	} else {
		slog.SetDefault(logging.New(logOut, cfg.Logging.Level, cfg.Logging.Format))
	}
	slog.Debug("configuration loaded", "config", cfg.String())

	srcOpts := source.Options{
		HTTPTimeout:    cfg.Dataset.LoadTimeout,
		S3Region:       cfg.S3.Region,
		S3Endpoint:     cfg.S3.Endpoint,
		S3UsePathStyle: cfg.S3.UsePathStyle,
	}

	dataSrc, err := source.Open(ctx, cfg.Dataset.Location, srcOpts)
	if err != nil {
		return nil, fmt.Errorf("dataset source: %w", err)
	}

	a := &app{
		cfg:     cfg,
		store:   core.NewStore(),
		mapView: mapview.NewMap(),
		metrics: metrics.New(),
	}

	a.loader, err = core.NewLoader(core.LoaderOptions{
		Source:   dataSrc,
		Store:    a.store,
		Keyword:  cfg.Dataset.CompliantKeyword,
		MaxBytes: cfg.Dataset.MaxBytes,
		Observer: a.metrics,
	})
	if err != nil {
		return nil, err
	}

	// A bad map location only costs the map panel.
	a.mapSrc, err = source.Open(ctx, cfg.Map.Location, srcOpts)
	if err != nil {
		err = fmt.Errorf("%w: %w", core.ErrMapResourceUnavailable, err)
		a.mapView.Set(nil, err)
		a.metrics.ObserveMap(err)
		slog.Warn("map source unavailable", "location", cfg.Map.Location, "error", err)
	}

	return a, nil
}

// loadAll fetches the dataset and the map concurrently. Only a dataset
// failure is returned; a map failure is logged and leaves the map panel
// empty.
func (a *app) loadAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Dataset.LoadTimeout)
	defer cancel()

	var g errgroup.Group

	g.Go(func() error {
		_, err := a.loader.Load(ctx)
		return err
	})

	if a.mapSrc != nil {
		g.Go(func() error {
			a.metrics.ObserveMap(a.mapView.Load(ctx, a.mapSrc, a.cfg.Map.MaxBytes))
			return nil
		})
	}

	return g.Wait()
}

// loadDataset runs a single dataset load without the map.
func (a *app) loadDataset(ctx context.Context) (*core.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Dataset.LoadTimeout)
	defer cancel()
	return a.loader.Load(ctx)
}
