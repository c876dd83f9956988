package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/newthinker/trendkit/internal/config"
	"github.com/newthinker/trendkit/internal/logger"
	"github.com/newthinker/trendkit/internal/metrics"
	"github.com/newthinker/trendkit/internal/storage/archive"
	"github.com/newthinker/trendkit/internal/study"
)

// runtime bundles the services every command needs
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Registry
	engine  *study.Engine

	// opened lazily by openArchive
	results *archive.ResultStore
}

func loadConfig() (*config.Config, bool, error) {
	if cfgFile == "" {
		return config.Defaults(), true, nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, false, fmt.Errorf("loading config: %w", err)
	}
	return cfg, false, nil
}

func setup() (*runtime, error) {
	cfg, defaulted, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Development: debug, Level: level})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	if defaulted {
		log.Debug("no config file specified, using defaults")
	}

	rt := &runtime{cfg: cfg, log: log}

	var recorder study.Recorder
	if cfg.Metrics.Enabled {
		rt.metrics = metrics.NewRegistry()
		recorder = rt.metrics
	}
	rt.engine = study.NewDefaultEngine(cfg.Indicators, log, recorder)

	return rt, nil
}

func (rt *runtime) close() {
	_ = rt.log.Sync()
}

// openArchive opens the configured result archive on first use
func (rt *runtime) openArchive() (*archive.ResultStore, error) {
	if rt.results != nil {
		return rt.results, nil
	}
	if rt.cfg.Storage.Type == "" {
		return nil, fmt.Errorf("no archive configured: set storage.type to localfs or s3")
	}

	storage, err := archive.New(rt.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	var saves archive.SaveRecorder
	if rt.metrics != nil {
		saves = rt.metrics
	}
	rt.results = archive.NewResultStore(storage, rt.log, saves)
	return rt.results, nil
}
