package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/trendkit/internal/api"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	deps := api.Dependencies{
		Engine:  rt.engine,
		Metrics: rt.metrics,
	}
	if rt.cfg.Storage.Type != "" {
		if deps.Results, err = rt.openArchive(); err != nil {
			return err
		}
	}

	metricsPath := ""
	if rt.cfg.Metrics.Enabled {
		metricsPath = rt.cfg.Metrics.Path
	}

	server, err := api.NewServer(api.Config{
		Host:         rt.cfg.Server.Host,
		Port:         rt.cfg.Server.Port,
		MaxBodyBytes: int64(rt.cfg.Server.MaxBodyMB) << 20,
		Timeout:      time.Duration(rt.cfg.Server.TimeoutSecs) * time.Second,
		MetricsPath:  metricsPath,
	}, deps, rt.log)
	if err != nil {
		return err
	}

	rt.log.Info("starting trendkit server",
		zap.String("addr", server.Addr()),
		zap.String("storage", rt.cfg.Storage.Type),
		zap.Strings("studies", rt.engine.Names()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(ctx)
}
