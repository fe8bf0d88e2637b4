package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gwutama/unitman/internal/config"
	"github.com/gwutama/unitman/internal/logger"
	"github.com/gwutama/unitman/internal/metrics"
	"github.com/gwutama/unitman/internal/rpc"
	"github.com/gwutama/unitman/internal/signals"
	"github.com/gwutama/unitman/internal/tracing"
	"github.com/gwutama/unitman/internal/watcher"
	"github.com/spf13/cobra"
)

const (
	exitOK         = 0
	exitConfigErr  = 10
	exitStartupErr = 20
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the supervisor daemon",
	Long:  `serve is the default action: it loads the configuration, brings up units, and starts the control plane.`,
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	path := configPath()

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitConfigErr)
	}

	log := logger.New(cfg.Application.LogLevel, "text")
	slog.SetDefault(log)

	log.Info("unitman starting", "version", version, "pid", os.Getpid(), "config", path, "units", len(cfg.Units))

	mgr, err := cfg.BuildManager(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitConfigErr)
	}

	go signals.ReapZombies(1 * time.Second)

	tracingProvider, err := tracing.NewProvider(cmd.Context(), tracing.TracerConfig{
		Enabled:     cfg.Observability.TracingEnabled,
		Exporter:    cfg.Observability.TracingExporter,
		Endpoint:    cfg.Observability.OTLPEndpoint,
		SampleRate:  1.0,
		ServiceName: "unitman",
		Version:     version,
	}, log)
	if err != nil {
		log.Error("failed to initialize tracing", "error", err)
		os.Exit(exitStartupErr)
	}
	defer func() { _ = tracingProvider.Shutdown(cmd.Context()) }()

	var metricsServer *metrics.Server
	if cfg.Observability.MetricsEnabled {
		metricsServer = metrics.NewServer(cfg.Observability.MetricsAddress, "/metrics", log)
		if err := metricsServer.Start(cmd.Context()); err != nil {
			log.Warn("metrics server failed to start (continuing without metrics)", "error", err)
			metricsServer = nil
		} else {
			metrics.SetBuildInfo(version, "go1.x")
		}
	}

	mgr.Run()
	metrics.SetManagerUnitCount(len(mgr.Units()))

	var rpcServer *rpc.Server
	if cfg.RPCServer.IsEnabled() {
		rpcServer = rpc.NewServer(cfg.RPCServer.BindAddress, mgr, log)
		errCh := make(chan error, 1)
		go func() { errCh <- rpcServer.ListenAndServe() }()

		select {
		case err := <-errCh:
			log.Error("control plane failed to start", "error", err)
			os.Exit(exitStartupErr)
		case <-time.After(200 * time.Millisecond):
		}
	}

	var cfgWatcher *watcher.Watcher
	cfgWatcher, err = watcher.NewConfigReloadWatcher(path,
		func(reloaded *config.Config) {
			log.Info("configuration file reparsed successfully; clearing restart-policy demotions", "units", len(reloaded.Units))
			mgr.ResetRestartPolicies()
		},
		func(err error) {
			log.Warn("configuration file changed but failed to reparse; units are unaffected", "error", err)
		},
		log,
	)
	if err == nil {
		if err := cfgWatcher.Start(cmd.Context()); err != nil {
			log.Warn("config watcher failed to start", "error", err)
			cfgWatcher = nil
		}
	} else {
		log.Warn("failed to create config watcher", "error", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	if cfgWatcher != nil {
		_ = cfgWatcher.Stop()
	}
	if rpcServer != nil {
		_ = rpcServer.Close()
	}

	mgr.RequestStop()
	mgr.Wait()

	if metricsServer != nil {
		_ = metricsServer.Stop(cmd.Context())
	}

	log.Info("unitman shutdown complete")
	os.Exit(exitOK)
}
