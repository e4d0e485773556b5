package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"temperature-history/internal/adapters/healthplatform/gateway"
	"temperature-history/internal/adapters/notify"
	"temperature-history/internal/adapters/notify/rabbitmq"
	"temperature-history/internal/config"
	"temperature-history/internal/domain/history"
	"temperature-history/internal/domain/recorder"
	"temperature-history/internal/domain/temperature"
	"temperature-history/internal/platform/logger"
	"temperature-history/internal/platform/metrics"
	"temperature-history/internal/router"
	"temperature-history/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title Temperature History API
// @version 1.0
// @description Registro, historial y borrado de temperatura corporal sobre una plataforma de salud con permisos.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		logger.NewFromEnv().Error("api exited", map[string]any{"err": err})
		os.Exit(1)
	}
}

// run arma el proceso y sirve HTTP hasta que ctx se cancela.
// Los defers cierran plataforma, servicios y publisher antes de volver.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	platform, err := router.OpenPlatform(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open platform: %w", err)
	}
	defer func() { _ = platform.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	client := metrics.New(reg).Instrument(platform.Client)

	unit, _ := temperature.ParseUnit(cfg.NativeUnit)
	mgr := temperature.NewManager(client, temperature.Options{NativeUnit: unit, Logger: log})
	rec := recorder.New(mgr, recorder.Options{RecentWindow: cfg.RecentWindow, Logger: log})
	defer rec.Close()
	hist := history.New(mgr, history.Options{Logger: log})
	defer hist.Close()

	if cfg.AMQPURL != "" {
		pub, err := rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPQueue, log)
		if err != nil {
			return fmt.Errorf("amqp connect: %w", err)
		}
		defer func() { _ = pub.Close() }()
		unsubscribe := notify.Forward(rec, pub, 5*time.Second, log)
		defer unsubscribe()
	}

	sched := scheduler.New(rec, cfg.RecentRefreshInterval, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("scheduler start: %w", err)
	}
	defer sched.Stop()

	opts := router.Options{
		Logger:   log,
		Manager:  mgr,
		Recorder: rec,
		History:  hist,
		Registry: reg,
	}
	if cfg.ExposeGateway {
		opts.Gateway = &gateway.Options{
			Client: client,
			Admin:  platform.Admin,
			Logger: log,
			APIKey: cfg.GatewayAPIKey,
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr(), "driver": string(cfg.PlatformDriver)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
		close(serveErr)
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
