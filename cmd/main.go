package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "fermentation_logger/docs"
	"fermentation_logger/internal/config"
	"fermentation_logger/internal/handlers"
	"fermentation_logger/internal/ingest"
	"fermentation_logger/internal/logger"
	"fermentation_logger/internal/metrics"
	"fermentation_logger/internal/repository"
	"fermentation_logger/internal/repository/db"
	"fermentation_logger/internal/server"
	"fermentation_logger/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title        Fermentation Logger API
// @version      1.0
// @description  Pushes fermentation readings to a remote HTTP endpoint on a schedule and exposes status, history and ingest endpoints.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		os.Exit(hashPassword(os.Args[2:]))
	}

	loader := config.NewLoader(os.Getenv("FERMLOG_CONFIG"))
	cfg, err := loader.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)

	conn, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DBPath, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	store := config.NewStore(cfg.Logging)
	prom := metrics.NewPromMetrics(nil)

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		Logging: store,
		Operator: service.Operator{
			Username:     cfg.Auth.Username,
			PasswordHash: cfg.Auth.PasswordHash,
		},
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
		Metrics:   prom,
		Log:       log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := services.Cache.Restore(ctx); err != nil {
		log.Warnw("readings_restore_failed", "err", err)
	}

	watchLogging(loader, store, log)

	go services.Scheduler.Run(ctx, cfg.SchedulerTick)
	log.Infow("scheduler_started",
		"enabled", cfg.Logging.Enabled,
		"period", cfg.Logging.Period,
		"service", cfg.Logging.Service,
		"method", cfg.Logging.Method,
	)

	if cfg.Simulator.Enabled {
		go services.Simulator.Run(ctx, cfg.Simulator.Tick)
		log.Infow("simulator_started", "tick", cfg.Simulator.Tick)
	}

	if cfg.MQTT.Enabled {
		sub := ingest.NewSubscriber(cfg.MQTT, services.Readings, log.Named("mqtt"))
		go func() {
			if err := sub.Run(ctx); err != nil {
				log.Errorw("mqtt_connect_failed", "broker", cfg.MQTT.Broker, "err", err)
			}
		}()
	}

	apiHandler := handlers.NewHandler(services, log.Named("http"), handlers.Options{
		AuthEnabled: cfg.Auth.Enabled,
		Metrics:     prom.Handler(),
	})
	if !cfg.Auth.Enabled {
		log.Warnw("auth_disabled", "hint", "api/v1 is open to anyone who can reach the port")
	}

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func openDB(path string) (*sql.DB, error) {
	if path == "" {
		path = "app.db"
	}
	return db.InitDB(path)
}

// watchLogging applies valid config file edits to the push settings.
// Other sections need a restart.
func watchLogging(loader *config.Loader, store *config.Store, log *logger.Logger) {
	loader.Watch(func(cfg config.Config, err error) {
		if err != nil {
			log.Errorw("config_reload_rejected", "err", err)
			return
		}
		store.SetLogging(cfg.Logging)
		log.Infow("logging_config_reloaded",
			"enabled", cfg.Logging.Enabled,
			"period", cfg.Logging.Period,
			"url", cfg.Logging.URL,
			"service", cfg.Logging.Service,
		)
	})
}

func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

// hashPassword prints a bcrypt hash for auth.password_hash.
func hashPassword(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: fermentation_logger hash-password <password>")
		return 2
	}
	hash, err := service.HashPassword(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(hash)
	return 0
}
