package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/Skotchmaster/colormania/internal/config"
	"github.com/Skotchmaster/colormania/internal/db"
	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/httpserver"
	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/media"
	"github.com/Skotchmaster/colormania/internal/repo"
	"github.com/Skotchmaster/colormania/internal/search"
	"github.com/Skotchmaster/colormania/internal/seed"
	"github.com/Skotchmaster/colormania/internal/session"
)

func main() {
	var (
		envFile     = pflag.String("env", ".env", "dotenv file to load before reading the environment")
		addr        = pflag.String("addr", "", "listen address, overrides SERVER_PORT")
		seedFile    = pflag.String("seed", "", "YAML seed document applied at startup")
		migrateOnly = pflag.Bool("migrate-only", false, "migrate (and seed) the database, then exit")
	)
	pflag.Parse()

	config.LoadEnv(*envFile)
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "colormania")
	slog.SetDefault(logger)

	config.MustComplete(cfg)

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	initCtx = logging.IntoContext(initCtx, logger)

	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers)
		logger.Info("kafka events enabled", "brokers", cfg.KafkaBrokers)
	}

	var engine search.Engine
	if cfg.ESURL != "" {
		es, err := search.NewElastic(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		engine = es
	}

	app, err := httpserver.New(httpserver.Options{
		Repo:          &repo.GormRepo{DB: gdb},
		Events:        publisher,
		Search:        engine,
		Sessions:      session.NewManager(cfg.SessionSecret, cfg.CookieSecure),
		Media:         &media.Store{Dir: cfg.MediaDir},
		Logger:        logger,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Secure:        cfg.CookieSecure,
	})
	if err != nil {
		log.Fatalf("init http: %v", err)
	}

	if cfg.StaffUsername != "" {
		if _, err := app.Staff.EnsureStaff(initCtx, cfg.StaffUsername, cfg.StaffPassword); err != nil {
			log.Fatalf("ensure staff: %v", err)
		}
	}
	if *seedFile != "" {
		doc, err := seed.Load(*seedFile)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := seed.Apply(initCtx, seed.Services{Catalog: app.Catalog, Colors: app.Colors, Staff: app.Staff}, doc); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}
	if *migrateOnly {
		_ = db.Close(gdb)
		logger.Info("migration finished")
		return
	}

	if n, err := app.Catalog.Reindex(initCtx); err != nil {
		logger.Warn("reindex_error", "error", err)
	} else if n > 0 {
		logger.Info("catalog indexed", "documents", n)
	}

	listen := *addr
	if listen == "" {
		listen = fmt.Sprintf(":%d", cfg.ServerPort)
	}
	srv := &http.Server{
		Addr:              listen,
		Handler:           app.Echo,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
