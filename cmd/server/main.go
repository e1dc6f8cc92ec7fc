package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jot/notes-backend/internal/api"
	"github.com/jot/notes-backend/internal/config"
	"github.com/jot/notes-backend/internal/events"
	"github.com/jot/notes-backend/internal/notify"
	"github.com/jot/notes-backend/internal/repository/gormdb"
	"github.com/jot/notes-backend/internal/service"
	log "github.com/sirupsen/logrus"
)

func main() {
	// A missing .env is fine; production sets real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	if cfg.Environment == "development" {
		log.SetLevel(log.DebugLevel)
	}

	db, err := gormdb.Open(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	repos := gormdb.NewRepositories(db)
	atomic := gormdb.NewAtomic(db)
	hub := events.NewHub()
	notifier := notify.New(cfg)

	services := service.NewServices(atomic, repos, notifier, hub, cfg)
	router := api.NewRouter(services, hub, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	hub.Close()

	log.Info("server stopped")
}
