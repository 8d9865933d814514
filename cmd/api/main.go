package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/books-catalog/cmd/api/book"
	"github.com/books-catalog/cmd/api/config"
	"github.com/books-catalog/cmd/api/database"
	bookhttp "github.com/books-catalog/cmd/api/http"
	"github.com/books-catalog/cmd/api/inmemory"
	"github.com/books-catalog/cmd/api/logger"
	"github.com/books-catalog/cmd/api/notifications"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"
)

func main() {
	err := run()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zlog, flush, err := logger.Setup(logger.Config{
		Production: cfg.IsProduction(),
		Level:      cfg.LogLevel,
		Service:    "books-catalog",
	}, os.Stdout)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	defer func() {
		_ = flush()
	}()

	repo, closeRepo, err := openRepository(cfg, zlog)
	if err != nil {
		return err
	}
	defer closeRepo()

	ntfy := notifications.NewNtfy(cfg.NotificationsEnabled, cfg.NotificationsURL, &http.Client{})
	bookService := book.NewService(repo, ntfy, cfg.NotificationsTimeout, zlog)
	bookHandler := bookhttp.NewBookHandler(bookService, cfg.HTTPRequestTimeout, zlog)

	server := bookhttp.NewServer(bookhttp.ServerConfig{Port: cfg.Port}, bookHandler, zlog)

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("http server listening", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("unexpected http server error: %w", err)
		}
		close(serverErr)
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-sc:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, shutdownRelease := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownRelease()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	zlog.Info("graceful shutdown complete")
	return nil
}

/* Connects to PostgreSQL and applies pending migrations when a database url is set,
otherwise falls back to the in-memory store. */
func openRepository(cfg *config.Config, zlog *zap.Logger) (book.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		store, err := inmemory.NewInMemoryStore()
		if err != nil {
			return nil, nil, fmt.Errorf("creating in-memory store: %w", err)
		}
		zlog.Warn("no database url set, books are kept in memory")
		return store, func() {}, nil
	}

	dbObject, err := database.ConnectDb(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting with db: %w", err)
	}
	dbObject.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	dbObject.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)

	store := database.NewStore(dbObject)
	err = database.MigrationUp(store, cfg.DatabaseMigrationsPath)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		dbObject.Close()
		return nil, nil, fmt.Errorf("migrating: %w", err)
	}

	closeDB := func() {
		if err := dbObject.Close(); err != nil {
			zlog.Error("closing db", zap.Error(err))
		}
	}
	return store, closeDB, nil
}
