// Command server runs the todofile REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmvuong/todofile/internal/api"
	"github.com/tmvuong/todofile/internal/config"
	"github.com/tmvuong/todofile/internal/logging"
	"github.com/tmvuong/todofile/internal/store"
	"github.com/tmvuong/todofile/internal/todo"
	"github.com/tmvuong/todofile/internal/upload"
)

func main() {
	configPath := flag.String("config", "todofile.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(os.Stdout, cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		logging.Error("failed to open store", err)
		os.Exit(1)
	}
	defer closeStore()

	uploads, err := upload.NewManager(cfg.UploadDir)
	if err != nil {
		logging.Error("failed to prepare upload directory", err)
		os.Exit(1)
	}

	svc := todo.NewService(st)
	router := api.NewRouter(svc, uploads)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info("server listening", map[string]interface{}{
			"port":  cfg.Port,
			"store": cfg.Store,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("server failed", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("shutdown failed", err)
	}
	logging.Info("server stopped")
}

// openStore builds the configured persistence backend.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLite)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		s, err := store.NewJSONFileStore(cfg.DataFile)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
