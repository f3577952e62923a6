package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostreamfr/internal/handlers"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	InitializeConfig()
	InitializeLogger()
	InitializeDatabase()
	InitializeServices(ctx)
	defer Shutdown()

	if Config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handlers.SetupRouter(handler, responseStore, Logger)

	srv := &http.Server{
		Addr:              ":" + Config.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         InitializeTLS(ctx),
	}

	go func() {
		var err error
		if srv.TLSConfig != nil {
			Logger.Infof("[App] starting HTTPS server on port %s", Config.Port)
			err = srv.ListenAndServeTLS("", "")
		} else {
			Logger.Infof("[App] starting HTTP server on port %s", Config.Port)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Fatalf("[App] server failed: %v", err)
		}
	}()

	<-ctx.Done()
	Logger.Infof("[App] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		Logger.Errorf("[App] graceful shutdown failed: %v", err)
	}
}
