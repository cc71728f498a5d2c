package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-reservations/internal/config"
	"hotel-reservations/internal/platform/logger"
	"hotel-reservations/internal/router"
)

// @title Hotel Reservations API
// @version 1.0
// @description Reservas de hotel para pacientes: formulario, cargue masivo, tarifas, ocupación, vouchers y confirmaciones.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, cleanup, err := router.OptionsFromConfig(ctx, cfg, log)
	if err != nil {
		log.Error("startup error", map[string]any{"err": err})
		_ = cleanup()
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Warn("cleanup error", map[string]any{"err": err})
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"err": err})
	}
}
