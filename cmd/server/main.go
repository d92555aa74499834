package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"neurospace/backend/internal/api"
	"neurospace/backend/internal/config"
	"neurospace/backend/internal/imaging"
	"neurospace/backend/internal/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load configuration: %v", err)
	}
	cfg.ConfigureLogging()
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := vision.New(ctx, cfg.VisionConfig())
	if err != nil {
		if errors.Is(err, vision.ErrDisabled) {
			logrus.Fatalf("vision provider %q needs an api key; set it or use VISION_PROVIDER=stub", cfg.Vision.Provider)
		}
		logrus.Fatalf("create vision analyzer: %v", err)
	}
	// Fatalf skips defers; every exit path closes the analyzer itself.
	fatalf := func(format string, args ...any) {
		closeAnalyzer(analyzer)
		logrus.Fatalf(format, args...)
	}

	image := imaging.DefaultOptions()
	image.MaxBytes = cfg.Image.MaxBytes
	image.MaxDimension = cfg.Image.MaxDimension

	server, err := api.NewServer(api.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Image:          image,
	}, analyzer)
	if err != nil {
		fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		fatalf("configure router: %v", err)
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":     cfg.Server.Port,
			"provider": analyzer.Provider(),
			"model":    analyzer.Model(),
		}).Info("starting neurospace backend")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown")
	}
	closeAnalyzer(analyzer)
}

// closeAnalyzer releases providers that hold connections, such as Gemini.
func closeAnalyzer(analyzer vision.Analyzer) {
	closer, ok := analyzer.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logrus.WithError(err).Warn("close vision analyzer")
	}
}
