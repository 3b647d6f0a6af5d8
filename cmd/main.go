package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/mediafxuz/media-fx/config"
	"gitlab.com/mediafxuz/media-fx/pkg/handler"
	"gitlab.com/mediafxuz/media-fx/pkg/logger"
	"gitlab.com/mediafxuz/media-fx/pkg/rabbitmq"
	"gitlab.com/mediafxuz/media-fx/tools/engine"
	"gitlab.com/mediafxuz/media-fx/tools/ffmpeg"
	"gitlab.com/mediafxuz/media-fx/tools/fonts"
	"gitlab.com/mediafxuz/media-fx/tools/storage"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, "media-fx")

	runner, err := ffmpeg.NewRunner(log, cfg.FFmpeg, cfg.FFprobe)
	if err != nil {
		log.Error("ffmpeg setup failed", logger.Error(err))
		os.Exit(1)
	}

	temp, err := storage.NewTempFiles(log, cfg.TempDirPath, cfg.TempMaxAgeHours, cfg.SweepChance)
	if err != nil {
		log.Error("temp dir setup failed", logger.Error(err))
		os.Exit(1)
	}

	registry := fonts.NewRegistry(log, cfg.FontsDirPath, nil)
	eng := engine.New(log, runner, temp, registry)

	broker, err := rabbitmq.New(cfg, log)
	if err != nil {
		log.Error("rabbitmq setup failed", logger.Error(err))
		os.Exit(1)
	}
	defer broker.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	h := handler.New(cfg, log, broker, eng)
	if err := h.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("worker stopped", logger.Error(err))
		os.Exit(1)
	}

	log.Info("shutdown complete")
}
