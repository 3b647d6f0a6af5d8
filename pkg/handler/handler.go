package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/streadway/amqp"

	"gitlab.com/mediafxuz/media-fx/config"
	"gitlab.com/mediafxuz/media-fx/models"
	"gitlab.com/mediafxuz/media-fx/pkg/logger"
	"gitlab.com/mediafxuz/media-fx/pkg/rabbitmq"
	"gitlab.com/mediafxuz/media-fx/tools/engine"
	"gitlab.com/mediafxuz/media-fx/tools/storage"
)

// Handler is the worker loop: consume a job, resolve its inputs,
// dispatch to the engine, upload the artifacts, publish status. A
// failed job reports and the loop moves on; one bad message never
// stops the worker.
type Handler struct {
	cfg    config.Config
	log    logger.Logger
	broker *rabbitmq.Broker
	engine *engine.Engine
}

// New ...
func New(cfg config.Config, log logger.Logger, broker *rabbitmq.Broker, eng *engine.Engine) *Handler {
	return &Handler{cfg: cfg, log: log, broker: broker, engine: eng}
}

// Run consumes until the context is canceled
func (h *Handler) Run(ctx context.Context) error {
	deliveries, err := h.broker.Consume()
	if err != nil {
		return err
	}

	workers := h.cfg.JobWorkers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan amqp.Delivery)
	for i := 0; i < workers; i++ {
		go h.worker(ctx, jobs)
	}

	h.log.Info("worker started", logger.Int("workers", workers))

	for {
		select {
		case <-ctx.Done():
			close(jobs)
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				close(jobs)
				return fmt.Errorf("delivery channel closed")
			}
			// with every worker busy this send blocks; shutdown must
			// still win
			select {
			case jobs <- d:
			case <-ctx.Done():
				close(jobs)
				return ctx.Err()
			}
		}
	}
}

func (h *Handler) worker(ctx context.Context, jobs <-chan amqp.Delivery) {
	for d := range jobs {
		h.handle(ctx, d)
		if err := d.Ack(false); err != nil {
			h.log.Warn("ack failed", logger.Error(err))
		}
	}
}

func (h *Handler) handle(ctx context.Context, d amqp.Delivery) {
	h.engine.Temp().MaybeSweep()

	var job models.MediaJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		h.log.Error("unreadable job message", logger.Error(err))
		h.publish(models.UpdateJobStatus{
			Status:          h.cfg.Status.Fail,
			FailDescription: err.Error(),
			ErrorCode:       "bad_message",
		})
		return
	}

	h.log.Info("job received",
		logger.String("id", job.Id),
		logger.String("operation", job.Operation))

	h.publish(models.UpdateJobStatus{
		Id:        job.Id,
		Operation: job.Operation,
		Status:    h.cfg.Status.Pending,
	})

	started := time.Now()
	result, err := h.dispatch(ctx, &job)
	if err != nil {
		h.log.Error("job failed",
			logger.String("id", job.Id),
			logger.String("operation", job.Operation),
			logger.Error(err))
		h.publish(models.UpdateJobStatus{
			Id:              job.Id,
			Operation:       job.Operation,
			Status:          h.cfg.Status.Fail,
			DurationMs:      int(time.Since(started).Milliseconds()),
			FailDescription: err.Error(),
			ErrorCode:       "operation_failed",
		})
		return
	}

	if err := h.ship(ctx, &job, result); err != nil {
		h.publish(models.UpdateJobStatus{
			Id:              job.Id,
			Operation:       job.Operation,
			Status:          h.cfg.Status.Fail,
			DurationMs:      int(time.Since(started).Milliseconds()),
			FailDescription: err.Error(),
			ErrorCode:       "upload_failed",
		})
		return
	}

	h.publish(models.UpdateJobStatus{
		Id:         job.Id,
		Operation:  job.Operation,
		Status:     h.cfg.Status.Success,
		DurationMs: int(time.Since(started).Milliseconds()),
		OutputKey:  job.OutputKey,
		Result:     result.Payload,
	})
}

// ship uploads the artifacts and always removes them afterwards
func (h *Handler) ship(ctx context.Context, job *models.MediaJob, result *engine.Result) error {
	paths := []string{result.OutputPath}
	for _, p := range result.ExtraOutputs {
		paths = append(paths, p)
	}
	defer h.engine.Temp().Remove(paths...)

	if result.OutputPath == "" {
		return nil
	}

	key := job.OutputKey
	if key == "" {
		key = filepath.Base(result.OutputPath)
	}
	if err := storage.Upload(ctx, job.Cdn, result.OutputPath, key); err != nil {
		return err
	}

	for name, p := range result.ExtraOutputs {
		if err := storage.Upload(ctx, job.Cdn, p, name+"-"+key); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) dispatch(ctx context.Context, job *models.MediaJob) (*engine.Result, error) {
	if job.Operation == "font" {
		return h.handleFont(job)
	}

	paths, cleanup, err := h.resolveSources(ctx, job.Sources)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	switch job.Operation {
	case "merge":
		return h.engine.Merge(ctx, paths, job.OutputFormat)
	case "trim":
		return h.single(paths, func(p string) (*engine.Result, error) {
			return h.engine.Trim(ctx, p, job.Trim, job.OutputFormat)
		})
	case "speed":
		return h.single(paths, func(p string) (*engine.Result, error) {
			return h.engine.Speed(ctx, p, job.Speed, job.OutputFormat)
		})
	case "mixAudio":
		if len(paths) != 2 {
			return nil, fmt.Errorf("mixAudio needs a video and an audio source, got %d", len(paths))
		}
		return h.engine.MixAudio(ctx, paths[0], paths[1], job.Mix, job.OutputFormat)
	case "addSubtitle":
		if len(paths) != 2 {
			return nil, fmt.Errorf("addSubtitle needs a video and a subtitle source, got %d", len(paths))
		}
		return h.engine.AddSubtitle(ctx, paths[0], paths[1], job.Subtitle, job.OutputFormat)
	case "addText":
		return h.single(paths, func(p string) (*engine.Result, error) {
			return h.engine.AddText(ctx, p, job.Text, job.OutputFormat)
		})
	case "addTextToImage":
		return h.single(paths, func(p string) (*engine.Result, error) {
			return h.engine.AddTextToImage(ctx, p, job.Text, job.OutputFormat)
		})
	case "imageToVideo":
		return h.single(paths, func(p string) (*engine.Result, error) {
			return h.engine.ImageToVideo(ctx, p, job.ImageVideo, job.OutputFormat)
		})
	case "stampImage":
		if len(paths) != 2 {
			return nil, fmt.Errorf("stampImage needs a video and an image source, got %d", len(paths))
		}
		return h.engine.StampImage(ctx, paths[0], paths[1], job.Stamp, job.OutputFormat)
	case "overlayVideo":
		if len(paths) != 2 {
			return nil, fmt.Errorf("overlayVideo needs a main and an overlay source, got %d", len(paths))
		}
		return h.engine.OverlayVideo(ctx, paths[0], paths[1], job.Overlay, job.OutputFormat)
	case "multiTransition":
		return h.engine.MultiTransition(ctx, paths, job.Transition, job.OutputFormat)
	case "singleFade":
		return h.single(paths, func(p string) (*engine.Result, error) {
			return h.engine.Fade(ctx, p, job.Fade, job.OutputFormat)
		})
	case "extractAudio":
		return h.single(paths, func(p string) (*engine.Result, error) {
			return h.engine.ExtractAudio(ctx, p, job.Audio, job.OutputFormat)
		})
	case "separateAudio":
		return h.single(paths, func(p string) (*engine.Result, error) {
			return h.engine.SeparateAudio(ctx, p, job.Audio, job.OutputFormat)
		})
	case "getMetadata":
		return h.single(paths, func(p string) (*engine.Result, error) {
			return h.engine.GetMetadata(ctx, p)
		})
	default:
		return nil, fmt.Errorf("unknown operation %q", job.Operation)
	}
}

func (h *Handler) single(paths []string, op func(string) (*engine.Result, error)) (*engine.Result, error) {
	if len(paths) != 1 {
		return nil, fmt.Errorf("operation needs exactly one source, got %d", len(paths))
	}
	return op(paths[0])
}

func (h *Handler) handleFont(job *models.MediaJob) (*engine.Result, error) {
	p := job.Font
	if p == nil {
		return nil, fmt.Errorf("font parameters missing")
	}

	registry := h.engine.Fonts()
	switch p.Action {
	case "list":
		return &engine.Result{Payload: map[string]interface{}{
			"fonts": registry.List(p.IncludeSystemFonts),
		}}, nil
	case "upload":
		font, err := registry.Upload(p.Key, p.Name, p.Description, p.FilePath)
		if err != nil {
			return nil, err
		}
		return &engine.Result{Payload: map[string]interface{}{"font": font}}, nil
	case "delete":
		if err := registry.Delete(p.Key); err != nil {
			return nil, err
		}
		return &engine.Result{Payload: map[string]interface{}{"deleted": p.Key}}, nil
	default:
		return nil, fmt.Errorf("unknown font action %q", p.Action)
	}
}

// resolveSources turns job sources into local paths. URLs are
// downloaded to temp files; the cleanup closure removes only those.
func (h *Handler) resolveSources(ctx context.Context, sources []models.Source) ([]string, func(), error) {
	var paths []string
	var downloaded []string

	cleanup := func() { h.engine.Temp().Remove(downloaded...) }

	for _, src := range sources {
		switch src.SourceType {
		case "url":
			p, err := h.engine.Temp().Download(ctx, src.Value, extFromURL(src.Value))
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			downloaded = append(downloaded, p)
			paths = append(paths, p)
		case "path", "":
			if _, err := os.Stat(src.Value); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("source file %s: %w", src.Value, err)
			}
			paths = append(paths, src.Value)
		default:
			cleanup()
			return nil, nil, fmt.Errorf("unknown source type %q", src.SourceType)
		}
	}

	return paths, cleanup, nil
}

// extFromURL recovers a file extension from the URL path; downloads
// without one get .tmp and the engine probes the real format later.
func extFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ".tmp"
	}
	ext := strings.ToLower(filepath.Ext(u.Path))
	if ext == "" || len(ext) > 6 {
		return ".tmp"
	}
	return ext
}

func (h *Handler) publish(status models.UpdateJobStatus) {
	if err := h.broker.PublishStatus(status); err != nil {
		h.log.Error("could not publish job status", logger.Error(err))
	}
}
