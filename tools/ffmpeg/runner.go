package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"gitlab.com/mediafxuz/media-fx/pkg/logger"
)

// Runner invokes the ffmpeg and ffprobe binaries. Paths are resolved once
// at construction time.
type Runner struct {
	FFmpegPath  string
	FFprobePath string

	log logger.Logger
}

// NewRunner discovers both binaries, starting from the configured paths
// and falling back through the default strategy order.
func NewRunner(log logger.Logger, ffmpegConfigured, ffprobeConfigured string) (*Runner, error) {
	ffmpegPath, err := Discover("ffmpeg", DefaultStrategies(ffmpegConfigured))
	if err != nil {
		return nil, err
	}

	ffprobePath, err := Discover("ffprobe", DefaultStrategies(ffprobeConfigured))
	if err != nil {
		return nil, err
	}

	log.Info("resolved media binaries",
		logger.String("ffmpeg", ffmpegPath),
		logger.String("ffprobe", ffprobePath))

	return &Runner{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		log:         log,
	}, nil
}

// Run executes ffmpeg with the given arguments. On failure the returned
// error carries the captured stderr unmodified, since that text is the
// only useful diagnostic ffmpeg produces.
func (r *Runner) Run(ctx context.Context, args ...string) error {
	r.log.Debug("ffmpeg", logger.String("args", strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, r.FFmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, stderr.String())
	}

	return nil
}

// RunProbe executes ffprobe and returns its stdout
func (r *Runner) RunProbe(ctx context.Context, args ...string) ([]byte, error) {
	r.log.Debug("ffprobe", logger.String("args", strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, r.FFprobePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
