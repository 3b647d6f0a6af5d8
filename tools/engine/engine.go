package engine

import (
	"fmt"
	"strings"

	"gitlab.com/mediafxuz/media-fx/pkg/logger"
	"gitlab.com/mediafxuz/media-fx/tools/ffmpeg"
	"gitlab.com/mediafxuz/media-fx/tools/fonts"
	"gitlab.com/mediafxuz/media-fx/tools/storage"
)

// Engine executes the media operations. It owns no queue or storage
// concerns beyond temp artifacts; the handler wires those around it.
type Engine struct {
	log    logger.Logger
	runner *ffmpeg.Runner
	temp   *storage.TempFiles
	fonts  *fonts.Registry
}

// New ...
func New(log logger.Logger, runner *ffmpeg.Runner, temp *storage.TempFiles, registry *fonts.Registry) *Engine {
	return &Engine{
		log:    log,
		runner: runner,
		temp:   temp,
		fonts:  registry,
	}
}

// Result is what an operation hands back to the worker shell. The
// output path is the primary artifact to upload; extra outputs carry
// secondary artifacts (separateAudio's stripped video), and the payload
// carries non-file results (metadata, font listings).
type Result struct {
	OutputPath   string
	ExtraOutputs map[string]string
	Payload      map[string]interface{}
}

// Fonts exposes the registry for the font management operations
func (e *Engine) Fonts() *fonts.Registry {
	return e.fonts
}

// Temp exposes the temp-file manager so the handler can resolve inputs
// and clean up outputs.
func (e *Engine) Temp() *storage.TempFiles {
	return e.temp
}

func (e *Engine) output(format string) string {
	if format == "" {
		format = "mp4"
	}
	return e.temp.NewTemp("." + strings.TrimPrefix(format, "."))
}

// videoEncodeArgs is the shared re-encode profile for operations that
// rebuild the video stream.
func videoEncodeArgs() []string {
	return []string{"-c:v", "libx264", "-preset", "medium", "-pix_fmt", "yuv420p"}
}

func audioEncodeArgs() []string {
	return []string{"-c:a", "aac", "-b:a", "192k"}
}

func formatSeconds(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
