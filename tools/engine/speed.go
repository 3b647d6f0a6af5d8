package engine

import (
	"context"
	"fmt"

	"gitlab.com/mediafxuz/media-fx/models"
	"gitlab.com/mediafxuz/media-fx/pkg/logger"
	"gitlab.com/mediafxuz/media-fx/tools/filter"
)

// Speed changes playback rate. Audio handling has three modes: dropped
// entirely, pitch-preserved through rubberband, or plain atempo. The
// rubberband filter is not compiled into every ffmpeg build, so that
// path falls back to atempo when the invocation fails.
func (e *Engine) Speed(ctx context.Context, source string, p *models.SpeedParams, outputFormat string) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("speed parameters missing")
	}
	if p.Speed <= 0 {
		return nil, fmt.Errorf("speed must be positive, got %v", p.Speed)
	}

	meta, err := e.runner.Probe(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %w", err)
	}
	hasAudio := meta.HasAudio() && p.AdjustAudio

	output := e.output(outputFormat)

	if hasAudio && p.MaintainPitch {
		args, err := planSpeed(source, p.Speed, audioModeRubberband, output)
		if err != nil {
			return nil, err
		}
		if runErr := e.runner.Run(ctx, args...); runErr == nil {
			return &Result{OutputPath: output}, nil
		}
		e.log.Warn("rubberband unavailable, falling back to atempo",
			logger.Float64("speed", p.Speed))
		e.temp.Remove(output)
		output = e.output(outputFormat)
	}

	mode := audioModeNone
	if hasAudio {
		mode = audioModeTempo
	}

	args, err := planSpeed(source, p.Speed, mode, output)
	if err != nil {
		return nil, err
	}
	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

type audioMode int

const (
	audioModeNone audioMode = iota
	audioModeTempo
	audioModeRubberband
)

func planSpeed(source string, speed float64, mode audioMode, output string) ([]string, error) {
	g := filter.NewGraph()
	g.Chain("0:v", filter.SetPTS(speed), "v")

	switch mode {
	case audioModeTempo:
		chain, err := filter.TempoFilter(speed)
		if err != nil {
			return nil, err
		}
		g.Chain("0:a", chain, "a")
	case audioModeRubberband:
		g.Chain("0:a", fmt.Sprintf("rubberband=tempo=%s", formatSeconds(speed)), "a")
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("speed graph: %w", err)
	}

	args := []string{"-y", "-i", source, "-filter_complex", g.String(), "-map", "[v]"}
	if mode == audioModeNone {
		args = append(args, "-an")
	} else {
		args = append(args, "-map", "[a]")
	}

	args = append(args, videoEncodeArgs()...)
	if mode != audioModeNone {
		args = append(args, audioEncodeArgs()...)
	}
	return append(args, output), nil
}
