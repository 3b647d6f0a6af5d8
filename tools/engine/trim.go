package engine

import (
	"context"
	"fmt"

	"gitlab.com/mediafxuz/media-fx/models"
)

// Trim cuts the segment between start and end. The output is re-encoded
// so the cut lands on the exact timestamps instead of the nearest
// keyframe.
func (e *Engine) Trim(ctx context.Context, source string, p *models.TrimParams, outputFormat string) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("trim parameters missing")
	}
	if p.StartTime < 0 {
		return nil, fmt.Errorf("trim start must not be negative, got %v", p.StartTime)
	}
	if p.EndTime <= p.StartTime {
		return nil, fmt.Errorf("trim end %v must be after start %v", p.EndTime, p.StartTime)
	}

	output := e.output(outputFormat)
	args := planTrim(source, p.StartTime, p.EndTime, output)

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

func planTrim(source string, start, end float64, output string) []string {
	args := []string{
		"-y",
		"-i", source,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
	}
	args = append(args, videoEncodeArgs()...)
	args = append(args, audioEncodeArgs()...)
	return append(args, output)
}
