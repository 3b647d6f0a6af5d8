package engine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gitlab.com/mediafxuz/media-fx/models"
	"gitlab.com/mediafxuz/media-fx/tools/filter"
)

// OverlayVideo plays a second video picture-in-picture over the main
// one. The inset is sized as a percentage of the main frame or in
// pixels, with optional transparency and a visibility window; the audio
// track comes from either source or a mix of both.
func (e *Engine) OverlayVideo(ctx context.Context, main, overlay string, p *models.OverlayParams, outputFormat string) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("overlay parameters missing")
	}

	mainMeta, err := e.runner.Probe(ctx, main)
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %w", err)
	}
	overlayMeta, err := e.runner.Probe(ctx, overlay)
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %w", err)
	}

	dims := mainMeta.Video()
	if dims == nil || dims.Width <= 0 {
		return nil, fmt.Errorf("could not determine video dimensions for %s", mainMeta.FileName)
	}

	plan, err := planOverlay(p, dims.Width, mainMeta.HasAudio(), overlayMeta.HasAudio())
	if err != nil {
		return nil, err
	}

	output := e.output(outputFormat)
	args := []string{
		"-y",
		"-i", main,
		"-i", overlay,
		"-filter_complex", plan.graph.String(),
		"-map", "[vout]",
	}
	args = append(args, plan.audioArgs...)
	args = append(args, videoEncodeArgs()...)
	args = append(args, output)

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

type overlayPlan struct {
	graph     *filter.Graph
	audioArgs []string
}

// planOverlay builds the inset graph and the audio mapping. Audio modes
// degrade to whichever track exists: requesting a mix when only one
// source carries audio maps that track instead of failing the job.
func planOverlay(p *models.OverlayParams, mainWidth int, mainHasAudio, overlayHasAudio bool) (*overlayPlan, error) {
	var scale string
	switch p.SizeMode {
	case "", "percent":
		pct := p.WidthPercent
		if pct <= 0 {
			pct = 25
		}
		scale = fmt.Sprintf("scale=%d:-1", int(math.Round(float64(mainWidth)*pct/100)))
	case "pixels":
		w := p.Width
		if w <= 0 {
			w = 320
		}
		h := p.Height
		if h == 0 {
			h = -1
		}
		scale = fmt.Sprintf("scale=%d:%d", w, h)
	default:
		return nil, fmt.Errorf("unknown overlay size mode %q", p.SizeMode)
	}

	stages := []string{scale}
	if p.Opacity > 0 && p.Opacity < 1 {
		stages = append(stages,
			fmt.Sprintf("format=rgba,colorchannelmixer=aa=%s", formatSeconds(p.Opacity)))
	}

	x := p.X
	if x == "" {
		x = "10"
	}
	y := p.Y
	if y == "" {
		y = "10"
	}

	composite := fmt.Sprintf("overlay=%s:%s", x, y)
	if p.EnableTimeControl && p.EndTime > p.StartTime {
		composite += fmt.Sprintf(":enable='between(t,%s,%s)'",
			formatSeconds(p.StartTime), formatSeconds(p.EndTime))
	}

	g := filter.NewGraph()
	g.Chain("1:v", strings.Join(stages, ","), "pip")
	g.Add([]string{"0:v", "pip"}, composite, "vout")

	plan := &overlayPlan{graph: g}

	mode := p.AudioMode
	if mode == "" {
		mode = "main"
	}
	switch mode {
	case "main":
		if mainHasAudio {
			plan.audioArgs = []string{"-map", "0:a", "-c:a", "copy"}
		}
	case "overlay":
		if overlayHasAudio {
			plan.audioArgs = []string{"-map", "1:a", "-c:a", "copy"}
		}
	case "mix":
		switch {
		case mainHasAudio && overlayHasAudio:
			g.Add([]string{"0:a", "1:a"},
				"amix=inputs=2:duration=first:dropout_transition=0",
				"aout")
			plan.audioArgs = append([]string{"-map", "[aout]"}, audioEncodeArgs()...)
		case mainHasAudio:
			plan.audioArgs = []string{"-map", "0:a", "-c:a", "copy"}
		case overlayHasAudio:
			plan.audioArgs = []string{"-map", "1:a", "-c:a", "copy"}
		}
	default:
		return nil, fmt.Errorf("unknown overlay audio mode %q", mode)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("overlay graph: %w", err)
	}
	return plan, nil
}
