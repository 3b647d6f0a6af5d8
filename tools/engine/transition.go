package engine

import (
	"context"
	"fmt"

	"gitlab.com/mediafxuz/media-fx/models"
	"gitlab.com/mediafxuz/media-fx/tools/filter"
)

// transitionInput is one xfade source with the probe facts the planner
// needs.
type transitionInput struct {
	Path     string
	Duration float64
	HasAudio bool
}

// MultiTransition chains the sources with xfade transitions. Offsets
// come from the probed durations: each transition starts one transition
// length before the accumulated stream ends. Audio tracks are joined
// with matching acrossfades; sources without audio get silent tracks so
// the acrossfade chain always has a pad to consume.
func (e *Engine) MultiTransition(ctx context.Context, sources []string, p *models.TransitionParams, outputFormat string) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("transition parameters missing")
	}
	if len(sources) < 2 {
		return nil, fmt.Errorf("transition needs at least 2 sources, got %d", len(sources))
	}

	inputs := make([]transitionInput, 0, len(sources))
	for _, src := range sources {
		meta, err := e.runner.Probe(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("failed to probe media file: %w", err)
		}
		inputs = append(inputs, transitionInput{
			Path:     src,
			Duration: meta.Duration,
			HasAudio: meta.HasAudio(),
		})
	}

	output := e.output(outputFormat)
	args, err := planTransitions(inputs, p.Effect, p.Duration, output)
	if err != nil {
		return nil, err
	}

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

// planTransitions builds the full argument list. The transition must be
// shorter than every clip it bridges or the offsets collapse.
func planTransitions(inputs []transitionInput, effect string, transition float64, output string) ([]string, error) {
	if effect == "" {
		effect = "fade"
	}
	if transition <= 0 {
		transition = 1
	}

	for i, in := range inputs {
		if in.Duration <= transition {
			return nil, fmt.Errorf("source %d is %.2fs, shorter than the %.2fs transition", i, in.Duration, transition)
		}
	}

	args := []string{"-y"}
	for _, in := range inputs {
		args = append(args, "-i", in.Path)
	}

	// silent sources borrow lavfi inputs appended after the real ones
	silentIndex := len(inputs)
	silentPad := map[int]string{}
	for i, in := range inputs {
		if in.HasAudio {
			continue
		}
		args = append(args,
			"-f", "lavfi",
			"-t", formatSeconds(in.Duration),
			"-i", "anullsrc=channel_layout=stereo:sample_rate=44100")
		silentPad[i] = fmt.Sprintf("%d:a", silentIndex)
		silentIndex++
	}

	g := filter.NewGraph()
	for i, in := range inputs {
		g.Chain(fmt.Sprintf("%d:v", i),
			"scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=30,format=yuv420p",
			fmt.Sprintf("v%d", i))

		audioSrc := fmt.Sprintf("%d:a", i)
		if !in.HasAudio {
			audioSrc = silentPad[i]
		}
		g.Chain(audioSrc,
			"aresample=44100,aformat=channel_layouts=stereo",
			fmt.Sprintf("a%d", i))
	}

	prevV, prevA := "v0", "a0"
	elapsed := inputs[0].Duration
	for i := 1; i < len(inputs); i++ {
		offset := elapsed - transition

		outV := fmt.Sprintf("vx%d", i)
		outA := fmt.Sprintf("ax%d", i)
		if i == len(inputs)-1 {
			outV, outA = "vout", "aout"
		}

		g.Add([]string{prevV, fmt.Sprintf("v%d", i)},
			fmt.Sprintf("xfade=transition=%s:duration=%s:offset=%s",
				effect, formatSeconds(transition), formatSeconds(offset)),
			outV)
		g.Add([]string{prevA, fmt.Sprintf("a%d", i)},
			fmt.Sprintf("acrossfade=d=%s", formatSeconds(transition)),
			outA)

		prevV, prevA = outV, outA
		elapsed += inputs[i].Duration - transition
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("transition graph: %w", err)
	}

	args = append(args,
		"-filter_complex", g.String(),
		"-map", "[vout]",
		"-map", "[aout]")
	args = append(args, videoEncodeArgs()...)
	args = append(args, audioEncodeArgs()...)
	return append(args, output), nil
}

// Fade applies a single fade-in or fade-out to both streams
func (e *Engine) Fade(ctx context.Context, source string, p *models.FadeParams, outputFormat string) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("fade parameters missing")
	}
	if p.Effect != "in" && p.Effect != "out" {
		return nil, fmt.Errorf("fade effect must be \"in\" or \"out\", got %q", p.Effect)
	}
	if p.Duration <= 0 {
		return nil, fmt.Errorf("fade duration must be positive, got %v", p.Duration)
	}

	meta, err := e.runner.Probe(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %w", err)
	}

	output := e.output(outputFormat)
	args := []string{
		"-y",
		"-i", source,
		"-vf", fmt.Sprintf("fade=t=%s:st=%s:d=%s",
			p.Effect, formatSeconds(p.StartTime), formatSeconds(p.Duration)),
	}
	if meta.HasAudio() {
		args = append(args, "-af", fmt.Sprintf("afade=t=%s:st=%s:d=%s",
			p.Effect, formatSeconds(p.StartTime), formatSeconds(p.Duration)))
	}
	args = append(args, videoEncodeArgs()...)
	if meta.HasAudio() {
		args = append(args, audioEncodeArgs()...)
	}
	args = append(args, output)

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}
