package engine

import (
	"context"
	"fmt"

	"gitlab.com/mediafxuz/media-fx/tools/filter"
)

// mergeInput is one concat source with the probe facts the planner
// needs.
type mergeInput struct {
	Path     string
	HasAudio bool
	Duration float64
}

// Merge concatenates the sources into one re-encoded output. Inputs may
// differ in container, codec, resolution and frame rate; every stream
// is normalized before the concat filter, which requires matching
// parameters on all segments.
func (e *Engine) Merge(ctx context.Context, sources []string, outputFormat string) (*Result, error) {
	if len(sources) < 2 {
		return nil, fmt.Errorf("merge needs at least 2 sources, got %d", len(sources))
	}

	inputs := make([]mergeInput, 0, len(sources))
	for _, src := range sources {
		meta, err := e.runner.Probe(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("failed to probe media file: %w", err)
		}
		inputs = append(inputs, mergeInput{
			Path:     src,
			HasAudio: meta.HasAudio(),
			Duration: meta.Duration,
		})
	}

	output := e.output(outputFormat)
	args, err := planMerge(inputs, output)
	if err != nil {
		return nil, err
	}

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

// planMerge builds the full argument list. Sources without audio get a
// generated silent track so the concat graph's audio pads line up.
func planMerge(inputs []mergeInput, output string) ([]string, error) {
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
		dur := in.Duration
		if dur <= 0 {
			dur = 0.01
		}
		args = append(args,
			"-f", "lavfi",
			"-t", formatSeconds(dur),
			"-i", "anullsrc=channel_layout=stereo:sample_rate=44100")
		silentPad[i] = fmt.Sprintf("%d:a", silentIndex)
		silentIndex++
	}

	g := filter.NewGraph()
	concatPads := make([]string, 0, len(inputs)*2)
	for i, in := range inputs {
		v := fmt.Sprintf("v%d", i)
		a := fmt.Sprintf("a%d", i)

		g.Chain(fmt.Sprintf("%d:v", i),
			"scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=30",
			v)

		audioSrc := fmt.Sprintf("%d:a", i)
		if !in.HasAudio {
			audioSrc = silentPad[i]
		}
		g.Chain(audioSrc, "aresample=44100,aformat=channel_layouts=stereo", a)

		concatPads = append(concatPads, v, a)
	}

	g.Add(concatPads, fmt.Sprintf("concat=n=%d:v=1:a=1", len(inputs)), "outv", "outa")

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("merge graph: %w", err)
	}

	args = append(args, "-filter_complex", g.String(), "-map", "[outv]", "-map", "[outa]")
	args = append(args, videoEncodeArgs()...)
	args = append(args, audioEncodeArgs()...)
	args = append(args, output)

	return args, nil
}
