package engine

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/mediafxuz/media-fx/models"
	"gitlab.com/mediafxuz/media-fx/tools/filter"
)

// MixAudio overlays the secondary source's audio onto the primary
// video. The secondary must carry audio; a primary without audio gets a
// silent track muxed in first so every downstream graph can assume an
// [0:a] pad exists.
func (e *Engine) MixAudio(ctx context.Context, primary, secondary string, p *models.MixParams, outputFormat string) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("mix parameters missing")
	}

	primaryMeta, err := e.runner.Probe(ctx, primary)
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %w", err)
	}
	secondaryMeta, err := e.runner.Probe(ctx, secondary)
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %w", err)
	}

	if !secondaryMeta.HasAudio() {
		return nil, fmt.Errorf("mix source %s has no audio stream", secondaryMeta.FileName)
	}

	if !primaryMeta.HasAudio() {
		composite, cleanup, err := e.addSilentTrack(ctx, primary, primaryMeta.Duration)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		primary = composite
	}

	plan, err := planMixGraph(p, primaryMeta.Duration, secondaryMeta.Duration)
	if err != nil {
		return nil, err
	}

	output := e.output(outputFormat)
	args := []string{"-y"}
	if plan.loopPrimary {
		args = append(args, "-stream_loop", "-1")
	}
	args = append(args, "-i", primary, "-i", secondary)
	args = append(args, "-filter_complex", plan.graph.String())
	args = append(args, "-map", plan.videoMap, "-map", "[mixed_audio]")
	if plan.copyVideo {
		args = append(args, "-c:v", "copy")
	} else {
		args = append(args, videoEncodeArgs()...)
	}
	args = append(args, audioEncodeArgs()...)
	args = append(args, output)

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

// addSilentTrack muxes a generated silent AAC track onto a video that
// has none. Returns the composite path and a cleanup closure removing
// both intermediates.
func (e *Engine) addSilentTrack(ctx context.Context, video string, duration float64) (string, func(), error) {
	if duration <= 0 {
		duration = 0.01
	}

	silent := e.temp.NewTemp(".m4a")
	err := e.runner.Run(ctx,
		"-y",
		"-f", "lavfi",
		"-t", formatSeconds(duration),
		"-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
		"-c:a", "aac",
		silent)
	if err != nil {
		e.temp.Remove(silent)
		return "", nil, fmt.Errorf("generate silent track: %w", err)
	}

	composite := e.temp.NewTemp(".mp4")
	err = e.runner.Run(ctx,
		"-y",
		"-i", video,
		"-i", silent,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		composite)
	if err != nil {
		e.temp.Remove(silent, composite)
		return "", nil, fmt.Errorf("mux silent track: %w", err)
	}

	return composite, func() { e.temp.Remove(silent, composite) }, nil
}

type mixPlan struct {
	graph       *filter.Graph
	videoMap    string
	copyVideo   bool
	loopPrimary bool
}

// planMixGraph builds the amix filter graph for the requested mode.
// Fades on the overlay track are placed against the effective duration
// of that mode, not the secondary's raw length.
func planMixGraph(p *models.MixParams, primaryDur, secondaryDur float64) (*mixPlan, error) {
	videoVolume := p.VideoVolume
	if videoVolume == 0 {
		videoVolume = 1
	}
	audioVolume := p.AudioVolume
	if audioVolume == 0 {
		audioVolume = 1
	}

	if p.EnablePartialMix {
		return planPartialMix(p, secondaryDur, videoVolume, audioVolume)
	}

	mode := p.MatchLength
	if mode == "" {
		mode = "longest"
	}

	g := filter.NewGraph()
	plan := &mixPlan{graph: g, videoMap: "0:v", copyVideo: true}

	switch mode {
	case "shortest", "longest", "first":
		effective := primaryDur
		switch mode {
		case "shortest":
			if secondaryDur < effective {
				effective = secondaryDur
			}
		case "longest":
			if secondaryDur > effective {
				effective = secondaryDur
			}
		}

		g.Chain("0:a", "volume="+formatSeconds(videoVolume), "main_audio")
		g.Chain("1:a", overlayChain(p, effective, audioVolume), "overlay_audio")
		g.Add([]string{"main_audio", "overlay_audio"},
			fmt.Sprintf("amix=inputs=2:duration=%s:dropout_transition=0", mode),
			"mixed_audio")

	case "audio":
		// stretch or cut the primary video to the overlay's length
		effective := secondaryDur
		plan.loopPrimary = primaryDur < secondaryDur
		plan.videoMap = "[vout]"
		plan.copyVideo = false

		g.Chain("0:v",
			fmt.Sprintf("trim=0:%s,setpts=PTS-STARTPTS", formatSeconds(effective)),
			"vout")
		g.Chain("0:a",
			fmt.Sprintf("atrim=0:%s,asetpts=PTS-STARTPTS,volume=%s",
				formatSeconds(effective), formatSeconds(videoVolume)),
			"main_audio")
		g.Chain("1:a", overlayChain(p, effective, audioVolume), "overlay_audio")
		g.Add([]string{"main_audio", "overlay_audio"},
			"amix=inputs=2:duration=first:dropout_transition=0",
			"mixed_audio")

	case "audio-speed":
		if primaryDur <= 0 || secondaryDur <= 0 {
			return nil, fmt.Errorf("audio-speed mix needs positive durations, got %v and %v", primaryDur, secondaryDur)
		}
		ratio := primaryDur / secondaryDur
		tempo, err := filter.TempoFilter(ratio)
		if err != nil {
			return nil, err
		}

		plan.videoMap = "[vout]"
		plan.copyVideo = false

		g.Chain("0:v", fmt.Sprintf("setpts=PTS/%s", formatSeconds(ratio)), "vout")
		g.Chain("0:a",
			fmt.Sprintf("%s,volume=%s,apad,atrim=0:%s,asetpts=PTS-STARTPTS",
				tempo, formatSeconds(videoVolume), formatSeconds(secondaryDur)),
			"main_audio")
		g.Chain("1:a", overlayChain(p, secondaryDur, audioVolume), "overlay_audio")
		g.Add([]string{"main_audio", "overlay_audio"},
			"amix=inputs=2:duration=first:dropout_transition=0",
			"mixed_audio")

	default:
		return nil, fmt.Errorf("unknown mix match length %q", mode)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("mix graph: %w", err)
	}
	return plan, nil
}

// planPartialMix places the overlay at a start offset for a bounded
// window. The primary always dictates the output length.
func planPartialMix(p *models.MixParams, secondaryDur, videoVolume, audioVolume float64) (*mixPlan, error) {
	effective := p.Duration
	if effective <= 0 {
		effective = secondaryDur
	}

	parts := []string{}
	if p.Loop && secondaryDur < effective {
		parts = append(parts, "aloop=loop=-1:size=2147483647")
	}
	parts = append(parts,
		"atrim=0:"+formatSeconds(effective),
		"asetpts=PTS-STARTPTS")
	parts = append(parts, fadeParts(p, effective)...)
	parts = append(parts, "volume="+formatSeconds(audioVolume))
	if p.StartTime > 0 {
		ms := int(p.StartTime * 1000)
		parts = append(parts, fmt.Sprintf("adelay=%d|%d", ms, ms))
	}

	g := filter.NewGraph()
	g.Chain("1:a", strings.Join(parts, ","), "overlay_audio")
	g.Chain("0:a", "volume="+formatSeconds(videoVolume), "main_audio")
	g.Add([]string{"main_audio", "overlay_audio"},
		"amix=inputs=2:duration=first:dropout_transition=0",
		"mixed_audio")

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("mix graph: %w", err)
	}

	return &mixPlan{graph: g, videoMap: "0:v", copyVideo: true}, nil
}

// overlayChain is the secondary-track chain for the full-mix modes
func overlayChain(p *models.MixParams, effective, audioVolume float64) string {
	parts := append(fadeParts(p, effective), "volume="+formatSeconds(audioVolume))
	return strings.Join(parts, ",")
}

// fadeParts builds the afade stages. An enabled fade with no duration
// gets the 1s default rather than silently disappearing.
func fadeParts(p *models.MixParams, effective float64) []string {
	var parts []string
	if p.EnableFadeIn {
		d := p.FadeInDuration
		if d <= 0 {
			d = 1
		}
		parts = append(parts, fmt.Sprintf("afade=t=in:st=0:d=%s", formatSeconds(d)))
	}
	if p.EnableFadeOut {
		d := p.FadeOutDuration
		if d <= 0 {
			d = 1
		}
		st := effective - d
		if st < 0 {
			st = 0
		}
		parts = append(parts, fmt.Sprintf("afade=t=out:st=%s:d=%s",
			formatSeconds(st), formatSeconds(d)))
	}
	return parts
}
