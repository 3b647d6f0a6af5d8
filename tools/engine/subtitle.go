package engine

import (
	"context"
	"fmt"
	"os"

	"gitlab.com/mediafxuz/media-fx/models"
	"gitlab.com/mediafxuz/media-fx/pkg/logger"
	"gitlab.com/mediafxuz/media-fx/tools/filter"
	"gitlab.com/mediafxuz/media-fx/tools/subtitle"
)

// AddSubtitle burns a subtitle file into the video. ASS and SSA files
// carry their own styling and pass through untouched; SRT files are
// compiled into a styled ASS document first.
func (e *Engine) AddSubtitle(ctx context.Context, video, subs string, p *models.SubtitleParams, outputFormat string) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("subtitle parameters missing")
	}

	var vf string
	if subtitle.IsStyledFormat(subs) {
		vf = "subtitles='" + filter.EscapeFilterPath(subs) + "'"
	} else {
		style, err := e.buildSubtitleStyle(ctx, video, p)
		if err != nil {
			return nil, err
		}

		content, err := os.ReadFile(subs)
		if err != nil {
			return nil, fmt.Errorf("read subtitle file: %w", err)
		}
		cues := subtitle.ParseSRT(string(content))
		if len(cues) == 0 {
			return nil, fmt.Errorf("subtitle file %s has no valid cues", subs)
		}

		assPath := e.temp.NewTemp(".ass")
		doc := subtitle.SynthesizeASS(cues, *style)
		if err := os.WriteFile(assPath, []byte(doc), 0644); err != nil {
			return nil, fmt.Errorf("write compiled subtitles: %w", err)
		}
		defer e.temp.Remove(assPath)

		vf = "subtitles='" + filter.EscapeFilterPath(assPath) +
			"':force_style='" + style.ForceStyle() + "'"
	}

	output := e.output(outputFormat)
	args := []string{"-y", "-i", video, "-vf", vf}
	args = append(args, videoEncodeArgs()...)
	args = append(args, "-c:a", "copy", output)

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

// buildSubtitleStyle resolves the font and converts the styling into an
// ASS style spec. The middle-alignment margin needs the frame height;
// if the probe fails the margin falls back to a 1080p estimate instead
// of failing the job, since a wrong margin beats no subtitles.
func (e *Engine) buildSubtitleStyle(ctx context.Context, video string, p *models.SubtitleParams) (*filter.StyleSpec, error) {
	font, err := e.fonts.Resolve(p.FontKey)
	if err != nil {
		return nil, err
	}

	height := 0
	if meta, err := e.runner.Probe(ctx, video); err == nil {
		if v := meta.Video(); v != nil {
			height = v.Height
		}
	} else {
		e.log.Warn("could not probe video for subtitle margin", logger.Error(err))
	}

	size := p.Size
	if size <= 0 {
		size = 24
	}

	backOpacity := p.BackgroundOpacity
	if !p.EnableBackground {
		backOpacity = 0
	}

	return &filter.StyleSpec{
		FontName:     font.Name,
		FontSize:     size,
		Primary:      filter.ColorToASS(p.Color, 1),
		Outline:      filter.ColorToASS(p.OutlineColor, 1),
		Back:         filter.ColorToASS(p.BackgroundColor, backOpacity),
		OutlineWidth: p.OutlineWidth,
		BoxEnabled:   p.EnableBackground,
		Alignment:    filter.AlignmentCode(p.HorizontalAlign, p.VerticalAlign),
		MarginV:      subtitle.MarginV(p.VerticalAlign, p.PaddingY, height),
	}, nil
}
