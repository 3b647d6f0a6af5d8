package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/mediafxuz/media-fx/models"
	"gitlab.com/mediafxuz/media-fx/tools/filter"
)

// AddText draws a styled text overlay on a video, optionally limited to
// a time window.
func (e *Engine) AddText(ctx context.Context, source string, p *models.TextParams, outputFormat string) (*Result, error) {
	if p == nil || strings.TrimSpace(p.Text) == "" {
		return nil, fmt.Errorf("text overlay needs non-empty text")
	}

	font, err := e.fonts.Resolve(p.FontKey)
	if err != nil {
		return nil, err
	}

	size, err := fixedFontSize(p.Size)
	if err != nil {
		return nil, err
	}

	spec := filter.TextSpec{
		Text:         filter.StripEmoji(p.Text),
		FontFile:     font.Path,
		FontSize:     size,
		Color:        ffmpegColor(p.Color),
		OutlineWidth: p.OutlineWidth,
		OutlineColor: ffmpegColor(p.OutlineColor),
		BoxEnabled:   p.EnableBackground,
		BoxColor:     ffmpegColor(p.BackgroundColor),
		BoxOpacity:   p.BackgroundOpacity,
		BoxPadding:   p.BoxPadding,
		LineSpacing:  p.LineSpacing,
		StartTime:    p.StartTime,
		EndTime:      p.EndTime,
	}
	spec.X, spec.Y = resolvePosition(p)

	output := e.output(outputFormat)
	args := planAddText(source, spec, output)

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

func planAddText(source string, spec filter.TextSpec, output string) []string {
	args := []string{
		"-y",
		"-i", source,
		"-vf", spec.Drawtext(),
	}
	args = append(args, videoEncodeArgs()...)
	args = append(args, "-c:a", "copy")
	return append(args, output)
}

func resolvePosition(p *models.TextParams) (x, y string) {
	if p.PositionType == "coordinates" {
		x, y = p.X, p.Y
		if x == "" {
			x = "0"
		}
		if y == "" {
			y = "0"
		}
		return x, y
	}
	return filter.PositionX(p.HorizontalAlign, p.PaddingX),
		filter.PositionY(p.VerticalAlign, p.PaddingY)
}

// fixedFontSize parses a point size. Auto tiers need image dimensions
// to resolve, so they are only valid for image targets.
func fixedFontSize(size string) (int, error) {
	if size == "" {
		return 24, nil
	}
	if strings.HasPrefix(size, "auto") {
		return 0, fmt.Errorf("auto font sizing is only available for image targets")
	}
	n, err := strconv.Atoi(size)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid font size %q", size)
	}
	return n, nil
}

// ffmpegColor normalizes a color value for filter parameters: hex gets
// the 0x prefix ffmpeg expects, names pass through, empty means white.
func ffmpegColor(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return "white"
	}
	if strings.HasPrefix(c, "#") {
		return "0x" + strings.TrimPrefix(c, "#")
	}
	return c
}
