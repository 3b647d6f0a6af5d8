package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/mediafxuz/media-fx/models"
	"gitlab.com/mediafxuz/media-fx/tools/filter"
)

// AddTextToImage renders a text block onto a still image. Unlike the
// video path this draws one stage per line so each line gets its own
// horizontal centering and, optionally, its own color.
func (e *Engine) AddTextToImage(ctx context.Context, image string, p *models.TextParams, outputFormat string) (*Result, error) {
	if p == nil || strings.TrimSpace(p.Text) == "" {
		return nil, fmt.Errorf("text overlay needs non-empty text")
	}

	font, err := e.fonts.Resolve(p.FontKey)
	if err != nil {
		return nil, err
	}

	meta, err := e.runner.Probe(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %w", err)
	}
	dims := meta.Video()
	if dims == nil || dims.Width <= 0 || dims.Height <= 0 {
		return nil, fmt.Errorf("could not determine image dimensions for %s", meta.FileName)
	}

	text := filter.StripEmoji(p.Text)
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return nil, fmt.Errorf("text overlay needs non-empty text")
	}

	fontSize, err := imageFontSize(p.Size, text, dims.Width, dims.Height, p.PaddingX)
	if err != nil {
		return nil, err
	}

	g, err := buildImageTextGraph(lines, p, font.Path, fontSize, dims.Width, dims.Height)
	if err != nil {
		return nil, err
	}

	if outputFormat == "" {
		outputFormat = imageFormatFromCodec(dims.CodecName)
	}

	output := e.output(outputFormat)
	args := []string{
		"-y",
		"-i", image,
		"-filter_complex", g.String(),
		"-map", "[vout]",
		"-frames:v", "1",
		output,
	}

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

func buildImageTextGraph(lines []string, p *models.TextParams, fontFile string, fontSize, imgW, imgH int) (*filter.Graph, error) {
	lineSpacing := p.LineSpacing
	blockHeight := len(lines)*fontSize + (len(lines)-1)*lineSpacing

	var y0 int
	switch p.VerticalAlign {
	case "top":
		y0 = p.PaddingY
	case "middle", "center":
		y0 = (imgH - blockHeight) / 2
	default:
		y0 = imgH - blockHeight - p.PaddingY
	}

	g := filter.NewGraph()
	prev := "0:v"
	for i, line := range lines {
		color := p.Color
		if p.EnableLineColors {
			color = p.Line1Color
			if i == 1 {
				color = p.Line2Color
			}
		}

		spec := filter.TextSpec{
			Text:         line,
			FontFile:     fontFile,
			FontSize:     fontSize,
			Color:        ffmpegColor(color),
			OutlineWidth: p.OutlineWidth,
			OutlineColor: ffmpegColor(p.OutlineColor),
			BoxEnabled:   p.EnableBackground,
			BoxColor:     ffmpegColor(p.BackgroundColor),
			BoxOpacity:   p.BackgroundOpacity,
			BoxPadding:   p.BoxPadding,
			X:            filter.PositionX(p.HorizontalAlign, p.PaddingX),
			Y:            strconv.Itoa(y0 + i*(fontSize+lineSpacing)),
		}

		out := fmt.Sprintf("t%d", i)
		if i == len(lines)-1 {
			out = "vout"
		}
		g.Chain(prev, spec.Drawtext(), out)
		prev = out
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("image text graph: %w", err)
	}
	return g, nil
}

func imageFontSize(size, text string, imgW, imgH, paddingX int) (int, error) {
	if size == "" {
		size = "auto-large"
	}
	if strings.HasPrefix(size, "auto") {
		return filter.AutoFontSize(text, size, imgW, imgH, paddingX), nil
	}
	n, err := strconv.Atoi(size)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid font size %q", size)
	}
	return n, nil
}

// imageFormatFromCodec recovers an output extension when the source was
// downloaded to an extension-less temp file.
func imageFormatFromCodec(codec string) string {
	switch codec {
	case "mjpeg":
		return "jpg"
	case "webp":
		return "webp"
	default:
		return "png"
	}
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// ImageToVideo turns a still image into a video clip of the given
// duration, letterboxed into the requested frame.
func (e *Engine) ImageToVideo(ctx context.Context, image string, p *models.ImageVideoParams, outputFormat string) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("image-to-video parameters missing")
	}

	duration := p.Duration
	if duration <= 0 {
		duration = 5
	}
	width, height := p.Width, p.Height
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}

	output := e.output(outputFormat)
	vf := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,format=yuv420p",
		width, height, width, height)

	args := []string{
		"-y",
		"-loop", "1",
		"-t", formatSeconds(duration),
		"-i", image,
		"-vf", vf,
		"-r", "30",
	}
	args = append(args, videoEncodeArgs()...)
	args = append(args, "-an", output)

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

// StampImage overlays an image on the video, with optional scaling,
// rotation, transparency and a visibility window.
func (e *Engine) StampImage(ctx context.Context, video, image string, p *models.StampParams, outputFormat string) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("stamp parameters missing")
	}

	g, err := buildStampGraph(p)
	if err != nil {
		return nil, err
	}

	output := e.output(outputFormat)
	args := []string{
		"-y",
		"-i", video,
		"-i", image,
		"-filter_complex", g.String(),
		"-map", "[vout]",
		"-map", "0:a?",
	}
	args = append(args, videoEncodeArgs()...)
	args = append(args, "-c:a", "copy", output)

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

func buildStampGraph(p *models.StampParams) (*filter.Graph, error) {
	width := p.Width
	if width <= 0 {
		width = 200
	}
	height := p.Height
	if height == 0 {
		height = -1 // keep aspect
	}

	stages := []string{fmt.Sprintf("scale=%d:%d", width, height)}

	if p.Rotation != 0 {
		rad := fmt.Sprintf("%s*PI/180", formatSeconds(p.Rotation))
		stages = append(stages,
			fmt.Sprintf("rotate=%s:c=none:ow=rotw(%s):oh=roth(%s)", rad, rad, rad))
	}

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

	overlay := fmt.Sprintf("overlay=%s:%s", x, y)
	if p.EnableTimeControl && p.EndTime > p.StartTime {
		overlay += fmt.Sprintf(":enable='between(t,%s,%s)'",
			formatSeconds(p.StartTime), formatSeconds(p.EndTime))
	}

	g := filter.NewGraph()
	g.Chain("1:v", strings.Join(stages, ","), "stamp")
	g.Add([]string{"0:v", "stamp"}, overlay, "vout")

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("stamp graph: %w", err)
	}
	return g, nil
}
