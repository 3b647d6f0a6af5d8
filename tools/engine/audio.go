package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.com/mediafxuz/media-fx/models"
)

// audioCodecFor maps a requested output format to the encoder and
// default extension.
func audioCodecFor(codec string) (encoder, ext string, err error) {
	switch codec {
	case "", "mp3":
		return "libmp3lame", "mp3", nil
	case "aac", "m4a":
		return "aac", "m4a", nil
	case "wav":
		return "pcm_s16le", "wav", nil
	case "flac":
		return "flac", "flac", nil
	case "opus":
		return "libopus", "opus", nil
	default:
		return "", "", fmt.Errorf("unsupported audio codec %q", codec)
	}
}

// ExtractAudio pulls the audio track into its own file
func (e *Engine) ExtractAudio(ctx context.Context, source string, p *models.AudioParams, outputFormat string) (*Result, error) {
	codec := ""
	bitrate := ""
	if p != nil {
		codec = p.Codec
		bitrate = p.Bitrate
	}

	encoder, ext, err := audioCodecFor(codec)
	if err != nil {
		return nil, err
	}
	if outputFormat == "" {
		outputFormat = ext
	}

	meta, err := e.runner.Probe(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %w", err)
	}
	if !meta.HasAudio() {
		return nil, fmt.Errorf("source %s has no audio stream to extract", meta.FileName)
	}

	output := e.output(outputFormat)
	args := []string{"-y", "-i", source, "-vn", "-c:a", encoder}
	if bitrate != "" {
		args = append(args, "-b:a", bitrate)
	}
	args = append(args, output)

	if err := e.runner.Run(ctx, args...); err != nil {
		e.temp.Remove(output)
		return nil, err
	}

	return &Result{OutputPath: output}, nil
}

// SeparateAudio splits the source into a silent video artifact and an
// audio artifact. The audio is the primary output; the stripped video
// rides along as an extra.
func (e *Engine) SeparateAudio(ctx context.Context, source string, p *models.AudioParams, outputFormat string) (*Result, error) {
	audioResult, err := e.ExtractAudio(ctx, source, p, outputFormat)
	if err != nil {
		return nil, err
	}

	videoFormat := "mp4"
	if p != nil && p.VideoFormat != "" {
		videoFormat = p.VideoFormat
	}

	videoOut := e.output(videoFormat)
	err = e.runner.Run(ctx, "-y", "-i", source, "-c:v", "copy", "-an", videoOut)
	if err != nil {
		e.temp.Remove(audioResult.OutputPath, videoOut)
		return nil, err
	}

	audioResult.ExtraOutputs = map[string]string{"video": videoOut}
	return audioResult, nil
}

// GetMetadata probes the source and returns the normalized report as
// the job payload. No artifact is produced.
func (e *Engine) GetMetadata(ctx context.Context, source string) (*Result, error) {
	meta, err := e.runner.Probe(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %w", err)
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	return &Result{Payload: payload}, nil
}
