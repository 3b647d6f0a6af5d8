package ffmpeg

import (
	"context"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"gitlab.com/mediafxuz/media-fx/models"
)

// Probe runs ffprobe on the file and normalizes the JSON report into
// MediaMetadata. Fields ffprobe omits stay at their zero value.
func (r *Runner) Probe(ctx context.Context, path string) (*models.MediaMetadata, error) {
	out, err := r.RunProbe(ctx,
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-of", "json",
		path,
	)
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(out)

	meta := &models.MediaMetadata{
		FileName:   filepath.Base(path),
		FormatName: root.Get("format.format_name").String(),
		Duration:   root.Get("format.duration").Float(),
		Size:       root.Get("format.size").Int(),
		BitRate:    root.Get("format.bit_rate").String(),
	}

	if tags := root.Get("format.tags"); tags.Exists() {
		meta.Tags = map[string]string{}
		tags.ForEach(func(k, v gjson.Result) bool {
			meta.Tags[k.String()] = v.String()
			return true
		})
	}

	root.Get("streams").ForEach(func(_, s gjson.Result) bool {
		info := models.StreamInfo{
			Index:     int(s.Get("index").Int()),
			CodecType: s.Get("codec_type").String(),
			CodecName: s.Get("codec_name").String(),
			Duration:  s.Get("duration").Float(),
			BitRate:   s.Get("bit_rate").String(),
			Language:  s.Get("tags.language").String(),
			Title:     s.Get("tags.title").String(),
		}

		switch info.CodecType {
		case "video":
			info.Width = int(s.Get("width").Int())
			info.Height = int(s.Get("height").Int())
			info.FrameRate = parseFrameRate(s.Get("r_frame_rate").String())
			info.PixelFormat = s.Get("pix_fmt").String()
		case "audio":
			info.SampleRate = int(s.Get("sample_rate").Int())
			info.Channels = int(s.Get("channels").Int())
			info.ChannelLayout = s.Get("channel_layout").String()
		}

		meta.Streams = append(meta.Streams, info)
		return true
	})

	return meta, nil
}

// parseFrameRate converts ffprobe's "num/den" rational to a rate rounded
// to two decimals. A zero denominator leaves the rate unset.
func parseFrameRate(raw string) float64 {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return 0
	}

	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}

	return math.Round(num/den*100) / 100
}
