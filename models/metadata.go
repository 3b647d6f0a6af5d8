package models

// StreamInfo is the normalized view of one ffprobe stream entry
type StreamInfo struct {
	Index     int     `json:"index"`
	CodecType string  `json:"codec_type"`
	CodecName string  `json:"codec_name"`
	Duration  float64 `json:"duration,omitempty"`
	BitRate   string  `json:"bit_rate,omitempty"`
	Language  string  `json:"language,omitempty"`
	Title     string  `json:"title,omitempty"`

	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	FrameRate   float64 `json:"frame_rate,omitempty"`
	PixelFormat string  `json:"pixel_format,omitempty"`

	SampleRate    int    `json:"sample_rate,omitempty"`
	Channels      int    `json:"channels,omitempty"`
	ChannelLayout string `json:"channel_layout,omitempty"`
}

// MediaMetadata is the normalized probe result for a media file
type MediaMetadata struct {
	FileName   string            `json:"file_name"`
	FormatName string            `json:"format_name"`
	Duration   float64           `json:"duration"`
	Size       int64             `json:"size"`
	BitRate    string            `json:"bit_rate,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
	Streams    []StreamInfo      `json:"streams"`
}

// Video returns the first video stream, or nil
func (m *MediaMetadata) Video() *StreamInfo {
	for i := range m.Streams {
		if m.Streams[i].CodecType == "video" {
			return &m.Streams[i]
		}
	}
	return nil
}

// Audio returns the first audio stream, or nil
func (m *MediaMetadata) Audio() *StreamInfo {
	for i := range m.Streams {
		if m.Streams[i].CodecType == "audio" {
			return &m.Streams[i]
		}
	}
	return nil
}

// HasAudio reports whether any audio stream is present
func (m *MediaMetadata) HasAudio() bool {
	return m.Audio() != nil
}

// HasVideo reports whether any video stream is present
func (m *MediaMetadata) HasVideo() bool {
	return m.Video() != nil
}
