package models

// Source describes one media input of a job
type Source struct {
	SourceType string `json:"source_type"` // "url" or "path"
	Value      string `json:"value"`
}

// MediaJob is the message consumed from the listen queue. One job is one
// operation; params not used by the operation are left nil.
type MediaJob struct {
	Id           string              `json:"id"`
	Operation    string              `json:"operation"`
	Sources      []Source            `json:"sources"`
	OutputKey    string              `json:"output_key"`
	OutputFormat string              `json:"output_format"`
	Cdn          *CloudStorageConfig `json:"cdn,omitempty"`

	Trim       *TrimParams       `json:"trim,omitempty"`
	Speed      *SpeedParams      `json:"speed,omitempty"`
	Mix        *MixParams        `json:"mix,omitempty"`
	Text       *TextParams       `json:"text,omitempty"`
	Subtitle   *SubtitleParams   `json:"subtitle,omitempty"`
	ImageVideo *ImageVideoParams `json:"image_video,omitempty"`
	Stamp      *StampParams      `json:"stamp,omitempty"`
	Overlay    *OverlayParams    `json:"overlay,omitempty"`
	Transition *TransitionParams `json:"transition,omitempty"`
	Fade       *FadeParams       `json:"fade,omitempty"`
	Audio      *AudioParams      `json:"audio,omitempty"`
	Font       *FontParams       `json:"font,omitempty"`
}

type TrimParams struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

type SpeedParams struct {
	Speed         float64 `json:"speed"`
	AdjustAudio   bool    `json:"adjust_audio"`
	MaintainPitch bool    `json:"maintain_pitch"`
}

type MixParams struct {
	VideoVolume float64 `json:"video_volume"`
	AudioVolume float64 `json:"audio_volume"`
	// shortest | longest | first | audio | audio-speed
	MatchLength string `json:"match_length"`

	EnablePartialMix bool    `json:"enable_partial_mix"`
	StartTime        float64 `json:"start_time"`
	Duration         float64 `json:"duration"` // 0 means the secondary's natural duration
	Loop             bool    `json:"loop"`

	EnableFadeIn    bool    `json:"enable_fade_in"`
	FadeInDuration  float64 `json:"fade_in_duration"`
	EnableFadeOut   bool    `json:"enable_fade_out"`
	FadeOutDuration float64 `json:"fade_out_duration"`
}

// TextParams styles a drawtext overlay, on a video or a still image
type TextParams struct {
	Text    string `json:"text"`
	FontKey string `json:"font_key"`
	// A fixed point size ("48") or an auto tier
	// (auto-small .. auto-max); auto tiers apply to image targets only.
	Size  string `json:"size"`
	Color string `json:"color"`

	OutlineWidth int    `json:"outline_width"`
	OutlineColor string `json:"outline_color"`

	EnableBackground  bool    `json:"enable_background"`
	BackgroundColor   string  `json:"background_color"`
	BackgroundOpacity float64 `json:"background_opacity"`
	BoxPadding        int     `json:"box_padding"`

	PositionType    string `json:"position_type"` // alignment | coordinates
	HorizontalAlign string `json:"horizontal_align"`
	VerticalAlign   string `json:"vertical_align"`
	PaddingX        int    `json:"padding_x"`
	PaddingY        int    `json:"padding_y"`
	X               string `json:"x"`
	Y               string `json:"y"`

	LineSpacing      int    `json:"line_spacing"`
	EnableLineColors bool   `json:"enable_line_colors"`
	Line1Color       string `json:"line1_color"`
	Line2Color       string `json:"line2_color"`

	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

type SubtitleParams struct {
	FontKey           string  `json:"font_key"`
	Size              int     `json:"size"`
	Color             string  `json:"color"`
	OutlineWidth      int     `json:"outline_width"`
	OutlineColor      string  `json:"outline_color"`
	EnableBackground  bool    `json:"enable_background"`
	BackgroundColor   string  `json:"background_color"`
	BackgroundOpacity float64 `json:"background_opacity"`
	HorizontalAlign   string  `json:"horizontal_align"`
	VerticalAlign     string  `json:"vertical_align"`
	PaddingY          int     `json:"padding_y"`
}

type ImageVideoParams struct {
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

type StampParams struct {
	Width             int     `json:"width"`
	Height            int     `json:"height"` // -1 keeps aspect
	X                 string  `json:"x"`
	Y                 string  `json:"y"`
	Rotation          float64 `json:"rotation"`
	Opacity           float64 `json:"opacity"`
	EnableTimeControl bool    `json:"enable_time_control"`
	StartTime         float64 `json:"start_time"`
	EndTime           float64 `json:"end_time"`
}

// OverlayParams places a second video picture-in-picture on the main
// one
type OverlayParams struct {
	SizeMode     string  `json:"size_mode"` // percent | pixels
	WidthPercent float64 `json:"width_percent"`
	Width        int     `json:"width"`
	Height       int     `json:"height"` // -1 keeps aspect

	X       string  `json:"x"`
	Y       string  `json:"y"`
	Opacity float64 `json:"opacity"`

	EnableTimeControl bool    `json:"enable_time_control"`
	StartTime         float64 `json:"start_time"`
	EndTime           float64 `json:"end_time"`

	// main | overlay | mix
	AudioMode string `json:"audio_mode"`
}

type TransitionParams struct {
	Effect   string  `json:"effect"`
	Duration float64 `json:"duration"`
}

type FadeParams struct {
	Effect    string  `json:"effect"` // in | out
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

type AudioParams struct {
	Codec   string `json:"codec"`
	Bitrate string `json:"bitrate"`
	// separateAudio only: container for the stripped video artifact
	VideoFormat string `json:"video_format"`
}

type FontParams struct {
	Action      string `json:"action"` // list | upload | delete
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// upload only: path to the font binary already on disk
	FilePath           string `json:"file_path"`
	IncludeSystemFonts bool   `json:"include_system_fonts"`
}

// UpdateJobStatus is published to the write queue as a job advances
type UpdateJobStatus struct {
	Id              string                 `json:"id"`
	Operation       string                 `json:"operation"`
	Status          string                 `json:"status"`
	DurationMs      int                    `json:"duration_ms"`
	OutputKey       string                 `json:"output_key"`
	Result          map[string]interface{} `json:"result,omitempty"`
	FailDescription string                 `json:"fail_description,omitempty"`
	ErrorCode       string                 `json:"error_code,omitempty"`
}

type CloudStorageConfig struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	Type      string `json:"type"` // minio | s3
}
