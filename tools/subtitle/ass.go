package subtitle

import (
	"fmt"
	"math"
	"strings"

	"gitlab.com/mediafxuz/media-fx/tools/filter"
)

// defaultPlayHeight stands in for the video height when a probe could
// not supply one. The middle-alignment margin is a best-effort estimate
// in that case rather than an error.
const defaultPlayHeight = 1080

// MarginV resolves the vertical margin for the subtitle style. Bottom
// and top alignments use the padding verbatim; middle alignment pushes
// the baseline to roughly 37% of the frame height since libass has no
// true vertical centering for margins.
func MarginV(vertical string, paddingY, videoHeight int) int {
	switch vertical {
	case "middle", "center":
		if videoHeight <= 0 {
			videoHeight = defaultPlayHeight
		}
		return int(math.Round(0.37 * float64(videoHeight)))
	default:
		return paddingY
	}
}

// SynthesizeASS renders cues into a complete ASS document with a single
// style. Cue order is preserved.
func SynthesizeASS(cues []Cue, style filter.StyleSpec) string {
	var b strings.Builder

	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	b.WriteString("WrapStyle: 0\n")
	b.WriteString("ScaledBorderAndShadow: yes\n")
	b.WriteString("\n[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")

	borderStyle := 1
	if style.BoxEnabled {
		borderStyle = 4
	}

	b.WriteString(fmt.Sprintf(
		"Style: Default,%s,%d,%s,%s,%s,%s,0,0,0,0,100,100,0,0,%d,%d,0,%d,10,10,%d,1\n",
		style.FontName,
		style.FontSize,
		style.Primary,
		style.Primary,
		style.Outline,
		style.Back,
		borderStyle,
		style.OutlineWidth,
		style.Alignment,
		style.MarginV,
	))

	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, cue := range cues {
		b.WriteString(fmt.Sprintf(
			"Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			FormatASSTime(cue.Start),
			FormatASSTime(cue.End),
			cue.Text,
		))
	}

	return b.String()
}

// IsStyledFormat reports whether the subtitle file carries its own
// styling and should pass through untouched.
func IsStyledFormat(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".ass") || strings.HasSuffix(lower, ".ssa")
}
