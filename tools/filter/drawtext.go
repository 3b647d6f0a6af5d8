package filter

import (
	"fmt"
	"math"
	"strings"
)

// emojiRanges covers the pictographic blocks stripped before layout.
// Emoji render as boxes under drawtext, so they are removed outright.
var emojiRanges = [][2]rune{
	{0x1F300, 0x1F5FF}, // symbols and pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport
	{0x1F700, 0x1F77F},
	{0x1F780, 0x1F7FF},
	{0x1F800, 0x1F8FF},
	{0x1F900, 0x1F9FF}, // supplemental pictographs
	{0x1FA00, 0x1FAFF},
	{0x2600, 0x26FF},   // miscellaneous symbols
	{0x2700, 0x27BF},   // dingbats
	{0xFE00, 0xFE0F},   // variation selectors
	{0x1F1E6, 0x1F1FF}, // regional indicators
	{0x200D, 0x200D},   // zero-width joiner
	{0x20E3, 0x20E3},   // combining keycap
}

// wideRanges are scripts whose glyphs occupy roughly 1.8 columns in the
// width estimate: CJK ideographs, Hangul, Hiragana, Katakana and the
// fullwidth forms.
var wideRanges = [][2]rune{
	{0x1100, 0x11FF}, // Hangul jamo
	{0x3000, 0x303F}, // CJK symbols and punctuation
	{0x3040, 0x309F}, // Hiragana
	{0x30A0, 0x30FF}, // Katakana
	{0x3400, 0x4DBF}, // CJK extension A
	{0x4E00, 0x9FFF}, // CJK unified ideographs
	{0xAC00, 0xD7AF}, // Hangul syllables
	{0xFF00, 0xFFEF}, // fullwidth forms
}

func inRanges(r rune, ranges [][2]rune) bool {
	for _, rg := range ranges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// StripEmoji removes pictographic runes and collapses the double spaces
// they leave behind. Newlines are preserved.
func StripEmoji(text string) string {
	var b strings.Builder
	for _, r := range text {
		if inRanges(r, emojiRanges) {
			continue
		}
		b.WriteRune(r)
	}

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		for strings.Contains(line, "  ") {
			line = strings.ReplaceAll(line, "  ", " ")
		}
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// DisplayWidth estimates the rendered width of a line in character
// columns. Wide-script runes count 1.8, everything else 1.
func DisplayWidth(line string) float64 {
	var w float64
	for _, r := range line {
		if inRanges(r, wideRanges) {
			w += 1.8
		} else {
			w++
		}
	}
	return w
}

var tierMultipliers = map[string]float64{
	"small":  0.5,
	"medium": 0.75,
	"large":  1.0,
	"xlarge": 1.1,
	"huge":   1.2,
	"max":    1.3,
}

// AutoFontSize derives a point size for image rendering from the text
// shape and the image dimensions. The width base fits the longest line
// at an average glyph width of 0.55em, a tier multiplier scales it, and
// a height cap keeps the whole block inside 80% of the image. The
// result is clamped to [12, 500].
func AutoFontSize(text, tier string, imageWidth, imageHeight, paddingX int) int {
	lines := strings.Split(StripEmoji(text), "\n")

	maxLen := 1.0
	for _, line := range lines {
		if w := DisplayWidth(line); w > maxLen {
			maxLen = w
		}
	}

	mult, ok := tierMultipliers[strings.TrimPrefix(tier, "auto-")]
	if !ok {
		mult = 1.0
	}

	usable := float64(imageWidth - 2*paddingX)
	size := usable / (maxLen * 0.55) * mult

	lineCount := len(lines)
	if lineCount < 1 {
		lineCount = 1
	}
	heightCap := math.Floor(float64(imageHeight) * 0.8 / (float64(lineCount) * 1.2))
	if size > heightCap {
		size = heightCap
	}

	if size < 12 {
		size = 12
	}
	if size > 500 {
		size = 500
	}
	return int(size)
}

// EscapeText prepares literal text for a drawtext text= value: single
// quotes are doubled, backslashes, colons and percent signs escaped.
func EscapeText(text string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"'", "''",
		":", "\\:",
		"%", "\\%",
	)
	return r.Replace(text)
}

// PositionX returns the drawtext x expression for an alignment
func PositionX(horizontal string, paddingX int) string {
	switch horizontal {
	case "left":
		return fmt.Sprintf("%d", paddingX)
	case "right":
		return fmt.Sprintf("w-text_w-%d", paddingX)
	default:
		return "(w-text_w)/2"
	}
}

// PositionY returns the drawtext y expression for an alignment
func PositionY(vertical string, paddingY int) string {
	switch vertical {
	case "top":
		return fmt.Sprintf("%d", paddingY)
	case "middle", "center":
		return "(h-text_h)/2"
	default:
		return fmt.Sprintf("h-text_h-%d", paddingY)
	}
}

// TextSpec is one drawtext stage, fully resolved
type TextSpec struct {
	Text     string
	FontFile string
	FontSize int
	Color    string // ffmpeg color, may carry @opacity

	OutlineWidth int
	OutlineColor string

	BoxEnabled bool
	BoxColor   string
	BoxOpacity float64
	BoxPadding int

	X string
	Y string

	LineSpacing int

	// enable='between(t,Start,End)' when EndTime > 0
	StartTime float64
	EndTime   float64
}

// Drawtext serializes the spec into a drawtext filter expression
func (s TextSpec) Drawtext() string {
	parts := []string{
		fmt.Sprintf("text='%s'", EscapeText(s.Text)),
		fmt.Sprintf("fontfile='%s'", EscapeFilterPath(s.FontFile)),
		fmt.Sprintf("fontsize=%d", s.FontSize),
		fmt.Sprintf("fontcolor=%s", s.Color),
	}

	if s.OutlineWidth > 0 {
		parts = append(parts,
			fmt.Sprintf("borderw=%d", s.OutlineWidth),
			fmt.Sprintf("bordercolor=%s", s.OutlineColor))
	}

	if s.BoxEnabled {
		parts = append(parts,
			"box=1",
			fmt.Sprintf("boxcolor=%s@%.2f", s.BoxColor, s.BoxOpacity),
			fmt.Sprintf("boxborderw=%d", s.BoxPadding))
	}

	parts = append(parts, "x="+s.X, "y="+s.Y)

	if s.LineSpacing > 0 {
		parts = append(parts, fmt.Sprintf("line_spacing=%d", s.LineSpacing))
	}

	if s.EndTime > s.StartTime {
		parts = append(parts,
			fmt.Sprintf("enable='between(t,%s,%s)'", formatSeconds(s.StartTime), formatSeconds(s.EndTime)))
	}

	return "drawtext=" + strings.Join(parts, ":")
}

// EscapeFilterPath escapes a filesystem path for use inside a filter
// argument: backslashes, colons, brackets and quotes all break the
// filter parser unescaped.
func EscapeFilterPath(p string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		":", "\\:",
		"[", "\\[",
		"]", "\\]",
		"'", "\\'",
	)
	return r.Replace(p)
}

func formatSeconds(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}
