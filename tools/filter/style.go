package filter

import (
	"fmt"
	"math"
	"strings"
)

var namedColors = map[string]string{
	"white":   "ffffff",
	"black":   "000000",
	"red":     "ff0000",
	"green":   "00ff00",
	"blue":    "0000ff",
	"yellow":  "ffff00",
	"cyan":    "00ffff",
	"magenta": "ff00ff",
	"orange":  "ffa500",
}

// ColorToASS converts a "#RRGGBB" or named color plus an opacity in
// [0,1] to the libass &HAABBGGRR form. Channel order is reversed and
// the alpha byte is inverted: 0 is opaque, 255 is transparent.
// Unrecognized colors fall back to white.
func ColorToASS(color string, opacity float64) string {
	hex := resolveColorHex(color)

	r := hex[0:2]
	g := hex[2:4]
	b := hex[4:6]

	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	alpha := int(math.Round((1 - opacity) * 255))

	return fmt.Sprintf("&H%02X%s%s%s", alpha, strings.ToUpper(b), strings.ToUpper(g), strings.ToUpper(r))
}

func resolveColorHex(color string) string {
	c := strings.ToLower(strings.TrimSpace(color))
	if hex, ok := namedColors[c]; ok {
		return hex
	}

	c = strings.TrimPrefix(c, "#")
	if len(c) == 6 && isHex(c) {
		return c
	}

	return namedColors["white"]
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// AlignmentCode maps horizontal/vertical alignment names to the numpad
// codes the ASS format uses. Unknown vertical values land on the bottom
// row, unknown horizontal values on the center column.
func AlignmentCode(horizontal, vertical string) int {
	row := 0 // bottom
	switch vertical {
	case "middle", "center":
		row = 3
	case "top":
		row = 6
	}

	col := 2 // center
	switch horizontal {
	case "left":
		col = 1
	case "right":
		col = 3
	}

	return row + col
}

// StyleSpec carries the resolved styling of a subtitle render
type StyleSpec struct {
	FontName     string
	FontSize     int
	Primary      string // &H form
	Outline      string // &H form
	Back         string // &H form
	OutlineWidth int
	BoxEnabled   bool
	Alignment    int
	MarginV      int
}

// ForceStyle serializes the spec into the subtitles filter's
// force_style value
func (s StyleSpec) ForceStyle() string {
	borderStyle := 1
	if s.BoxEnabled {
		borderStyle = 4
	}

	fields := []string{
		"FontName=" + s.FontName,
		fmt.Sprintf("FontSize=%d", s.FontSize),
		"PrimaryColour=" + s.Primary,
		"OutlineColour=" + s.Outline,
		"BackColour=" + s.Back,
		"Bold=0",
		"Italic=0",
		fmt.Sprintf("BorderStyle=%d", borderStyle),
		fmt.Sprintf("Outline=%d", s.OutlineWidth),
		"Shadow=0",
		fmt.Sprintf("Alignment=%d", s.Alignment),
		fmt.Sprintf("MarginV=%d", s.MarginV),
	}

	return strings.Join(fields, ",")
}
