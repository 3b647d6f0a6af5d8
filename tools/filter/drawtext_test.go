package filter

import (
	"strings"
	"testing"
)

func TestStripEmoji(t *testing.T) {
	got := StripEmoji("Hello 😀 World\n🎉 Party")
	want := "Hello World\nParty"
	if got != want {
		t.Errorf("StripEmoji() = %q, want %q", got, want)
	}

	if got := StripEmoji("no emoji here"); got != "no emoji here" {
		t.Errorf("plain text changed: %q", got)
	}
}

func TestDisplayWidth(t *testing.T) {
	if w := DisplayWidth("abc"); w != 3 {
		t.Errorf("ascii width = %v, want 3", w)
	}
	// three ideographs at 1.8 each
	if w := DisplayWidth("你好吗"); w < 5.39 || w > 5.41 {
		t.Errorf("cjk width = %v, want 5.4", w)
	}
	if w := DisplayWidth("aか"); w < 2.79 || w > 2.81 {
		t.Errorf("mixed width = %v, want 2.8", w)
	}
}

func TestAutoFontSizeTierMonotonic(t *testing.T) {
	tiers := []string{"auto-small", "auto-medium", "auto-large", "auto-xlarge", "auto-huge", "auto-max"}

	prev := 0
	for _, tier := range tiers {
		size := AutoFontSize("Hello World", tier, 1920, 1080, 40)
		if size < prev {
			t.Errorf("tier %s produced %d, smaller than previous %d", tier, size, prev)
		}
		prev = size
	}
}

func TestAutoFontSizeWidthMonotonic(t *testing.T) {
	narrow := AutoFontSize("some headline text", "auto-large", 800, 4000, 40)
	wide := AutoFontSize("some headline text", "auto-large", 1600, 4000, 40)
	if wide < narrow {
		t.Errorf("wider image produced smaller font: %d < %d", wide, narrow)
	}
}

func TestAutoFontSizeClamp(t *testing.T) {
	if got := AutoFontSize(strings.Repeat("x", 400), "auto-small", 100, 100, 40); got != 12 {
		t.Errorf("lower clamp: got %d, want 12", got)
	}
	if got := AutoFontSize("w", "auto-max", 100000, 100000, 0); got != 500 {
		t.Errorf("upper clamp: got %d, want 500", got)
	}
}

func TestAutoFontSizeHeightCap(t *testing.T) {
	// five lines on a short image must land under the 80% block cap
	text := "a\nb\nc\nd\ne"
	size := AutoFontSize(text, "auto-max", 10000, 300, 0)
	blockCap := int(float64(300) * 0.8 / (5 * 1.2))
	if size > blockCap {
		t.Errorf("size %d exceeds the height cap %d", size, blockCap)
	}
}

func TestEscapeText(t *testing.T) {
	got := EscapeText(`it's 100% fine: \path`)
	want := `it''s 100\% fine\: \\path`
	if got != want {
		t.Errorf("EscapeText() = %q, want %q", got, want)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := EscapeFilterPath(`/tmp/a:b[1]'c'.srt`)
	want := `/tmp/a\:b\[1\]\'c\'.srt`
	if got != want {
		t.Errorf("EscapeFilterPath() = %q, want %q", got, want)
	}
}

func TestPositionExpressions(t *testing.T) {
	if got := PositionX("left", 20); got != "20" {
		t.Errorf("left x = %q", got)
	}
	if got := PositionX("right", 20); got != "w-text_w-20" {
		t.Errorf("right x = %q", got)
	}
	if got := PositionX("center", 20); got != "(w-text_w)/2" {
		t.Errorf("center x = %q", got)
	}
	if got := PositionY("top", 15); got != "15" {
		t.Errorf("top y = %q", got)
	}
	if got := PositionY("bottom", 15); got != "h-text_h-15" {
		t.Errorf("bottom y = %q", got)
	}
	if got := PositionY("middle", 15); got != "(h-text_h)/2" {
		t.Errorf("middle y = %q", got)
	}
}

func TestDrawtextSerialization(t *testing.T) {
	spec := TextSpec{
		Text:         "Hi there",
		FontFile:     "/fonts/Roboto.ttf",
		FontSize:     48,
		Color:        "white",
		OutlineWidth: 2,
		OutlineColor: "black",
		BoxEnabled:   true,
		BoxColor:     "black",
		BoxOpacity:   0.5,
		BoxPadding:   10,
		X:            "(w-text_w)/2",
		Y:            "h-text_h-30",
		StartTime:    1.5,
		EndTime:      4,
	}

	got := spec.Drawtext()

	for _, want := range []string{
		"drawtext=text='Hi there'",
		"fontsize=48",
		"fontcolor=white",
		"borderw=2",
		"box=1",
		"boxcolor=black@0.50",
		"boxborderw=10",
		"enable='between(t,1.5,4)'",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Drawtext() missing %q in %q", want, got)
		}
	}
}
