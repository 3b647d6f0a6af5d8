package engine

import (
	"strings"
	"testing"

	"gitlab.com/mediafxuz/media-fx/models"
)

func TestBuildImageTextGraphPerLineStages(t *testing.T) {
	p := &models.TextParams{
		HorizontalAlign: "center",
		VerticalAlign:   "bottom",
		PaddingY:        40,
		LineSpacing:     10,
	}

	g, err := buildImageTextGraph([]string{"First", "Second"}, p, "/f.ttf", 50, 1000, 800)
	if err != nil {
		t.Fatal(err)
	}

	graph := g.String()
	if strings.Count(graph, "drawtext=") != 2 {
		t.Fatalf("want one drawtext per line:\n%s", graph)
	}

	// block is 2*50 + 10 = 110 high; bottom-aligned origin is
	// 800-110-40 = 650 and the second line sits 60 lower
	if !strings.Contains(graph, "y=650") || !strings.Contains(graph, "y=710") {
		t.Errorf("line origins wrong:\n%s", graph)
	}
	if !strings.Contains(graph, "[vout]") {
		t.Errorf("terminal pad missing:\n%s", graph)
	}
}

func TestBuildImageTextGraphLineColors(t *testing.T) {
	p := &models.TextParams{
		EnableLineColors: true,
		Line1Color:       "#FF0000",
		Line2Color:       "#00FF00",
	}

	g, err := buildImageTextGraph([]string{"one", "two", "three"}, p, "/f.ttf", 30, 1000, 800)
	if err != nil {
		t.Fatal(err)
	}

	graph := g.String()
	if strings.Count(graph, "fontcolor=0xFF0000") != 2 {
		t.Errorf("lines 1 and 3 should share the first color:\n%s", graph)
	}
	if strings.Count(graph, "fontcolor=0x00FF00") != 1 {
		t.Errorf("line 2 should use the second color:\n%s", graph)
	}
}

func TestImageFontSize(t *testing.T) {
	if _, err := imageFontSize("nope", "text", 100, 100, 0); err == nil {
		t.Error("invalid size accepted")
	}

	n, err := imageFontSize("48", "text", 100, 100, 0)
	if err != nil || n != 48 {
		t.Errorf("fixed size = %d, %v", n, err)
	}

	auto, err := imageFontSize("auto-small", "text", 1000, 1000, 0)
	if err != nil || auto < 12 {
		t.Errorf("auto size = %d, %v", auto, err)
	}
}

func TestImageFormatFromCodec(t *testing.T) {
	for codec, want := range map[string]string{
		"mjpeg": "jpg",
		"webp":  "webp",
		"png":   "png",
		"":      "png",
	} {
		if got := imageFormatFromCodec(codec); got != want {
			t.Errorf("imageFormatFromCodec(%q) = %q, want %q", codec, got, want)
		}
	}
}

func TestBuildStampGraph(t *testing.T) {
	p := &models.StampParams{
		Width:             300,
		Height:            -1,
		X:                 "main_w-overlay_w-20",
		Y:                 "20",
		Rotation:          45,
		Opacity:           0.7,
		EnableTimeControl: true,
		StartTime:         2,
		EndTime:           8,
	}

	g, err := buildStampGraph(p)
	if err != nil {
		t.Fatal(err)
	}

	graph := g.String()
	for _, want := range []string{
		"scale=300:-1",
		"rotate=45*PI/180:c=none",
		"colorchannelmixer=aa=0.7",
		"overlay=main_w-overlay_w-20:20:enable='between(t,2,8)'",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("stamp graph missing %q:\n%s", want, graph)
		}
	}
}

func TestBuildStampGraphWithoutTimeWindow(t *testing.T) {
	g, err := buildStampGraph(&models.StampParams{Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(g.String(), "enable=") {
		t.Errorf("unexpected time window:\n%s", g.String())
	}
}

func TestFixedFontSize(t *testing.T) {
	if _, err := fixedFontSize("auto-large"); err == nil {
		t.Error("auto tier should be rejected for video targets")
	}
	if n, err := fixedFontSize(""); err != nil || n != 24 {
		t.Errorf("default size = %d, %v", n, err)
	}
	if _, err := fixedFontSize("-3"); err == nil {
		t.Error("negative size accepted")
	}
}

func TestResolvePosition(t *testing.T) {
	p := &models.TextParams{
		PositionType:    "alignment",
		HorizontalAlign: "right",
		VerticalAlign:   "top",
		PaddingX:        30,
		PaddingY:        20,
	}
	x, y := resolvePosition(p)
	if x != "w-text_w-30" || y != "20" {
		t.Errorf("alignment position = %q, %q", x, y)
	}

	p = &models.TextParams{PositionType: "coordinates", X: "100", Y: "(h-text_h)/2"}
	x, y = resolvePosition(p)
	if x != "100" || y != "(h-text_h)/2" {
		t.Errorf("coordinate position = %q, %q", x, y)
	}
}
