package filter

import (
	"strings"
	"testing"
)

func TestColorToASS(t *testing.T) {
	tests := []struct {
		name    string
		color   string
		opacity float64
		want    string
	}{
		{"hex opaque", "#FF0000", 1, "&H000000FF"},
		{"hex channel order reversed", "#112233", 1, "&H00332211"},
		{"named white half opacity", "white", 0.5, "&H80FFFFFF"},
		{"named orange", "orange", 1, "&H0000A5FF"},
		{"fully transparent", "black", 0, "&HFF000000"},
		{"unknown falls back to white", "chartreuse-ish", 1, "&H00FFFFFF"},
		{"opacity clamped", "black", 1.7, "&H00000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorToASS(tt.color, tt.opacity); got != tt.want {
				t.Errorf("ColorToASS(%q, %v) = %q, want %q", tt.color, tt.opacity, got, tt.want)
			}
		})
	}
}

func TestAlignmentCode(t *testing.T) {
	tests := []struct {
		h, v string
		want int
	}{
		{"left", "bottom", 1},
		{"center", "bottom", 2},
		{"right", "bottom", 3},
		{"left", "middle", 4},
		{"center", "middle", 5},
		{"right", "middle", 6},
		{"left", "top", 7},
		{"center", "top", 8},
		{"right", "top", 9},
		{"nonsense", "nonsense", 2}, // defaults: bottom row, center column
		{"left", "", 1},
		{"", "top", 8},
	}

	for _, tt := range tests {
		if got := AlignmentCode(tt.h, tt.v); got != tt.want {
			t.Errorf("AlignmentCode(%q, %q) = %d, want %d", tt.h, tt.v, got, tt.want)
		}
	}
}

func TestForceStyle(t *testing.T) {
	s := StyleSpec{
		FontName:     "Roboto",
		FontSize:     24,
		Primary:      "&H00FFFFFF",
		Outline:      "&H00000000",
		Back:         "&H80000000",
		OutlineWidth: 2,
		BoxEnabled:   true,
		Alignment:    2,
		MarginV:      40,
	}

	got := s.ForceStyle()

	for _, want := range []string{
		"FontName=Roboto",
		"FontSize=24",
		"PrimaryColour=&H00FFFFFF",
		"BorderStyle=4",
		"Outline=2",
		"Shadow=0",
		"Alignment=2",
		"MarginV=40",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ForceStyle() missing %q in %q", want, got)
		}
	}

	s.BoxEnabled = false
	if !strings.Contains(s.ForceStyle(), "BorderStyle=1") {
		t.Errorf("expected BorderStyle=1 without a background box")
	}
}
