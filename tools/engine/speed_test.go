package engine

import (
	"strings"
	"testing"
)

func TestPlanSpeedWithTempoAudio(t *testing.T) {
	args, err := planSpeed("in.mp4", 5, audioModeTempo, "out.mp4")
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"setpts=0.2*PTS",
		"atempo=2.0,atempo=2.0,atempo=1.25",
		"-map [v]",
		"-map [a]",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q:\n%s", want, joined)
		}
	}
}

func TestPlanSpeedDroppedAudio(t *testing.T) {
	args, err := planSpeed("in.mp4", 2, audioModeNone, "out.mp4")
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-an") {
		t.Errorf("audio not dropped:\n%s", joined)
	}
	if strings.Contains(joined, "atempo") {
		t.Errorf("unexpected audio filter:\n%s", joined)
	}
}

func TestPlanSpeedRubberband(t *testing.T) {
	args, err := planSpeed("in.mp4", 1.5, audioModeRubberband, "out.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.Join(args, " "), "rubberband=tempo=1.5") {
		t.Errorf("rubberband filter missing:\n%v", args)
	}
}

func TestPlanTrim(t *testing.T) {
	args := planTrim("in.mp4", 1.5, 10, "out.mp4")
	joined := strings.Join(args, " ")
	for _, want := range []string{"-ss 1.5", "-to 10", "-c:v libx264"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q:\n%s", want, joined)
		}
	}
}
