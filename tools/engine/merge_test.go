package engine

import (
	"strings"
	"testing"
)

func TestPlanMerge(t *testing.T) {
	args, err := planMerge([]mergeInput{
		{Path: "a.mp4", HasAudio: true, Duration: 10},
		{Path: "b.mov", HasAudio: true, Duration: 5},
	}, "out.mp4")
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-i a.mp4",
		"-i b.mov",
		"concat=n=2:v=1:a=1",
		"-map [outv]",
		"-map [outa]",
		"out.mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q:\n%s", want, joined)
		}
	}
}

func TestPlanMergeSynthesizesSilentTracks(t *testing.T) {
	args, err := planMerge([]mergeInput{
		{Path: "a.mp4", HasAudio: true, Duration: 10},
		{Path: "silent.mp4", HasAudio: false, Duration: 4},
		{Path: "c.mp4", HasAudio: true, Duration: 2},
	}, "out.mp4")
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "anullsrc=channel_layout=stereo:sample_rate=44100") {
		t.Fatalf("no silent source generated:\n%s", joined)
	}
	if !strings.Contains(joined, "-t 4") {
		t.Errorf("silent track should match the 4s source:\n%s", joined)
	}
	// three real inputs, so the lavfi input lands at index 3
	if !strings.Contains(joined, "[3:a]") {
		t.Errorf("silent pad should come from input 3:\n%s", joined)
	}
}

func TestPlanMergeZeroDurationSilentFloor(t *testing.T) {
	args, err := planMerge([]mergeInput{
		{Path: "a.mp4", HasAudio: true, Duration: 10},
		{Path: "weird.mp4", HasAudio: false, Duration: 0},
	}, "out.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.Join(args, " "), "-t 0.01") {
		t.Error("zero-duration silent track should floor at 0.01s")
	}
}
