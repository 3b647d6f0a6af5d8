package engine

import (
	"strings"
	"testing"
)

func withAudio(path string, duration float64) transitionInput {
	return transitionInput{Path: path, Duration: duration, HasAudio: true}
}

func TestPlanTransitionsOffsets(t *testing.T) {
	args, err := planTransitions([]transitionInput{
		withAudio("a.mp4", 5),
		withAudio("b.mp4", 4),
		withAudio("c.mp4", 6),
	}, "wipeleft", 1, "out.mp4")
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(args, " ")
	// first transition one second before the first clip ends, second
	// one second before the blended 8s stream ends
	for _, want := range []string{
		"xfade=transition=wipeleft:duration=1:offset=4",
		"xfade=transition=wipeleft:duration=1:offset=7",
		"acrossfade=d=1",
		"-map [vout]",
		"-map [aout]",
		"out.mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q:\n%s", want, joined)
		}
	}
}

func TestPlanTransitionsDefaults(t *testing.T) {
	args, err := planTransitions([]transitionInput{
		withAudio("a.mp4", 5),
		withAudio("b.mp4", 5),
	}, "", 0, "out.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.Join(args, " "), "xfade=transition=fade:duration=1:offset=4") {
		t.Errorf("defaults not applied:\n%v", args)
	}
}

func TestPlanTransitionsSynthesizesSilentTracks(t *testing.T) {
	args, err := planTransitions([]transitionInput{
		withAudio("a.mp4", 5),
		{Path: "still.mp4", Duration: 4, HasAudio: false},
		withAudio("c.mp4", 6),
	}, "fade", 1, "out.mp4")
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
	// three real inputs, so the lavfi input lands at index 3 and the
	// middle clip's audio chain consumes it
	if !strings.Contains(joined, "[3:a]aresample") {
		t.Errorf("silent pad should feed the audio-less clip:\n%s", joined)
	}
	if strings.Contains(joined, "[1:a]") {
		t.Errorf("graph must not reference the missing audio stream:\n%s", joined)
	}
}

func TestPlanTransitionsRejectsShortClips(t *testing.T) {
	_, err := planTransitions([]transitionInput{
		withAudio("a.mp4", 5),
		withAudio("b.mp4", 0.5),
		withAudio("c.mp4", 6),
	}, "fade", 1, "out.mp4")
	if err == nil {
		t.Error("a clip shorter than the transition should be rejected")
	}
}
