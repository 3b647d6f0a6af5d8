package engine

import (
	"strings"
	"testing"

	"gitlab.com/mediafxuz/media-fx/models"
)

func TestPlanMixShortestPlacesFadeAgainstEffectiveDuration(t *testing.T) {
	p := &models.MixParams{
		MatchLength:     "shortest",
		EnableFadeOut:   true,
		FadeOutDuration: 2,
	}

	// primary 10s, secondary 6s: shortest effective length is 6s, so
	// the fade-out starts at 4s regardless of the primary
	plan, err := planMixGraph(p, 10, 6)
	if err != nil {
		t.Fatal(err)
	}

	graph := plan.graph.String()
	if !strings.Contains(graph, "afade=t=out:st=4:d=2") {
		t.Errorf("fade-out not placed against the 6s track:\n%s", graph)
	}
	if !strings.Contains(graph, "duration=shortest") {
		t.Errorf("amix mode missing:\n%s", graph)
	}
	if !plan.copyVideo || plan.videoMap != "0:v" {
		t.Errorf("shortest mode should pass video through: %+v", plan)
	}
}

func TestPlanMixDefaultsToLongest(t *testing.T) {
	plan, err := planMixGraph(&models.MixParams{}, 10, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plan.graph.String(), "duration=longest") {
		t.Errorf("empty match length should mean longest:\n%s", plan.graph.String())
	}
}

func TestPlanMixPartial(t *testing.T) {
	p := &models.MixParams{
		EnablePartialMix: true,
		StartTime:        3,
		Duration:         5,
		Loop:             true,
		EnableFadeIn:     true,
		FadeInDuration:   1,
		AudioVolume:      0.5,
	}

	plan, err := planMixGraph(p, 30, 2)
	if err != nil {
		t.Fatal(err)
	}
	graph := plan.graph.String()

	for _, want := range []string{
		"aloop=loop=-1", // 2s source must loop to fill the 5s window
		"atrim=0:5",
		"asetpts=PTS-STARTPTS",
		"afade=t=in:st=0:d=1",
		"volume=0.5",
		"adelay=3000|3000",
		"duration=first:dropout_transition=0",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("partial mix graph missing %q:\n%s", want, graph)
		}
	}
}

func TestPlanMixPartialWithoutDurationUsesSecondaryLength(t *testing.T) {
	p := &models.MixParams{EnablePartialMix: true}
	plan, err := planMixGraph(p, 30, 7.5)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plan.graph.String(), "atrim=0:7.5") {
		t.Errorf("window should default to the secondary's length:\n%s", plan.graph.String())
	}
}

func TestPlanMixMatchAudio(t *testing.T) {
	plan, err := planMixGraph(&models.MixParams{MatchLength: "audio"}, 5, 9)
	if err != nil {
		t.Fatal(err)
	}

	if !plan.loopPrimary {
		t.Error("a 5s video must loop to cover 9s of audio")
	}
	if plan.copyVideo || plan.videoMap != "[vout]" {
		t.Errorf("match-audio must re-encode the adjusted video: %+v", plan)
	}

	graph := plan.graph.String()
	for _, want := range []string{"trim=0:9", "setpts=PTS-STARTPTS", "duration=first"} {
		if !strings.Contains(graph, want) {
			t.Errorf("graph missing %q:\n%s", want, graph)
		}
	}
}

func TestPlanMixMatchAudioNoLoopWhenPrimaryLonger(t *testing.T) {
	plan, err := planMixGraph(&models.MixParams{MatchLength: "audio"}, 20, 9)
	if err != nil {
		t.Fatal(err)
	}
	if plan.loopPrimary {
		t.Error("a 20s video should be cut, not looped, for 9s of audio")
	}
}

func TestPlanMixAudioSpeed(t *testing.T) {
	plan, err := planMixGraph(&models.MixParams{MatchLength: "audio-speed"}, 10, 5)
	if err != nil {
		t.Fatal(err)
	}

	graph := plan.graph.String()
	for _, want := range []string{
		"setpts=PTS/2", // 10s video compressed to 5s
		"atempo=2",
		"apad",
		"atrim=0:5",
		"duration=first",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("audio-speed graph missing %q:\n%s", want, graph)
		}
	}
	if plan.copyVideo {
		t.Error("audio-speed must re-encode the retimed video")
	}
}

func TestPlanMixFadeDurationDefaultsToOneSecond(t *testing.T) {
	p := &models.MixParams{
		MatchLength:   "first",
		EnableFadeIn:  true,
		EnableFadeOut: true,
	}

	plan, err := planMixGraph(p, 10, 6)
	if err != nil {
		t.Fatal(err)
	}

	graph := plan.graph.String()
	if !strings.Contains(graph, "afade=t=in:st=0:d=1") {
		t.Errorf("enabled fade-in without a duration should default to 1s:\n%s", graph)
	}
	if !strings.Contains(graph, "afade=t=out:st=9:d=1") {
		t.Errorf("enabled fade-out without a duration should default to 1s:\n%s", graph)
	}
}

func TestPlanMixRejectsUnknownMode(t *testing.T) {
	if _, err := planMixGraph(&models.MixParams{MatchLength: "sideways"}, 10, 5); err == nil {
		t.Error("unknown match length accepted")
	}
}

func TestPlanMixGraphsValidate(t *testing.T) {
	cases := []*models.MixParams{
		{MatchLength: "shortest"},
		{MatchLength: "longest", EnableFadeIn: true, FadeInDuration: 1},
		{MatchLength: "first"},
		{MatchLength: "audio"},
		{MatchLength: "audio-speed"},
		{EnablePartialMix: true, StartTime: 2, Duration: 3},
	}

	for _, p := range cases {
		plan, err := planMixGraph(p, 12, 8)
		if err != nil {
			t.Errorf("%+v: %v", p, err)
			continue
		}
		if err := plan.graph.Validate(); err != nil {
			t.Errorf("%+v: graph invalid: %v", p, err)
		}
	}
}
