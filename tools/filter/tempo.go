package filter

import (
	"fmt"
	"strings"
)

// SetPTS returns the video PTS expression for a playback speed factor
func SetPTS(speed float64) string {
	return fmt.Sprintf("setpts=%s*PTS", formatRatio(1/speed))
}

// TempoChain decomposes a tempo ratio into atempo stages. atempo only
// accepts factors in [0.5, 2.0], so ratios outside that band are built
// from boundary stages plus one remainder stage; the stage product
// equals the requested ratio.
func TempoChain(ratio float64) ([]string, error) {
	if ratio <= 0 {
		return nil, fmt.Errorf("tempo ratio must be positive, got %v", ratio)
	}

	var stages []string
	remaining := ratio

	for remaining > 2.0 {
		stages = append(stages, "atempo=2.0")
		remaining /= 2.0
	}
	for remaining < 0.5 {
		stages = append(stages, "atempo=0.5")
		remaining /= 0.5
	}

	stages = append(stages, "atempo="+formatRatio(remaining))
	return stages, nil
}

// TempoFilter returns the stages joined into one filter chain
func TempoFilter(ratio float64) (string, error) {
	stages, err := TempoChain(ratio)
	if err != nil {
		return "", err
	}
	return strings.Join(stages, ","), nil
}

func formatRatio(v float64) string {
	s := fmt.Sprintf("%.6f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
