package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// Cue is one subtitle event. Times are centiseconds from the start;
// SRT millisecond precision is truncated, matching what the ASS format
// can carry.
type Cue struct {
	Start int
	End   int
	Text  string // lines joined with \N
}

var timestampLine = regexp.MustCompile(
	`^(\d{2}):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{1,3})`)

// ParseSRT parses SubRip text into cues. Blocks are separated by blank
// lines; a block needs an index line, a timestamp line and at least one
// text line. Malformed blocks are dropped and parsing continues, so one
// broken cue never sinks the whole file.
func ParseSRT(content string) []Cue {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")

	var cues []Cue
	for _, block := range strings.Split(content, "\n\n") {
		lines := splitNonEmptyEdges(block)
		if len(lines) < 3 {
			continue
		}

		m := timestampLine.FindStringSubmatch(lines[1])
		if m == nil {
			continue
		}

		start := toCentiseconds(m[1], m[2], m[3], m[4])
		end := toCentiseconds(m[5], m[6], m[7], m[8])

		cues = append(cues, Cue{
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], `\N`),
		})
	}

	return cues
}

// splitNonEmptyEdges splits a block into lines, trimming leading and
// trailing empty lines but keeping interior ones.
func splitNonEmptyEdges(block string) []string {
	lines := strings.Split(block, "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	return lines[start:end]
}

func toCentiseconds(hh, mm, ss, ms string) int {
	h := atoi(hh)
	m := atoi(mm)
	s := atoi(ss)

	// "5" means 500ms, "05" 50ms, "005" 5ms
	for len(ms) < 3 {
		ms += "0"
	}
	millis := atoi(ms)

	return ((h*3600+m*60+s)*1000 + millis) / 10
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// FormatASSTime renders centiseconds as the H:MM:SS.CC event time
func FormatASSTime(cs int) string {
	h := cs / 360000
	cs %= 360000
	m := cs / 6000
	cs %= 6000
	s := cs / 100
	cc := cs % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cc)
}
