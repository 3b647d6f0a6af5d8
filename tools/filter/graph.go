package filter

import (
	"fmt"
	"strings"
)

// Stage is one node of a filter_complex graph: labeled input pads, the
// filter expression, labeled output pads.
type Stage struct {
	Inputs  []string
	Filter  string
	Outputs []string
}

// Graph accumulates stages and serializes them to filter_complex syntax.
// Pads follow the produce-once, consume-once discipline: every internal
// pad must be produced by exactly one stage and consumed by at most one
// later stage. Source pads (stream specifiers like "0:v", "1:a") are
// produced by the demuxer and may only be consumed.
type Graph struct {
	stages []Stage
}

// NewGraph ...
func NewGraph() *Graph {
	return &Graph{}
}

// Add appends a stage. Use nil inputs for source filters and nil outputs
// for a terminal stage.
func (g *Graph) Add(inputs []string, filter string, outputs ...string) *Graph {
	g.stages = append(g.stages, Stage{Inputs: inputs, Filter: filter, Outputs: outputs})
	return g
}

// Chain appends a single-input single-output stage
func (g *Graph) Chain(input, filter, output string) *Graph {
	return g.Add([]string{input}, filter, output)
}

// Validate checks the pad discipline. It reports pads consumed before
// being produced, pads produced twice and pads consumed twice.
func (g *Graph) Validate() error {
	produced := map[string]bool{}
	consumed := map[string]bool{}

	for _, st := range g.stages {
		for _, in := range st.Inputs {
			if consumed[in] {
				return fmt.Errorf("pad [%s] consumed more than once", in)
			}
			if !produced[in] && !isSourcePad(in) {
				return fmt.Errorf("pad [%s] consumed before being produced", in)
			}
			consumed[in] = true
		}
		for _, out := range st.Outputs {
			if produced[out] || isSourcePad(out) {
				return fmt.Errorf("pad [%s] produced more than once", out)
			}
			produced[out] = true
		}
	}

	return nil
}

// String serializes the graph for -filter_complex
func (g *Graph) String() string {
	parts := make([]string, 0, len(g.stages))
	for _, st := range g.stages {
		var b strings.Builder
		for _, in := range st.Inputs {
			b.WriteString("[" + in + "]")
		}
		b.WriteString(st.Filter)
		for _, out := range st.Outputs {
			b.WriteString("[" + out + "]")
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ";")
}

// isSourcePad matches demuxer stream specifiers like "0:v", "1:a" or
// "2:a:0" that originate outside the graph.
func isSourcePad(pad string) bool {
	i := strings.IndexByte(pad, ':')
	if i <= 0 {
		return false
	}
	for _, r := range pad[:i] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
