package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/integrators"
	"github.com/shallvtalk/chaospendulum/internal/physics"
)

// BifurcationPoint holds the distinct section values seen for one
// parameter value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// Sweep describes a one-parameter bifurcation run.
type Sweep struct {
	Param      string // m1, m2, l1, l2, g or damping
	Min, Max   float64
	Steps      int
	Dt         float64
	Transient  int // steps discarded before recording
	Record     int // steps recorded per parameter value
	Resolution float64
}

// BifurcationDiagram sweeps one named parameter and, for each value,
// records the θ2 values at the Poincaré crossings of θ1 after the
// transient. Values closer than Resolution are merged.
func BifurcationDiagram(s integrators.Strategy, base dynamo.Params, x0 dynamo.State, sw Sweep) ([]BifurcationPoint, error) {
	steps := max(sw.Steps, 2)
	resolution := sw.Resolution
	if resolution <= 0 {
		resolution = 1e-3
	}
	stride := (sw.Max - sw.Min) / float64(steps-1)

	results := make([]BifurcationPoint, 0, steps)
	for i := 0; i < steps; i++ {
		value := sw.Min + float64(i)*stride
		p, err := physics.WithParam(base, sw.Param, value)
		if err != nil {
			return nil, fmt.Errorf("bifurcation at %s=%g: %w", sw.Param, value, err)
		}

		e := integrators.NewEngine(s, sw.Dt)
		x := x0
		for t := 0; t < sw.Transient; t++ {
			x, _ = e.Step(x, p)
		}

		samples := make([]dynamo.PhaseSample, 0, sw.Record+1)
		samples = append(samples, x.Phase())
		for t := 0; t < sw.Record; t++ {
			x, _ = e.Step(x, p)
			samples = append(samples, x.Phase())
		}

		seen := make(map[int64]bool)
		var values []float64
		for _, pt := range PoincareSection(samples) {
			key := int64(math.Round(pt.X / resolution))
			if !seen[key] {
				seen[key] = true
				values = append(values, pt.X)
			}
		}
		sort.Float64s(values)

		results = append(results, BifurcationPoint{Param: value, Values: values})
	}
	return results, nil
}

// BifurcationToASCII renders one column per parameter value.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
