package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// PhaseProjection selects two coordinates of a phase sample.
type PhaseProjection func(dynamo.PhaseSample) Point

var (
	Pendulum1 PhaseProjection = func(s dynamo.PhaseSample) Point { return Point{s.Theta1, s.Omega1} }
	Pendulum2 PhaseProjection = func(s dynamo.PhaseSample) Point { return Point{s.Theta2, s.Omega2} }
	Angles    PhaseProjection = func(s dynamo.PhaseSample) Point { return Point{s.Theta1, s.Theta2} }
)

// PhasePortrait projects a history onto a plane.
func PhasePortrait(samples []dynamo.PhaseSample, proj PhaseProjection) []Point {
	points := make([]Point, len(samples))
	for i, s := range samples {
		points[i] = proj(s)
	}
	return points
}

// PoincareSection returns (θ2, ω2) each time θ1 crosses zero going up,
// linearly interpolated to the crossing. Jumps across the ±π seam are
// wrap-arounds, not crossings, and are skipped.
func PoincareSection(samples []dynamo.PhaseSample) []Point {
	var points []Point
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if !(prev.Theta1 < 0 && cur.Theta1 >= 0) || cur.Theta1-prev.Theta1 >= math.Pi {
			continue
		}

		frac := -prev.Theta1 / (cur.Theta1 - prev.Theta1)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}

		theta2 := dynamo.NormalizeAngle(prev.Theta2 + frac*dynamo.NormalizeAngle(cur.Theta2-prev.Theta2))
		omega2 := prev.Omega2 + frac*(cur.Omega2-prev.Omega2)
		points = append(points, Point{theta2, omega2})
	}
	return points
}

// PhasePortraitToASCII plots points on a width×height character canvas
// with 10% padding and draws the axes when they are in view.
func PhasePortraitToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	minX, maxX := padRange(floats.Min(xs), floats.Max(xs))
	minY, maxY := padRange(floats.Min(ys), floats.Max(ys))
	rangeX := maxX - minX
	rangeY := maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
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

func padRange(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - 0.1*span, hi + 0.1*span
}
