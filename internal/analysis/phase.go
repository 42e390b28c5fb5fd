package analysis

import (
	"math"
	"strings"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
)

// Series is a value sampled at increasing times.
type Series struct {
	Times  []float64
	Values []float64
}

func series(samples []sim.Telemetry, pick func(sim.Telemetry) float64) Series {
	s := Series{Times: make([]float64, len(samples)), Values: make([]float64, len(samples))}
	for i, t := range samples {
		s.Times[i] = t.ElapsedTime
		s.Values[i] = pick(t)
	}
	return s
}

func Heights(samples []sim.Telemetry) Series {
	return series(samples, func(t sim.Telemetry) float64 { return t.PositionY })
}

func Speeds(samples []sim.Telemetry) Series {
	return series(samples, func(t sim.Telemetry) float64 { return math.Hypot(t.VelocityX, t.VelocityY) })
}

func VerticalVelocities(samples []sim.Telemetry) Series {
	return series(samples, func(t sim.Telemetry) float64 { return t.VelocityY })
}

// PhasePortrait holds height against vertical velocity.
type PhasePortrait struct {
	Points []struct{ X, Y float64 }
}

func NewPhasePortrait(samples []sim.Telemetry) *PhasePortrait {
	p := &PhasePortrait{Points: make([]struct{ X, Y float64 }, 0, len(samples))}
	for _, t := range samples {
		p.Points = append(p.Points, struct{ X, Y float64 }{X: t.PositionY, Y: t.VelocityY})
	}
	return p
}

// ASCII plots the portrait with axes where they cross the visible area.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, q := range p.Points {
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, q := range p.Points {
		col := int((q.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((q.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
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

// PeriodFromCrossings averages the time between upward crossings of the
// series mean, interpolating each crossing linearly.
func PeriodFromCrossings(s Series) (float64, error) {
	if len(s.Values) < 3 || len(s.Times) != len(s.Values) {
		return 0, ErrShortSeries
	}
	mean := 0.0
	for _, v := range s.Values {
		mean += v
	}
	mean /= float64(len(s.Values))

	var crossings []float64
	for i := 1; i < len(s.Values); i++ {
		prev, curr := s.Values[i-1], s.Values[i]
		if prev < mean && curr >= mean {
			frac := (mean - prev) / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			crossings = append(crossings, s.Times[i-1]+frac*(s.Times[i]-s.Times[i-1]))
		}
	}
	if len(crossings) < 2 {
		return 0, ErrShortSeries
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1), nil
}
