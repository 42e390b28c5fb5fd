package analysis

import (
	"math"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
)

type Summary struct {
	Samples   int     `json:"samples"`
	Duration  float64 `json:"duration"`
	MinX      float64 `json:"min_x"`
	MaxX      float64 `json:"max_x"`
	MinY      float64 `json:"min_y"`
	MaxY      float64 `json:"max_y"`
	MaxSpeed  float64 `json:"max_speed"`
	Distance  float64 `json:"distance"`
	FinalVelX float64 `json:"final_vx"`
	FinalVelY float64 `json:"final_vy"`
}

// Summarize reduces a telemetry run. Distance is the path length.
func Summarize(samples []sim.Telemetry) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	first, last := samples[0], samples[len(samples)-1]
	s := Summary{
		Samples:   len(samples),
		Duration:  last.ElapsedTime - first.ElapsedTime,
		MinX:      first.PositionX,
		MaxX:      first.PositionX,
		MinY:      first.PositionY,
		MaxY:      first.PositionY,
		FinalVelX: last.VelocityX,
		FinalVelY: last.VelocityY,
	}
	for i, t := range samples {
		s.MinX, s.MaxX = math.Min(s.MinX, t.PositionX), math.Max(s.MaxX, t.PositionX)
		s.MinY, s.MaxY = math.Min(s.MinY, t.PositionY), math.Max(s.MaxY, t.PositionY)
		s.MaxSpeed = math.Max(s.MaxSpeed, math.Hypot(t.VelocityX, t.VelocityY))
		if i > 0 {
			p := samples[i-1]
			s.Distance += math.Hypot(t.PositionX-p.PositionX, t.PositionY-p.PositionY)
		}
	}
	return s
}
