// Package overlay draws force arrows, force labels, an info panel and mass
// labels over a rendered frame.
package overlay

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/render"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
)

const (
	ArrowScale  = 2.0
	MinArrow    = 20.0
	MaxArrow    = 100.0
	HeadLength  = 8.0
	HeadAngle   = math.Pi / 7
	LabelOffset = 12.0

	PanelX       = 10.0
	PanelY       = 10.0
	PanelWidth   = 240.0
	PanelPadding = 8.0
	LineHeight   = 16.0

	KindApplied = "applied"
)

// SourceColors holds the fixed arrow color per force source.
var SourceColors = map[string]string{
	"gravity":  "#ef4444",
	"tension":  "#3b82f6",
	"normal":   "#22c55e",
	"friction": "#f59e0b",
	"applied":  "#a855f7",
}

const (
	DefaultColor = "#e5e7eb"
	PanelFill    = "#111827"
	PanelStroke  = "#374151"
	TextColor    = "#f9fafb"
)

// Bodies resolves object ids to placed bodies.
type Bodies interface {
	Body(id string) (engine.Body, bool)
}

// Overlay is built once per run from the scenario and drawn every frame.
type Overlay struct {
	ids    []string
	forces map[string][]scenario.Force
	masses map[string]float64
}

// New groups forces by the object they are applied to. Every object gets
// an entry, empty when no force targets it. Forces naming unknown objects
// are kept so the panel still lists them.
func New(objects []scenario.Object, forces []scenario.Force) *Overlay {
	o := &Overlay{
		forces: make(map[string][]scenario.Force, len(objects)),
		masses: make(map[string]float64),
	}
	for _, obj := range objects {
		if _, ok := o.forces[obj.ID]; !ok {
			o.ids = append(o.ids, obj.ID)
			o.forces[obj.ID] = []scenario.Force{}
		}
		if m, ok := obj.BodyMass(); ok {
			o.masses[obj.ID] = m
		}
	}
	for _, f := range forces {
		if _, ok := o.forces[f.AppliedTo]; !ok {
			o.ids = append(o.ids, f.AppliedTo)
		}
		o.forces[f.AppliedTo] = append(o.forces[f.AppliedTo], f)
	}
	return o
}

// Forces returns the forces applied to id.
func (o *Overlay) Forces(id string) []scenario.Force {
	return o.forces[id]
}

// Count is the total number of forces across all objects.
func (o *Overlay) Count() int {
	n := 0
	for _, fs := range o.forces {
		n += len(fs)
	}
	return n
}

// ArrowLength maps a force magnitude to a clamped arrow length in pixels.
func ArrowLength(magnitude float64) float64 {
	return mgl64.Clamp(math.Abs(magnitude)*ArrowScale, MinArrow, MaxArrow)
}

// Color returns the arrow color for a force source.
func Color(source string) string {
	if c, ok := SourceColors[source]; ok {
		return c
	}
	return DefaultColor
}

// Draw renders arrows, the info panel and mass labels.
func (o *Overlay) Draw(s render.Surface, bodies Bodies) {
	for _, id := range o.ids {
		body, ok := bodies.Body(id)
		if !ok {
			continue
		}
		for _, f := range o.forces[id] {
			if f.Kind == KindApplied {
				arrow(s, body, f)
			}
		}
	}
	o.panel(s)
	for _, id := range o.ids {
		m, ok := o.masses[id]
		if !ok {
			continue
		}
		if body, ok := bodies.Body(id); ok {
			s.Text(body.Position(), fmt.Sprintf("%g kg", m), TextColor, render.AlignCenter)
		}
	}
}

// arrow draws from the body edge along the force direction.
func arrow(s render.Surface, body engine.Body, f scenario.Force) {
	unit, ok := f.Unit()
	if !ok {
		return
	}
	dir := mgl64.Vec2{unit.X(), -unit.Y()}
	lo, hi := body.Bounds()
	half := hi.Sub(lo).Mul(0.5)
	start := body.Position().Add(mgl64.Vec2{dir.X() * half.X(), dir.Y() * half.Y()})
	tip := start.Add(dir.Mul(ArrowLength(f.Magnitude)))
	color := Color(f.Source)

	s.Line(start, tip, color)
	back := dir.Mul(-HeadLength)
	for _, a := range []float64{HeadAngle, -HeadAngle} {
		s.Line(tip, tip.Add(mgl64.Rotate2D(a).Mul2x1(back)), color)
	}
	s.Text(tip.Add(dir.Mul(LabelOffset)), fmt.Sprintf("%.1f N", f.Magnitude), color, render.AlignCenter)
}

// PanelHeight is the info panel height for a number of listed objects and
// forces.
func PanelHeight(objects, forces int) float64 {
	return 2*PanelPadding + float64(objects+forces)*LineHeight
}

func (o *Overlay) panel(s render.Surface) {
	objects, forces := 0, 0
	for _, id := range o.ids {
		if n := len(o.forces[id]); n > 0 {
			objects++
			forces += n
		}
	}
	if forces == 0 {
		return
	}
	min := mgl64.Vec2{PanelX, PanelY}
	s.Rect(min, min.Add(mgl64.Vec2{PanelWidth, PanelHeight(objects, forces)}), render.Paint{Fill: PanelFill, Stroke: PanelStroke, Width: 1})

	y := PanelY + PanelPadding + LineHeight*0.75
	line := func(text, color string) {
		s.Text(mgl64.Vec2{PanelX + PanelPadding, y}, text, color, render.AlignLeft)
		y += LineHeight
	}
	for _, id := range o.ids {
		fs := o.forces[id]
		if len(fs) == 0 {
			continue
		}
		line(id+":", TextColor)
		for _, f := range fs {
			line(fmt.Sprintf("  %s: %.1f N %s", f.Source, f.Magnitude, f.Direction), Color(f.Source))
		}
	}
}
