package render

import "github.com/go-gl/mathgl/mgl64"

type OpKind string

const (
	OpLine    OpKind = "line"
	OpPolygon OpKind = "polygon"
	OpRect    OpKind = "rect"
	OpText    OpKind = "text"
)

// Op is one recorded drawing call.
type Op struct {
	Kind   OpKind
	Points []mgl64.Vec2
	Paint  Paint
	Text   string
	Align  Align
}

// Recorder is a Surface that keeps every call since the last Clear.
type Recorder struct {
	Width, Height float64
	Ops           []Op
	Clears        int
}

func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (float64, float64) { return r.Width, r.Height }

func (r *Recorder) Resize(w, h float64) { r.Width, r.Height = w, h }

func (r *Recorder) Clear() {
	r.Ops = r.Ops[:0]
	r.Clears++
}

func (r *Recorder) Line(a, b mgl64.Vec2, color string) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Points: []mgl64.Vec2{a, b}, Paint: Paint{Stroke: color}})
}

func (r *Recorder) Polygon(pts []mgl64.Vec2, p Paint) {
	r.Ops = append(r.Ops, Op{Kind: OpPolygon, Points: append([]mgl64.Vec2(nil), pts...), Paint: p})
}

func (r *Recorder) Rect(min, max mgl64.Vec2, p Paint) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Points: []mgl64.Vec2{min, max}, Paint: p})
}

func (r *Recorder) Text(at mgl64.Vec2, s string, color string, align Align) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Points: []mgl64.Vec2{at}, Paint: Paint{Fill: color}, Text: s, Align: align})
}

// Filter returns the recorded ops of one kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the strings of every text op in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Filter(OpText) {
		out = append(out, op.Text)
	}
	return out
}
