// Package oscillator drives registered bodies with a damped spring force
// toward a vertical equilibrium, once per physics step.
package oscillator

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
)

// Record is the oscillator state of one object. EquilibriumY is a canvas Y.
type Record struct {
	ID           string
	Body         engine.Body
	Mass         float64
	Stiffness    float64
	Damping      float64
	EquilibriumY float64
}

// Registry holds oscillator records keyed by object id. It is owned by a
// single controller and is not safe for concurrent use.
type Registry struct {
	records []Record
	index   map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds or replaces the record for r.ID.
func (r *Registry) Register(rec Record) {
	if i, ok := r.index[rec.ID]; ok {
		r.records[i] = rec
		return
	}
	r.index[rec.ID] = len(r.records)
	r.records = append(r.records, rec)
}

func (r *Registry) Get(id string) (Record, bool) {
	i, ok := r.index[id]
	if !ok {
		return Record{}, false
	}
	return r.records[i], true
}

func (r *Registry) Len() int {
	return len(r.records)
}

func (r *Registry) Clear() {
	r.records = r.records[:0]
	clear(r.index)
}

// Force returns the vertical force on a body at y moving at vy.
//
//	displacement = y - eqY
//	force        = -k*displacement - c*vy
func Force(rec Record, y, vy float64) float64 {
	displacement := y - rec.EquilibriumY
	return -rec.Stiffness*displacement - rec.Damping*vy
}

// Step accelerates every registered body by F/m, using the record mass
// for the law and the body mass for the applied force. It is meant to be
// installed as an engine step hook.
func (r *Registry) Step(float64) {
	for _, rec := range r.records {
		if rec.Body == nil || rec.Mass <= 0 {
			continue
		}
		pos := rec.Body.Position()
		vel := rec.Body.Velocity()
		acc := Force(rec, pos.Y(), vel.Y()) / rec.Mass
		m := rec.Body.Mass()
		if m <= 0 {
			m = rec.Mass
		}
		rec.Body.ApplyForce(mgl64.Vec2{0, acc * m})
	}
}
