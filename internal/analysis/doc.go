// Package analysis characterizes recorded telemetry of a primary object.
//
//   - [Summarize]: extents, peak speed and duration of a run
//   - [DominantFrequency]: strongest oscillation frequency of a series
//   - [PeriodFromCrossings]: oscillation period from mean crossings
//   - [NewPhasePortrait]: position against velocity
//   - [EnergyDrift]: largest relative change of mechanical energy
//
// A damped oscillator run can be checked against its spring constant:
//
//	f, _ := analysis.DominantFrequency(analysis.Heights(samples))
//	omega := 2 * math.Pi * f // close to sqrt(k/m) for light damping
package analysis
