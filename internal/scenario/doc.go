// Package scenario defines the declarative description of a physics
// word-problem scene and decodes it from the solver's output.
//
// A [Scenario] is a set of ordered record lists keyed by category:
//
//	objects       dynamic bodies (circle, polygon, rectangle, trapezoid, fromVertices)
//	environments  static features: ground, incline, cliff, wall
//	motions       initial kinematic state per object
//	interactions  springs and other pairwise couplings
//	forces        annotated forces; applied forces are also driven
//	fields        carried, not simulated
//	materials     carried, not simulated
//
// Environments, motions and interactions are tagged unions. Each record's
// "type" field selects the variant; tags that are not recognized decode to
// an Unknown variant that keeps the tag and the raw record, so callers can
// report it and move on. Decoding never rejects a scenario because one
// record is malformed.
//
// # Input formats
//
// [Parse] accepts JSON or YAML. Solver output wrapped in a markdown code
// fence is unwrapped first. Numeric fields tolerate numbers encoded as
// strings, vectors may be objects ({x, y, z}) or arrays ([x, y, z]), and
// friction may be a plain coefficient or a {static, kinetic} pair.
//
// # Hot reload
//
// [Watch] re-parses a scenario file whenever it is written and hands the
// result to a callback, which is how the CLI rebuilds a running scene.
package scenario
