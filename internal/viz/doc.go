// Package viz is the terminal host for a running scene.
//
// [Model] owns a [sim.Controller] driven by a manual scheduler that is
// advanced on every bubbletea tick, and draws frames onto a braille
// surface next to a telemetry panel. [Picker] lists the built-in presets.
//
// # Key Bindings
//
//	s     - Start the scene
//	Space - Pause/Resume (starts when idle)
//	R     - Reset to an empty world
//	+/-   - Change time scale
//	T     - Cycle color themes
//	?     - Show help
//	Q     - Quit
package viz
