// Package sim owns a running scenario: it builds the world from a scenario,
// drives the step and frame callbacks through a Scheduler, and emits
// telemetry for one primary object.
//
// Lifecycle:
//
//	Idle --Start--> Running <--Pause/Resume--> Paused
//	Running|Paused --Reset--> Idle
//	any --Cleanup--> Closed
//
// A Controller is not safe for concurrent use. With a real-time Loop, call
// it only from inside Loop.Do or a scheduled callback.
package sim
