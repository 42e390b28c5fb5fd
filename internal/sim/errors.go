package sim

import "errors"

var (
	ErrClosed  = errors.New("sim: controller closed")
	ErrRunning = errors.New("sim: simulation already started")
	ErrNotIdle = errors.New("sim: scenario can only change while idle")
)
