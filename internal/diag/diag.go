// Package diag carries non-fatal diagnostics raised while a scenario is
// compiled into a simulation.
//
// Scenario content is never allowed to fail a run. Builders and appliers
// report what they skipped through a [Sink] and continue:
//
//   - [Logger]: writes each diagnostic through a stdlib *log.Logger
//   - [Collector]: keeps diagnostics in memory for status reporting and tests
//   - [Multi]: fans a diagnostic out to several sinks
package diag

import (
	"fmt"
	"log"
	"sync"
)

// Diagnostic describes one piece of scenario content that was skipped or
// degraded.
type Diagnostic struct {
	Component string
	Subject   string
	Err       error
}

func (d Diagnostic) Error() string {
	if d.Subject == "" {
		return fmt.Sprintf("%s: %v", d.Component, d.Err)
	}
	return fmt.Sprintf("%s: %s: %v", d.Component, d.Subject, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

type Sink interface {
	Report(d Diagnostic)
}

// Discard drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

type Logger struct {
	l *log.Logger
}

func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{l: l}
}

func (lg *Logger) Report(d Diagnostic) {
	if d.Subject == "" {
		lg.l.Printf("[%s] %v", d.Component, d.Err)
		return
	}
	lg.l.Printf("[%s] %s: %v", d.Component, d.Subject, d.Err)
}

type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// All returns a copy of the collected diagnostics in report order.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collector) Reset() {
	c.mu.Lock()
	c.items = c.items[:0]
	c.mu.Unlock()
}

type multi []Sink

func (m multi) Report(d Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}

func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Reporter binds a component name to a sink.
type Reporter struct {
	Component string
	Sink      Sink
}

func (r Reporter) Report(subject string, err error) {
	if r.Sink == nil {
		return
	}
	r.Sink.Report(Diagnostic{Component: r.Component, Subject: subject, Err: err})
}

func (r Reporter) Reportf(subject string, format string, args ...any) {
	r.Report(subject, fmt.Errorf(format, args...))
}
