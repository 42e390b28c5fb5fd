package sim

import (
	"context"
	"sync"
	"time"
)

// Subscription is the handle returned by every registration. Unsubscribe
// is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Scheduler invokes fn periodically until the subscription is dropped.
// Callbacks must never run concurrently with each other.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Subscription
}

type subscriptionFunc func()

func (f subscriptionFunc) Unsubscribe() { f() }

// ManualScheduler fires callbacks only when Advance is called. It keeps a
// virtual clock and is meant for tests and headless runs.
type ManualScheduler struct {
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	interval time.Duration
	next     time.Duration
	fn       func()
	active   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Every(interval time.Duration, fn func()) Subscription {
	if interval <= 0 {
		interval = time.Millisecond
	}
	t := &manualTask{interval: interval, next: s.now + interval, fn: fn, active: true}
	s.tasks = append(s.tasks, t)
	return subscriptionFunc(func() { t.active = false })
}

// Advance moves the clock forward by d, firing every due callback in time
// order. Callbacks registered during Advance start from the current time.
func (s *ManualScheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		var due *manualTask
		for _, t := range s.tasks {
			if t.active && t.next <= end && (due == nil || t.next < due.next) {
				due = t
			}
		}
		if due == nil {
			break
		}
		s.now = due.next
		due.next += due.interval
		due.fn()
	}
	s.now = end
	s.compact()
}

// Active is the number of live subscriptions.
func (s *ManualScheduler) Active() int {
	n := 0
	for _, t := range s.tasks {
		if t.active {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) Now() time.Duration { return s.now }

func (s *ManualScheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.active {
			live = append(live, t)
		}
	}
	clear(s.tasks[len(live):])
	s.tasks = live
}

// Loop is a real-time scheduler. Tickers run on their own goroutines but
// every callback, and every function passed to Do, executes on the
// goroutine running Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run executes queued callbacks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Do runs fn on the loop goroutine and waits for it. It returns false if
// the loop has stopped.
func (l *Loop) Do(fn func()) bool {
	finished := make(chan struct{})
	select {
	case l.tasks <- func() { fn(); close(finished) }:
	case <-l.done:
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Every must be called from the loop goroutine, typically inside Do or a
// callback. Ticks that arrive while the loop is busy are dropped.
func (l *Loop) Every(interval time.Duration, fn func()) Subscription {
	if interval <= 0 {
		interval = time.Millisecond
	}
	var (
		active = true
		stop   = make(chan struct{})
		once   sync.Once
	)
	tick := func() {
		if active {
			fn()
		}
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				select {
				case l.tasks <- tick:
				default:
				}
			}
		}
	}()
	return subscriptionFunc(func() {
		active = false
		once.Do(func() { close(stop) })
	})
}
