// Package server exposes a running scene over HTTP and streams telemetry
// to websocket clients.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/diag"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
)

const (
	DefaultAddr          = ":8080"
	DefaultTelemetryRate = 20.0
	maxScenarioBytes     = 1 << 20
	shutdownTimeout      = time.Second
)

var ErrLoopStopped = errors.New("server: simulation loop stopped")

type Config struct {
	Addr string
	// TelemetryRate caps messages per second per websocket client.
	TelemetryRate float64
	Sim           sim.Options
	Logger        *log.Logger
}

// Server owns one controller. Every controller call runs on the loop
// goroutine.
type Server struct {
	cfg      Config
	log      *log.Logger
	loop     *sim.Loop
	ctrl     *sim.Controller
	diags    *diag.Collector
	router   *chi.Mux
	upgrader websocket.Upgrader
	hub      *hub
}

func New(sc *scenario.Scenario, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.TelemetryRate <= 0 {
		cfg.TelemetryRate = DefaultTelemetryRate
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		cfg:   cfg,
		log:   cfg.Logger,
		loop:  sim.NewLoop(),
		diags: diag.NewCollector(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.hub = newHub(cfg.TelemetryRate)

	so := cfg.Sim
	so.Scheduler = s.loop
	so.Sink = diag.Multi(s.diags, diag.NewLogger(s.log), so.Sink)
	s.ctrl = sim.New(sc, so)
	s.ctrl.Subscribe(s.hub.broadcast)

	s.router = chi.NewRouter()
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(recoverer(s.log))
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/telemetry", s.handleTelemetry)
	r.Post("/api/scenario", s.handleScenario)
	r.Post("/api/control", s.handleControl)
	r.Get("/api/frame.svg", s.handleFrame)
	r.Get("/ws", s.handleWS)
}

// Router returns the handler, useful for tests.
func (s *Server) Router() http.Handler { return s.router }

// Loop runs the controller until ctx is done. Handlers block until it is
// running.
func (s *Server) Loop(ctx context.Context) error {
	err := s.loop.Run(ctx)
	s.ctrl.Cleanup()
	s.hub.closeAll()
	return err
}

// do runs fn on the loop goroutine.
func (s *Server) do(fn func()) error {
	if !s.loop.Do(fn) {
		return ErrLoopStopped
	}
	return nil
}

// Replace swaps the scenario. A running scene restarts with the new one.
func (s *Server) Replace(sc *scenario.Scenario) error {
	var err error
	ok := s.loop.Do(func() {
		st := s.ctrl.State()
		restart := st == sim.Running || st == sim.Paused
		s.ctrl.Reset()
		if err = s.ctrl.SetScenario(sc); err == nil && restart {
			s.diags.Reset()
			err = s.ctrl.Start()
		}
	})
	if !ok {
		return ErrLoopStopped
	}
	return err
}

// ListenAndServe serves HTTP and runs the loop until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)
	go func() { loopErr <- s.Loop(ctx) }()

	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.router}
	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.log.Printf("[server] shutdown: %v", err)
		}
	}()

	s.log.Printf("[server] listening on %s", s.cfg.Addr)
	err := srv.ListenAndServe()
	cancel()
	<-loopErr
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func recoverer(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					l.Printf("[server] panic on %s %s: %v", r.Method, r.URL.Path, v)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
