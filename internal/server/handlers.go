package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/render"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
)

type StatusResponse struct {
	sim.Status
	Diagnostics []string `json:"diagnostics"`
}

// ControlRequest drives the controller. Speed is read for the "speed"
// action only.
type ControlRequest struct {
	Action string  `json:"action"`
	Speed  float64 `json:"speed,omitempty"`
}

var ErrUnknownAction = errors.New("server: unknown action")

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// statusCode maps controller errors onto HTTP.
func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrLoopStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, sim.ErrRunning), errors.Is(err, sim.ErrNotIdle):
		return http.StatusConflict
	case errors.Is(err, sim.ErrClosed):
		return http.StatusGone
	case errors.Is(err, ErrUnknownAction):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) status() (StatusResponse, error) {
	var resp StatusResponse
	err := s.do(func() { resp.Status = s.ctrl.Snapshot() })
	all := s.diags.All()
	resp.Diagnostics = make([]string, len(all))
	for i, d := range all {
		resp.Diagnostics[i] = d.Error()
	}
	return resp, err
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.status()
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	var (
		t  sim.Telemetry
		ok bool
	)
	if err := s.do(func() { t, ok = s.ctrl.Telemetry() }); err != nil {
		writeError(w, statusCode(err), err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no primary object"))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScenarioBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	sc, err := scenario.Parse(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var setErr error
	if err := s.do(func() { setErr = s.ctrl.SetScenario(sc) }); err != nil {
		writeError(w, statusCode(err), err)
		return
	}
	if setErr != nil {
		writeError(w, statusCode(setErr), setErr)
		return
	}
	issues := make([]string, len(sc.Issues))
	for i, e := range sc.Issues {
		issues[i] = e.Error()
	}
	s.log.Printf("[server] scenario loaded: %d objects, %d issues", len(sc.Objects), len(issues))
	writeJSON(w, http.StatusOK, map[string]any{
		"objects":      len(sc.Objects),
		"environments": len(sc.Environments),
		"issues":       issues,
	})
}

func (s *Server) control(req ControlRequest) error {
	var err error
	ok := s.loop.Do(func() {
		c := s.ctrl
		switch req.Action {
		case "start":
			s.diags.Reset()
			err = c.Start()
		case "pause":
			c.Pause()
		case "resume":
			c.Resume()
		case "reset":
			c.Reset()
		case "speed":
			c.SetSpeed(req.Speed)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
		}
	})
	if !ok {
		return ErrLoopStopped
	}
	return err
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var req ControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.control(req); err != nil {
		writeError(w, statusCode(err), err)
		return
	}
	s.handleStatus(w, r)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	var out string
	err := s.do(func() {
		st := s.ctrl.Snapshot()
		svg := render.NewSVG(st.Width, st.Height)
		s.ctrl.Draw(svg)
		out = svg.String()
	})
	if err != nil {
		writeError(w, statusCode(err), err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = io.WriteString(w, out)
}
