/* handlers.go
 * Contains the HTTP handlers of the web server. Every handler responds with JSON built from view.ViewModel
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"encoding/json"
	"errors"
	"jcup-bot/api/state"
	"jcup-bot/api/view"
	"net/http"

	"go.uber.org/zap"
)

// Healthz reports that the server is up
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetView returns the current view model
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.api.View())
}

// PostStart (re)starts the tournament
func (s *Server) PostStart(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, s.api.Start)
}

// PostNext plays the upcoming round
func (s *Server) PostNext(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, s.api.NextRound)
}

// PostRetry re-issues the failed request
func (s *Server) PostRetry(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, s.api.Retry)
}

// action runs a tournament action and maps its outcome to a status code
// Preconditions: Receives the response writer, request and the action to run
// Postconditions: Writes 200 with the view, 409 if the action was rejected or 502 if the request to the JCup
// service failed
func (s *Server) action(w http.ResponseWriter, r *http.Request, run func(ctx context.Context) (view.ViewModel, error)) {
	vm, err := run(r.Context())
	if err == nil {
		s.writeJSON(w, http.StatusOK, vm)
		return
	}

	status := http.StatusBadGateway
	message := vm.Error
	if errors.Is(err, state.ErrBusy) || errors.Is(err, state.ErrInvalidTransition) || errors.Is(err, state.ErrRetryDisabled) {
		status = http.StatusConflict
		message = err.Error()
	} else {
		s.logger.Warn("tournament action failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	if message == "" {
		message = err.Error()
	}
	s.writeJSON(w, status, ErrorResponse{Error: message, View: &vm})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
