/* models.go
 * Contains the config, server and response types of the web package
 * Authors: Zachary Bower
 */

package web

import (
	"fmt"
	"jcup-bot/api/api"
	"jcup-bot/api/view"

	"go.uber.org/zap"
)

// Config holds the configuration for the web server
type Config struct {
	Addr   string
	API    *api.API
	Logger *zap.Logger
}

// Server exposes the tournament over HTTP
type Server struct {
	api    *api.API
	logger *zap.Logger
}

// ErrorResponse is returned when an action is rejected or fails. View is the state the tournament was left in
type ErrorResponse struct {
	Error string          `json:"error"`
	View  *view.ViewModel `json:"view,omitempty"`
}

// NewServer creates a Server from cfg
// Preconditions: Receives Config with a non nil API
// Postconditions: Returns pointer to Server, or an error if the API is missing
func NewServer(cfg Config) (*Server, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("api is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{api: cfg.API, logger: logger}, nil
}
