// Package api exposes the mirrored workspace model to out-of-process
// consumers (status bars, switcher widgets) over HTTP and websockets.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/wsmirror/wsmirror/internal/logger"
	"github.com/wsmirror/wsmirror/internal/mirror"
)

// WorkspaceFocuser switches the daemon's focused workspace. Satisfied by
// *komorebi.Client.
type WorkspaceFocuser interface {
	FocusWorkspace(ctx context.Context, idx int) error
}

// Server represents the HTTP API server
type Server struct {
	router   *mux.Router
	consumer *mirror.Consumer
	focuser  WorkspaceFocuser
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewServer creates a new API server
func NewServer(consumer *mirror.Consumer, focuser WorkspaceFocuser) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		consumer: consumer,
		focuser:  focuser,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Bars connect from file:// or localhost origins
				return true
			},
		},
		log: logger.WithComponent("api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/workspaces", s.handleGetWorkspaces).Methods("GET")
	api.HandleFunc("/workspaces/stream", s.handleWorkspaceStream)
	api.HandleFunc("/workspaces/{index}/focus", s.handleFocusWorkspace).Methods("POST")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the root handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.log.Info().Str("addr", addr).Msg("starting API server")
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) handleGetWorkspaces(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.consumer.Workspaces())
}

func (s *Server) handleWorkspaceStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates := s.consumer.Subscribe()
	defer s.consumer.Unsubscribe(updates)

	// Send the current model first so the client never renders empty
	if err := conn.WriteJSON(s.consumer.Workspaces()); err != nil {
		s.log.Debug().Err(err).Msg("websocket write failed")
		return
	}

	for workspaces := range updates {
		if err := conn.WriteJSON(workspaces); err != nil {
			s.log.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (s *Server) handleFocusWorkspace(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["index"])
	if err != nil || idx < 0 {
		http.Error(w, "invalid workspace index", http.StatusBadRequest)
		return
	}

	if err := s.focuser.FocusWorkspace(r.Context(), idx); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
