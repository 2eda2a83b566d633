// Package web exposes the combat engine over HTTP: a JSON API for session
// and unit management, attack resolution, and phase control, plus a
// websocket stream of session events. It is a host-integration surface, not
// a rendering layer.
package web

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Zycke/star-mercs/internal/config"
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/hexgrid"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/session"
	"github.com/Zycke/star-mercs/internal/game/trait"
)

// hosted pairs a combat session with the hub its events fan out through.
type hosted struct {
	sess *session.Session
	hub  *Hub
}

// Server owns the hosted combat sessions and their HTTP surface.
// All methods are safe for concurrent use.
type Server struct {
	log    *zap.Logger
	game   config.GameConfig
	rules  *rules.Config
	traits *trait.Registry
	src    dice.Source

	mu       sync.RWMutex
	sessions map[string]*hosted
}

// NewServer creates a Server.
//
// Precondition: cfg and logger must be non-nil; src must be non-nil.
func NewServer(game config.GameConfig, cfg *rules.Config, src dice.Source, logger *zap.Logger) *Server {
	return &Server{
		log:      logger,
		game:     game,
		rules:    cfg,
		src:      src,
		sessions: make(map[string]*hosted),
	}
}

// SetTraitRegistry attaches the trait metadata registry served by the
// /api/traits endpoint. Without one the endpoint returns an empty list.
func (s *Server) SetTraitRegistry(r *trait.Registry) {
	s.traits = r
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/traits", s.handleListTraits).Methods("GET")
	api.HandleFunc("/orders", s.handleListOrders).Methods("GET")
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/units", s.handleAddUnit).Methods("POST")
	api.HandleFunc("/sessions/{id}/orders", s.handleSetOrder).Methods("POST")
	api.HandleFunc("/sessions/{id}/assault", s.handleDeclareAssault).Methods("POST")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/attack", s.handleAttack).Methods("POST")
	api.HandleFunc("/sessions/{id}/volley", s.handleVolley).Methods("POST")
	api.HandleFunc("/sessions/{id}/phase/next", s.handleNextPhase).Methods("POST")
	api.HandleFunc("/sessions/{id}/phase/previous", s.handlePreviousPhase).Methods("POST")
	api.HandleFunc("/sessions/{id}/checks/skill", s.handleSkillCheck).Methods("POST")
	api.HandleFunc("/sessions/{id}/checks/opposed", s.handleOpposedCheck).Methods("POST")

	r.HandleFunc("/ws/{id}", s.handleWS)
	return r
}

// CreateSession starts a new hosted combat session.
//
// Postcondition: Returns the session ID, or an error when the session cap
// is reached.
func (s *Server) CreateSession() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.game.MaxSessions {
		return "", fmt.Errorf("session limit of %d reached", s.game.MaxSessions)
	}

	id := uuid.NewString()
	hub := NewHub(s.game.EventBufferSize)
	h := &hosted{
		sess: session.New(s.rules, hexgrid.NewMap(), s.src, s.log.Named("session"), hub),
		hub:  hub,
	}
	s.sessions[id] = h
	s.log.Info("session created", zap.String("session", id))
	return id, nil
}

// DeleteSession tears down a hosted session and closes its event feeds.
//
// Postcondition: Returns an error if the ID is unknown.
func (s *Server) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session %q not found", id)
	}
	h.hub.Close()
	delete(s.sessions, id)
	s.log.Info("session deleted", zap.String("session", id))
	return nil
}

// Session returns the hosted session with the given ID.
func (s *Server) Session(id string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return h.sess, true
}

func (s *Server) hosted(id string) (*hosted, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.sessions[id]
	return h, ok
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
