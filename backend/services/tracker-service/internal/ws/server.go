package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ksebtracker/backend/services/tracker-service/internal/http/middleware"
)

// Server upgrades HTTP connections to WebSockets for live updates.
type Server struct {
	hub          *Hub
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(hub *Hub, writeTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		hub:          hub,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is HTTP handler for the /live/ws endpoint. It expects the auth middleware to
// have placed the user ID on the request context.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	var connection *Connection
	connection = NewConnection(userID, conn, s.writeTimeout, s.logger, func() {
		s.hub.Remove(userID, connection)
		cancel()
	})
	s.hub.Add(userID, connection)

	go connection.Start(ctx)
	s.logger.Info("live client connected", zap.Int64("user_id", userID))
}
