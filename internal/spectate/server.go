// internal/spectate/server.go
package spectate

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 5 * time.Second

// Server serves the spectator feed of one game at GET /spectate. A client
// authenticates with ?token= or an Authorization: Bearer header, receives the
// public state as JSON and then every public line as a text message.
type Server struct {
	GameID string
	Secret []byte
	Hub    *Hub

	log *logrus.Entry
}

// NewServer creates the feed for gameID.
func NewServer(gameID string, secret []byte, hub *Hub, logger *logrus.Logger) *Server {
	return &Server{
		GameID: gameID,
		Secret: secret,
		Hub:    hub,
		log:    logger.WithFields(logrus.Fields{"component": "spectate", "game": gameID}),
	}
}

// Handler returns the HTTP routes of the feed.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /spectate", s.handleSpectate)
	return mux
}

func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	if err := ValidateToken(s.Secret, bearerToken(r), s.GameID); err != nil {
		s.log.WithError(err).Debug("spectator rejected")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept")
		return
	}
	defer conn.CloseNow()

	// Subscribe before the snapshot so no line falls between the two.
	lines := s.Hub.subscribe()
	defer s.Hub.unsubscribe(lines)

	// Spectators only listen; CloseRead handles their control frames.
	ctx := conn.CloseRead(r.Context())
	s.log.Info("spectator joined")

	if s.Hub.snapshot != nil {
		if err := s.write(ctx, func(ctx context.Context) error {
			return wsjson.Write(ctx, conn, s.Hub.snapshot())
		}); err != nil {
			s.log.WithError(err).Debug("spectator write")
			return
		}
	}
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "feed closed")
				return
			}
			if err := s.write(ctx, func(ctx context.Context) error {
				return conn.Write(ctx, websocket.MessageText, []byte(line))
			}); err != nil {
				s.log.WithError(err).Debug("spectator write")
				return
			}
		case <-ctx.Done():
			s.log.Info("spectator left")
			return
		}
	}
}

func (s *Server) write(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return fn(ctx)
}

func bearerToken(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// ListenAndServe serves the feed on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves the feed on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	s.log.WithField("addr", ln.Addr().String()).Info("spectator feed listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
