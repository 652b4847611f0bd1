package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a Hub over HTTP.
type Server struct {
	addr   string
	hub    *Hub
	logger *log.Logger
	router *mux.Router
}

// NewServer creates a mirror server for the hub.
func NewServer(addr string, hub *Hub, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default().WithPrefix("mirror")
	}
	s := &Server{addr: addr, hub: hub, logger: logger}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWS).Methods("GET")
	r.HandleFunc("/api/display", s.handleDisplay).Methods("GET")
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router = r
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mirror listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mirror: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down mirror")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mirror: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.logger.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	client := NewClient(uuid.NewString(), conn)
	s.hub.Register(client)
	defer s.hub.Unregister(client.ID)

	// Viewers only listen; CloseRead cancels ctx when they disconnect.
	ctx := conn.CloseRead(r.Context())
	client.WritePump(ctx)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Latest())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"viewers": s.hub.Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encode response", "err", err)
	}
}

const indexHTML = `<!doctype html>
<html>
<head><title>Reaction Timer</title>
<style>body{background:#111;color:#ffd75f;font:bold 12vw monospace;display:flex;align-items:center;justify-content:center;height:100vh;margin:0}</style>
</head>
<body><div id="d">...</div>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (e) => { const m = JSON.parse(e.data); if (m.t === "display") document.getElementById("d").textContent = m.text; };
</script>
</body>
</html>
`
