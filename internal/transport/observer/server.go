package observer

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// RunInfo is the metadata served at /v1/run.
type RunInfo struct {
	ProcessID string    `json:"process_id"`
	Organisms []string  `json:"organisms"`
	StartedAt time.Time `json:"started_at"`
}

type subscribeMsg struct {
	Type string `json:"type"`
}

type Server struct {
	hub  *Hub
	info RunInfo
	log  *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, info RunInfo, logger *log.Logger) *Server {
	return &Server{
		hub:  hub,
		info: info,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/run", s.runHandler())
	mux.HandleFunc("/v1/ws", s.wsHandler())
}

func (s *Server) runHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(s.info)
	}
}

func (s *Server) wsHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: the client must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub subscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != "SUBSCRIBE" {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"),
				time.Now().Add(time.Second))
			return
		}

		id, ch := s.hub.Subscribe()
		defer s.hub.Unsubscribe(id)
		if s.log != nil {
			s.log.Printf("observer %d connected from %s", id, r.RemoteAddr)
		}

		// Writer goroutine: forwards records until the hub closes the
		// channel or the connection breaks.
		writeErr := make(chan error, 1)
		go func() {
			for b := range ch {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
			writeErr <- nil
		}()

		// Reader loop: only watches for the client going away.
		go func() {
			for {
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
				if _, _, err := conn.ReadMessage(); err != nil {
					_ = conn.Close()
					return
				}
			}
		}()

		<-writeErr
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second))
		if s.log != nil {
			s.log.Printf("observer %d disconnected", id)
		}
	}
}
