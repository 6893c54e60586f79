// Package ws serves the read-only observer stream: a HELLO/WELCOME handshake
// followed by OUTCOME and CONSOLIDATION events as JSON text frames. Observers
// never write into the simulation.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"skillforge.ai/internal/protocol"
)

// Observers are silent after HELLO, so the server keeps the connection
// alive itself: it pings on pingPeriod and each pong extends the read
// deadline by pongWait. Vars so tests can shrink the intervals.
var (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// WelcomeInfo is what the arena exposes for the handshake.
type WelcomeInfo interface {
	Welcome() protocol.WelcomeMsg
}

type Server struct {
	info WelcomeInfo
	log  *log.Logger

	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

func NewServer(info WelcomeInfo, logger *log.Logger) *Server {
	return &Server{
		info: info,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		subs: make(map[chan []byte]struct{}),
	}
}

// Broadcast fans a marshaled event out to every connected observer. Slow
// observers drop frames rather than stalling the tick loop.
func (s *Server) Broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("broadcast marshal: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- b:
		default:
		}
	}
}

func (s *Server) subscribe() chan []byte {
	ch := make(chan []byte, 256)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan []byte) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if !s.handshake(conn) {
			return
		}

		out := s.subscribe()
		defer s.unsubscribe(out)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine: events plus keepalive pings.
		go func() {
			ping := time.NewTicker(pingPeriod)
			defer ping.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ping.C:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						cancel()
						return
					}
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop: observers send nothing after HELLO, so pongs are the
		// only sign of life. Without one inside pongWait the read times out
		// and the connection is dropped.
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) bool {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "protocol version mismatch"), time.Now().Add(time.Second))
		return false
	}

	welcome := s.info.Welcome()
	b, err := json.Marshal(welcome)
	if err != nil {
		return false
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return false
	}
	s.log.Printf("observer %q connected", hello.ObserverName)
	return true
}
