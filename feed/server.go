package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const writeTimeout = time.Second

// Server exposes a Hub over HTTP: /stream is a websocket of frames and
// /frame returns the latest frame as JSON.
type Server struct {
	hub      *Hub
	maxFPS   float64
	serveMux http.ServeMux
}

// NewServer serves hub, sending each client at most maxFPS frames per second.
func NewServer(hub *Hub, maxFPS float64) *Server {
	if maxFPS <= 0 {
		maxFPS = 30
	}
	s := &Server{hub: hub, maxFPS: maxFPS}
	s.serveMux.HandleFunc("/stream", s.streamHandler)
	s.serveMux.HandleFunc("/frame", s.frameHandler)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.serveMux.ServeHTTP(w, r)
}

// frameHandler writes the latest frame, or 204 before the first one.
func (s *Server) frameHandler(w http.ResponseWriter, r *http.Request) {
	f := s.hub.Latest()
	if f == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(f); err != nil {
		log.Println("frame:", err)
	}
}

// streamHandler accepts a websocket and pushes new frames until the client
// goes away.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	// Clients only listen; CloseRead handles their close frames.
	ctx := c.CloseRead(r.Context())
	err = s.stream(ctx, c)
	if errors.Is(err, context.Canceled) ||
		websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		log.Println("stream:", err)
	}
}

// stream writes every frame newer than the last one sent, rate limited.
func (s *Server) stream(ctx context.Context, c *websocket.Conn) error {
	limiter := rate.NewLimiter(rate.Limit(s.maxFPS), 1)
	var sent uint64
	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		f := s.hub.Latest()
		if f == nil || f.Seq == sent {
			continue
		}
		if err := writeFrame(ctx, c, f); err != nil {
			return err
		}
		sent = f.Seq
	}
}

// writeFrame writes one frame with a timeout.
func writeFrame(ctx context.Context, c *websocket.Conn, f *Frame) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, f)
}
