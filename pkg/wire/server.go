// Package wire implements the length-framed JSON socket transport:
// a 4-byte big-endian length prefix followed by a single JSON object,
// over net.Conn. It is the reference transport a Clerk ships and tests
// against; the WebSocket/ZeroMQ front-ends a deployment fronts it with
// are free to speak the same {cmd, data}/{ok, msg, data} envelope over
// a different socket.
package wire

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/azrael-sim/clerk/pkg/clerk"
	"github.com/azrael-sim/clerk/pkg/log"
)

// Dispatcher resolves a wire command to a response. pkg/clerk.Clerk is
// the one production implementation.
type Dispatcher interface {
	Dispatch(cmd string, data map[string]interface{}) clerk.Response
}

// Server accepts connections on a TCP listener and spawns one goroutine
// per connection, one per in-flight request per the scheduling model:
// the store is the sole synchronisation point, not the transport.
type Server struct {
	dispatcher Dispatcher

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer wires a transport around a dispatcher.
func NewServer(d Dispatcher) *Server {
	return &Server{dispatcher: d}
}

// Start listens on addr and serves connections until Stop is called.
// It blocks; run it in a goroutine.
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("wire: listen: %w", err)
	}
	log.Logger.Info().Str("addr", addr).Msg("wire: listening")
	return s.Serve(lis)
}

// Serve accepts connections on an already-bound listener until Stop is
// called. Useful in tests that bind an ephemeral port themselves.
func (s *Server) Serve(lis net.Listener) error {
	s.mu.Lock()
	s.listener = lis
	s.mu.Unlock()

	for {
		conn, err := lis.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := s.listener == nil
			s.mu.Unlock()
			if stopped {
				return nil
			}
			return fmt.Errorf("wire: accept: %w", err)
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Stop closes the listener and waits for every accepted connection's
// handler to return, which happens when its client closes the
// connection or a frame fails to read or write; Stop does not close
// open connections itself.
func (s *Server) Stop() {
	s.mu.Lock()
	lis := s.listener
	s.listener = nil
	s.mu.Unlock()
	if lis != nil {
		_ = lis.Close()
	}
	s.wg.Wait()
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	for {
		req, err := readFrame(conn)
		if err != nil {
			return
		}

		resp := s.dispatchFrame(req)

		payload, err := json.Marshal(resp)
		if err != nil {
			// Marshal failure on our own response type is a bug, not a
			// client error; close rather than wedge the connection.
			log.Logger.Error().Err(err).Msg("wire: encode response")
			return
		}
		if err := writeFrame(conn, payload); err != nil {
			return
		}
	}
}

func (s *Server) dispatchFrame(raw []byte) clerk.Response {
	var req clerk.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return clerk.Response{OK: false, Msg: "JSON decoding error in Clerk", Data: nil}
	}
	if req.Cmd == "" {
		return clerk.Response{OK: false, Msg: "Invalid command format", Data: nil}
	}
	data, ok := req.Data.(map[string]interface{})
	if !ok && req.Data != nil {
		return clerk.Response{OK: false, Msg: "Invalid command format", Data: nil}
	}
	return s.dispatcher.Dispatch(req.Cmd, data)
}
