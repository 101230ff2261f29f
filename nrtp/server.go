// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/netremoting/nrbf"
	"github.com/netremoting/nrbf/log"
)

// Handler processes one request's payload and returns the reply
// payload, or an error to report as a failed-status reply. Handlers
// are never called for one-way requests' results — their return value
// is discarded and no reply frame is sent.
type Handler func(ctx context.Context, requestID uuid.UUID, payload []byte) ([]byte, error)

// Server accepts MS-NRTP connections and dispatches requests by their
// request-uri header to registered handlers.
type Server struct {
	addr string

	mu       sync.RWMutex
	handlers map[string]Handler

	listener net.Listener
	group    *errgroup.Group

	logger *log.Helper
}

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithLogger overrides the Server's default stderr/error-level logger.
func WithLogger(logger log.Logger) ServerOption {
	return func(s *Server) { s.logger = log.NewHelper(logger) }
}

// NewServer returns a Server bound to addr; call ListenAndServe to
// start accepting connections.
func NewServer(addr string, opts ...ServerOption) *Server {
	s := &Server{addr: addr, handlers: make(map[string]Handler), logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle registers h as the handler for requests whose request-uri
// path equals path. Re-registering a path replaces its handler.
func (s *Server) Handle(path string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[normalizePath(path)] = h
}

func (s *Server) handlerFor(path string) (Handler, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handlers[normalizePath(path)]
	return h, ok
}

// ListenAndServe opens the listening socket and serves connections
// until ctx is canceled or Close is called. It returns the first
// error encountered, ignoring the one produced by Close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return wrapFrame("ListenAndServe", err)
	}
	s.listener = ln

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	s.group = g

	g.Go(func() error {
		<-gctx.Done()
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	})

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				cancel()
				return g.Wait()
			}
			select {
			case <-gctx.Done():
				return g.Wait()
			default:
				return wrapFrame("ListenAndServe", err)
			}
		}
		g.Go(func() error {
			s.serveConn(gctx, conn)
			return nil
		})
	}
}

// Close stops accepting new connections and causes ListenAndServe to
// return once in-flight connections finish.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	r := nrbf.NewReader(conn)
	w := nrbf.NewWriter(conn)

	for {
		if ctx.Err() != nil {
			return
		}
		req, err := ReadFrame(r)
		if err != nil {
			s.logger.Debugf("frame read failed, closing connection: %v", err)
			return
		}
		requestID := uuid.New()
		path, _ := req.RequestURI()

		if req.Operation == OpOneWayRequest {
			if h, ok := s.handlerFor(path); ok {
				go func() {
					if _, err := h(ctx, requestID, req.Content); err != nil {
						s.logger.Warnf("one-way handler for %s returned an error: %v", path, err)
					}
				}()
			} else {
				s.logger.Warnf("no handler registered for one-way request %s", path)
			}
			continue
		}

		reply := s.dispatch(ctx, requestID, path, req.Content)
		if err := WriteFrame(w, reply); err != nil {
			s.logger.Debugf("reply write failed, closing connection: %v", err)
			return
		}
		if req.WantsClose() {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, requestID uuid.UUID, path string, payload []byte) *Frame {
	h, ok := s.handlerFor(path)
	if !ok {
		s.logger.Warnf("request %s for unregistered path %s", requestID, path)
		return errorReply(ErrNoHandler.Error())
	}
	out, err := h(ctx, requestID, payload)
	if err != nil {
		s.logger.Errorf("handler for %s failed on request %s: %v", path, requestID, err)
		return errorReply(err.Error())
	}
	return &Frame{
		Operation: OpReply,
		Headers: []Header{
			{Token: HeaderStatusCode, Status: StatusSuccess},
			{Token: HeaderContentType, Text: "application/octet-stream"},
		},
		Content: out,
	}
}

func errorReply(phrase string) *Frame {
	return &Frame{
		Operation: OpReply,
		Headers: []Header{
			{Token: HeaderStatusCode, Status: StatusError},
			{Token: HeaderStatusPhrase, Text: phrase},
		},
	}
}
