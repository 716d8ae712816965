// Package gateway exposes the engine over socket.io. A client emits a "run"
// event carrying a task; the gateway answers with a "status" event, streams
// "progress" and "artifact" events as the run produces them, and closes
// with a terminal "status" of completed or failed. Disconnecting cancels
// whatever the client still has in flight.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/engine"
	"github.com/vk/artifactgraphgo/internal/task"
)

// Server bridges socket.io clients to the engine. Each "run" event starts
// one engine run whose events stream back to the requesting client.
type Server struct {
	io     *socket.Server
	engine *engine.Engine
	logger *slog.Logger

	mu   sync.Mutex
	runs map[socket.SocketId]context.CancelFunc
}

// NewServer wires a socket.io server around eng. Mount Handler to serve it.
func NewServer(eng *engine.Engine, logger *slog.Logger) *Server {
	s := &Server{
		io:     socket.NewServer(nil, nil),
		engine: eng,
		logger: logger,
		runs:   make(map[socket.SocketId]context.CancelFunc),
	}
	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		s.handleConnection(client)
	})
	return s
}

// Handler returns the HTTP handler for the gateway, typically mounted at
// /socket.io/.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close cancels every in-flight run and shuts the socket server down.
func (s *Server) Close() {
	s.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(s.runs))
	for _, cancel := range s.runs {
		cancels = append(cancels, cancel)
	}
	s.runs = make(map[socket.SocketId]context.CancelFunc)
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	s.io.Close(nil)
}

func (s *Server) handleConnection(client *socket.Socket) {
	s.logger.Info("Client connected.", "sid", client.Id())

	client.On("run", func(datas ...any) {
		if len(datas) == 0 {
			client.Emit("status", statusPayload("", task.StateFailed, nil, errors.New("run event carried no payload")))
			return
		}
		req, err := decodeRunRequest(datas[0])
		if err != nil {
			s.logger.Warn("Rejected malformed run request.", "sid", client.Id(), "error", err)
			client.Emit("status", statusPayload("", task.StateFailed, nil, err))
			return
		}
		go s.serveRun(client, req)
	})

	client.On("disconnect", func(...any) {
		s.logger.Info("Client disconnected.", "sid", client.Id())
		s.cancelRun(client.Id())
	})
}

// serveRun drives one engine run and relays its stream to the client.
func (s *Server) serveRun(client *socket.Socket, req engine.Request) {
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), s.logger))
	if !s.trackRun(client.Id(), cancel) {
		cancel()
		client.Emit("status", statusPayload(req.Task.ID, task.StateFailed, nil,
			errors.New("a run is already in flight on this connection")))
		return
	}
	defer cancel()
	defer s.finishRun(client.Id())

	s.logger.Info("Run accepted.", "sid", client.Id(), "task", req.Task.ID)
	client.Emit("status", statusPayload(req.Task.ID, task.StateWorking, nil, nil))

	stream := s.engine.Run(ctx, req)
	var produced []artifact.ID
	for ev := range stream.Events() {
		switch ev := ev.(type) {
		case engine.Progress:
			client.Emit("progress", progressPayload(req.Task.ID, ev))
		case engine.ArtifactProduced:
			payload, err := artifactPayload(req.Task.ID, ev)
			if err != nil {
				s.logger.Error("Failed to encode artifact for the wire.", "artifact", ev.Artifact.ID, "error", err)
				continue
			}
			produced = append(produced, ev.Artifact.ID)
			client.Emit("artifact", payload)
		}
	}

	if err := stream.Err(); err != nil {
		s.logger.Warn("Run failed.", "sid", client.Id(), "task", req.Task.ID, "error", err)
		client.Emit("status", statusPayload(req.Task.ID, task.StateFailed, produced, err))
		return
	}
	s.logger.Info("Run completed.", "sid", client.Id(), "task", req.Task.ID, "artifacts", len(produced))
	client.Emit("status", statusPayload(req.Task.ID, task.StateCompleted, produced, nil))
}

// trackRun records a run's cancel func; one run per connection at a time.
func (s *Server) trackRun(id socket.SocketId, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.runs[id]; busy {
		return false
	}
	s.runs[id] = cancel
	return true
}

func (s *Server) finishRun(id socket.SocketId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
}

func (s *Server) cancelRun(id socket.SocketId) {
	s.mu.Lock()
	cancel := s.runs[id]
	delete(s.runs, id)
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
