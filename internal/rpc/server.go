package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gwutama/unitman/internal/manager"
	"github.com/gwutama/unitman/internal/tracing"
	"github.com/gwutama/unitman/internal/unit"
)

// Server terminates the control-plane endpoint. Exactly one request is in
// flight at a time: connections (and the requests within them) are
// handled sequentially on the accept loop, never concurrently, matching
// the "strict request/reply mode" the control plane guarantees.
type Server struct {
	addr     string
	manager  *manager.UnitManager
	log      *slog.Logger
	listener net.Listener
}

// NewServer builds a server bound to a Unix-domain socket path. addr may
// carry an "ipc://" or "unix://" scheme prefix, stripped before binding.
func NewServer(addr string, m *manager.UnitManager, log *slog.Logger) *Server {
	return &Server{addr: stripScheme(addr), manager: m, log: log}
}

func stripScheme(addr string) string {
	for _, scheme := range []string{"ipc://", "unix://"} {
		if strings.HasPrefix(addr, scheme) {
			return strings.TrimPrefix(addr, scheme)
		}
	}
	return addr
}

// ListenAndServe binds the socket and serves requests until Close is
// called. The path is removed first in case a stale socket from a
// previous run is still present.
func (s *Server) ListenAndServe() error {
	_ = os.Remove(s.addr)

	l, err := net.Listen("unix", s.addr)
	if err != nil {
		return err
	}
	s.listener = l
	s.log.Info("control plane listening", "addr", s.addr)

	for {
		conn, err := l.Accept()
		if err != nil {
			if strings.Contains(err.Error(), "use of closed network connection") {
				return nil
			}
			return err
		}
		s.serveConn(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// serveConn handles every request on one connection sequentially, never
// pipelined, until the client disconnects.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	for {
		req, err := readRequest(conn)
		if err != nil {
			return
		}

		requestID := uuid.NewString()
		resp := s.dispatch(req, requestID)
		if err := writeResponse(conn, resp); err != nil {
			s.log.Warn("failed to write response", "request_id", requestID, "error", err)
			return
		}
	}
}

func (s *Server) dispatch(req Request, requestID string) Response {
	_, span := tracing.StartControlPlaneSpan(context.Background(), req.Method.String(), requestID)
	defer span.End()

	var resp Response
	switch req.Method {
	case MethodPing:
		resp = s.handlePing(req)
	case MethodListUnits:
		resp = s.handleListUnits(req)
	case MethodStartUnit:
		resp = s.handleStartUnit(req, requestID)
	case MethodStopUnit:
		resp = s.handleStopUnit(req, requestID)
	default:
		resp = errorResponse(MethodUnknown, fmt.Sprintf("unknown method %d", int32(req.Method)))
	}

	if resp.Status {
		tracing.RecordSuccess(span)
	} else {
		tracing.AddEvent(span, "request failed", attribute.String("error", resp.Error))
	}
	return resp
}

func (s *Server) handlePing(req Request) Response {
	var payload PingRequest
	if err := decodePayload(req.Data, &payload); err != nil {
		return errorResponse(MethodPing, err.Error())
	}
	data, err := encodePayload(PingResponse{Message: "pong"})
	if err != nil {
		return errorResponse(MethodPing, err.Error())
	}
	return Response{Method: MethodPing, Status: true, Data: data}
}

func (s *Server) handleListUnits(req Request) Response {
	units := s.manager.Units()
	infos := make([]UnitInfo, 0, len(units))
	for _, u := range units {
		infos = append(infos, snapshot(u))
	}
	data, err := encodePayload(ListUnitsResponse{Units: infos})
	if err != nil {
		return errorResponse(MethodListUnits, err.Error())
	}
	return Response{Method: MethodListUnits, Status: true, Data: data}
}

func (s *Server) handleStartUnit(req Request, requestID string) Response {
	var payload UnitNameRequest
	if err := decodePayload(req.Data, &payload); err != nil {
		return errorResponse(MethodStartUnit, err.Error())
	}
	s.log.Info("control plane start request", "request_id", requestID, "unit", payload.UnitName)
	if err := s.manager.StartUnit(payload.UnitName); err != nil {
		return errorResponse(MethodStartUnit, err.Error())
	}
	return Response{Method: MethodStartUnit, Status: true}
}

func (s *Server) handleStopUnit(req Request, requestID string) Response {
	var payload UnitNameRequest
	if err := decodePayload(req.Data, &payload); err != nil {
		return errorResponse(MethodStopUnit, err.Error())
	}
	s.log.Info("control plane stop request", "request_id", requestID, "unit", payload.UnitName)
	if err := s.manager.StopUnit(payload.UnitName, false); err != nil {
		return errorResponse(MethodStopUnit, err.Error())
	}
	return Response{Method: MethodStopUnit, Status: true}
}

func errorResponse(method Method, msg string) Response {
	return Response{Method: method, Status: false, Error: msg}
}

func snapshot(u *unit.Unit) UnitInfo {
	pid := u.GetPid()
	uptime := int64(0)
	if pid > 0 {
		uptime = u.GetUptimeSeconds()
	}
	return UnitInfo{
		Name:               u.Name(),
		Executable:         u.GetExecutable(),
		Arguments:          u.GetArguments(),
		RestartPolicy:      u.RestartPolicy().String(),
		UID:                u.GetUID(),
		GID:                u.GetGID(),
		Enabled:            u.Enabled(),
		ProcessProbeState:  u.ProcessProbeState().String(),
		LivenessProbeState: u.LivenessProbeState().String(),
		State:              u.State().String(),
		Pid:                pid,
		UptimeSeconds:      uptime,
	}
}
