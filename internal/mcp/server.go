package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"lnd-advisor/internal/common/logger"
	"lnd-advisor/internal/query"
	"lnd-advisor/internal/query/intent"
)

const protocolVersion = "2024-11-05"

// Server reads JSON-RPC messages line by line from in and writes
// responses to out. Malformed input produces an error response, never a
// crash; the loop exits when in is exhausted or ctx is canceled.
type Server struct {
	in      io.Reader
	out     io.Writer
	parser  *intent.Parser
	handler *query.Handler
	tools   []Tool
	name    string
	version string
	logger  logger.Logger
}

func NewServer(in io.Reader, out io.Writer, parser *intent.Parser, handler *query.Handler, name, version string, log logger.Logger) *Server {
	return &Server{
		in:      in,
		out:     out,
		parser:  parser,
		handler: handler,
		tools:   toolDefinitions(),
		name:    name,
		version: version,
		logger:  log.WithFields(map[string]interface{}{"component": "mcp-server"}),
	}
}

// Serve runs the read-dispatch-respond loop until EOF or cancellation.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			s.write(newError(nil, ParseError, "invalid JSON"))
			continue
		}

		if response := s.dispatch(ctx, &msg); response != nil {
			s.write(response)
		}
	}

	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, msg *Message) *Message {
	if msg.IsNotification() {
		// Notifications such as notifications/initialized need no reply.
		return nil
	}

	switch msg.Method {
	case "initialize":
		return newResult(msg.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    Capabilities{Tools: map[string]interface{}{}},
			ServerInfo:      ServerInfo{Name: s.name, Version: s.version},
		})

	case "tools/list":
		return newResult(msg.ID, map[string]interface{}{"tools": s.tools})

	case "tools/call":
		var params CallToolParams
		if err := reparse(msg.Params, &params); err != nil {
			return newError(msg.ID, InvalidParams, "invalid tools/call params")
		}
		result, callErr := s.callTool(ctx, params)
		if callErr != nil {
			return &Message{Jsonrpc: "2.0", ID: msg.ID, Error: callErr}
		}
		return newResult(msg.ID, result)

	default:
		return newError(msg.ID, MethodNotFound, "method not found: "+msg.Method)
	}
}

func (s *Server) write(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	data = append(data, '\n')
	if _, err := s.out.Write(data); err != nil {
		s.logger.Error("failed to write response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// reparse round-trips loosely typed params into a concrete struct.
func reparse(params interface{}, out interface{}) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
