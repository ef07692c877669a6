package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	"github.com/msto63/mathcfg/foundation/mathcfg"
	mdwparser "github.com/msto63/mathcfg/foundation/mathcfg/parser"
	mdwtree "github.com/msto63/mathcfg/foundation/mathcfg/tree"
	"github.com/msto63/mathcfg/internal/history"
	"github.com/msto63/mathcfg/pkg/core/version"
)

// Request and response types
const (
	TypeParse    = "parse"
	TypeTokenize = "tokenize"
	TypePing     = "ping"

	TypeTree   = "tree"
	TypeTokens = "tokens"
	TypeError  = "error"
	TypePong   = "pong"
)

// Error codes that are not foundation error codes
const (
	CodeInvalidMessage = "invalid_message"
	CodeUnknownType    = "unknown_type"
)

// WSMessage is a client request
type WSMessage struct {
	Type  string `json:"type"`            // "parse", "tokenize", "ping"
	ID    string `json:"id,omitempty"`    // echoed in the response
	Input string `json:"input,omitempty"` // expression text
}

// WSResponse is a server response
type WSResponse struct {
	Type    string      `json:"type"` // "tree", "tokens", "error", "pong"
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload"`
}

// WSTreePayload carries a successful parse
type WSTreePayload struct {
	RequestID  string        `json:"request_id"`
	Input      string        `json:"input"`
	Source     string        `json:"source"`
	Compact    string        `json:"compact"`
	Nodes      int           `json:"nodes"`
	Depth      int           `json:"depth"`
	DurationMS float64       `json:"duration_ms"`
	Tree       *mdwtree.Node `json:"tree"`
}

// WSToken is one token of a tokenize response
type WSToken struct {
	Type     string  `json:"type"`
	Lexeme   string  `json:"lexeme"`
	Value    *uint32 `json:"value,omitempty"`
	Position int     `json:"position"`
}

// WSTokensPayload carries the tokens of an input
type WSTokensPayload struct {
	Input  string    `json:"input"`
	Tokens []WSToken `json:"tokens"`
}

// WSErrorPayload represents an error payload. Position is the character
// index in the trimmed input, when the failure has one.
type WSErrorPayload struct {
	Code      string `json:"code"`
	Kind      string `json:"kind,omitempty"`
	Message   string `json:"message"`
	Position  *int   `json:"position,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WSPongPayload answers a ping
type WSPongPayload struct {
	Version  string    `json:"version"`
	Protocol string    `json:"protocol"`
	Time     time.Time `json:"time"`
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", mdwlog.Fields{"error": err.Error()})
		return
	}
	s.track(conn)
	defer s.untrack(conn)
	s.handleConnection(r.Context(), conn)
}

// handleConnection serves requests of one WebSocket session in order
func (s *Server) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	logger := s.logger.WithField("remote", conn.RemoteAddr().String())
	logger.Info("WebSocket connection established")

	if s.config.MaxMessageSize > 0 {
		conn.SetReadLimit(s.config.MaxMessageSize)
	}
	conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", mdwlog.Fields{"error": err.Error()})
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(conn, "", WSErrorPayload{Code: CodeInvalidMessage, Message: "invalid JSON message: " + err.Error()})
			continue
		}

		var resp WSResponse
		switch msg.Type {
		case TypePing:
			resp = WSResponse{Type: TypePong, Payload: WSPongPayload{
				Version:  version.Version,
				Protocol: version.Protocol,
				Time:     time.Now().UTC(),
			}}
		case TypeParse:
			resp = s.handleParse(ctx, msg)
		case TypeTokenize:
			resp = s.handleTokenize(msg)
		default:
			resp = WSResponse{Type: TypeError, Payload: WSErrorPayload{
				Code:    CodeUnknownType,
				Message: "unknown message type: " + msg.Type,
			}}
		}
		resp.ID = msg.ID

		if err := s.sendResponse(conn, resp); err != nil {
			logger.Warn("WebSocket send error", mdwlog.Fields{"error": err.Error()})
			return
		}
	}
}

func (s *Server) handleParse(ctx context.Context, msg WSMessage) WSResponse {
	res, err := s.engine.Parse(msg.Input)
	s.record(ctx, res, err)

	if err != nil {
		payload := errorPayload(err)
		payload.RequestID = res.RequestID
		if pos, ok := res.Locate(err); ok {
			payload.Position = &pos
		}
		return WSResponse{Type: TypeError, Payload: payload}
	}

	return WSResponse{Type: TypeTree, Payload: WSTreePayload{
		RequestID:  res.RequestID,
		Input:      res.Input,
		Source:     res.Tree.Source(),
		Compact:    res.Tree.String(),
		Nodes:      res.Tree.Count(),
		Depth:      res.Tree.Depth(),
		DurationMS: float64(res.Duration.Microseconds()) / 1000,
		Tree:       res.Tree,
	}}
}

func (s *Server) handleTokenize(msg WSMessage) WSResponse {
	input := strings.TrimSpace(msg.Input)
	tokens, err := s.engine.Tokenize(input)
	if err != nil {
		payload := errorPayload(err)
		if pos, ok := (&mathcfg.Result{Input: input}).Locate(err); ok {
			payload.Position = &pos
		}
		return WSResponse{Type: TypeError, Payload: payload}
	}

	out := make([]WSToken, len(tokens))
	for i, tok := range tokens {
		out[i] = WSToken{Type: tok.Type.String(), Lexeme: tok.Lexeme(), Position: tok.Position}
		if tok.Type == mdwparser.TokenNumber {
			v := tok.Value
			out[i].Value = &v
		}
	}
	return WSResponse{Type: TypeTokens, Payload: WSTokensPayload{Input: input, Tokens: out}}
}

func (s *Server) record(ctx context.Context, res *mathcfg.Result, err error) {
	if !s.config.RecordHistory {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.WriteTimeout)
	defer cancel()
	if recErr := s.history.Record(ctx, history.EntryFromResult(res, err, history.SourceWebSocket)); recErr != nil {
		s.logger.WarnWithErr("Failed to record parse history", recErr)
	}
}

// errorPayload reports the innermost message so clients do not see the
// engine's wrapping prefixes
func errorPayload(err error) WSErrorPayload {
	payload := WSErrorPayload{
		Code:    mdwerror.GetCode(err).String(),
		Kind:    mdwparser.KindOf(err),
		Message: err.Error(),
	}
	var mdwErr *mdwerror.Error
	if errors.As(err, &mdwErr) {
		payload.Message = mdwErr.RootCause().Error()
	}
	return payload
}

// sendResponse sends a response message via WebSocket
func (s *Server) sendResponse(conn *websocket.Conn, resp WSResponse) error {
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return conn.WriteJSON(resp)
}

// sendError sends an error response via WebSocket
func (s *Server) sendError(conn *websocket.Conn, id string, payload WSErrorPayload) {
	if err := s.sendResponse(conn, WSResponse{Type: TypeError, ID: id, Payload: payload}); err != nil {
		s.logger.Warn("WebSocket send error", mdwlog.Fields{"error": err.Error()})
	}
}
