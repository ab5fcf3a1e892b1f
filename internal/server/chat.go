package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sportrium/assistant/internal/models"
)

// maxBodyBytes caps an inbound chat request.
const maxBodyBytes = 256 << 10

// ErrBadRequest marks malformed inbound requests.
var ErrBadRequest = errors.New("bad request")

// anonymousNamespace seeds session ids derived from request metadata.
var anonymousNamespace = uuid.MustParse("6f1c8f0e-2b7a-4d59-9b61-3f4a1e0c7d22")

// ChatRequest is the inbound chat payload. Either Messages or Message must be set.
type ChatRequest struct {
	Messages       json.RawMessage `json:"messages,omitempty"`
	Message        string          `json:"message,omitempty"`
	UserID         string          `json:"userId,omitempty"`
	UserIDSnake    string          `json:"user_id,omitempty"`
	SessionID      string          `json:"sessionId,omitempty"`
	SessionIDSnake string          `json:"session_id,omitempty"`
}

// ChatResponse is the reply envelope.
type ChatResponse struct {
	OK         bool   `json:"ok"`
	Provenance string `json:"provenance,omitempty"`
	Reply      string `json:"reply,omitempty"`
	Error      string `json:"error,omitempty"`
}

// transcript validates the request and returns its turns.
func (r ChatRequest) transcript() ([]models.Turn, error) {
	raw := bytes.TrimSpace(r.Messages)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var turns []models.Turn
		if err := json.Unmarshal(raw, &turns); err != nil {
			return nil, fmt.Errorf("%w: messages must be a list of {role, content}", ErrBadRequest)
		}
		if len(turns) == 0 {
			return nil, fmt.Errorf("%w: messages is empty", ErrBadRequest)
		}
		return turns, nil
	}
	if strings.TrimSpace(r.Message) == "" {
		return nil, fmt.Errorf("%w: provide messages or message", ErrBadRequest)
	}
	return []models.Turn{{Role: models.RoleUser, Content: r.Message}}, nil
}

// sessionID picks the user id, then an explicit session id, then a stable hash of
// the caller's address and user agent.
func (r ChatRequest) sessionID(req *http.Request) string {
	for _, id := range []string{r.UserID, r.UserIDSnake, r.SessionID, r.SessionIDSnake} {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}
	return "anon-" + uuid.NewSHA1(anonymousNamespace, []byte(host+"|"+req.UserAgent())).String()
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Error: "invalid JSON body"})
		return
	}
	turns, err := req.transcript()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Error: err.Error()})
		return
	}

	reply, provenance := s.assistant.Reply(r.Context(), req.sessionID(r), turns)
	writeJSON(w, http.StatusOK, ChatResponse{OK: true, Provenance: provenance, Reply: reply})
}

// handleChatWS serves the chat operation over a websocket: one ChatRequest per
// text frame, one ChatResponse back. The session id is fixed per connection.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	connSession := ""
	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket closed", "error", err)
			}
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				_ = conn.WriteJSON(ChatResponse{Error: "invalid JSON frame"})
				continue
			}
			return
		}

		turns, err := req.transcript()
		if err != nil {
			if err := conn.WriteJSON(ChatResponse{Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		if connSession == "" {
			connSession = req.sessionID(r)
		}

		reply, provenance := s.assistant.Reply(r.Context(), connSession, turns)
		if err := conn.WriteJSON(ChatResponse{OK: true, Provenance: provenance, Reply: reply}); err != nil {
			s.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
