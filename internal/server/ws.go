package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsWriteWait = 10 * time.Second

// wsMessage is the envelope of every outbound WebSocket message. Exactly
// one of Result and Error is set.
type wsMessage struct {
	Type   string            `json:"type"`
	Result *simulateResponse `json:"result,omitempty"`
	Error  *errorResponse    `json:"error,omitempty"`
	Status int               `json:"status,omitempty"`
}

// handleWebSocket answers every inbound parameter message with one result
// or error message until the client closes the connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "not a websocket upgrade request", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := s.log.With(zap.String("request_id", requestID(r.Context())))
	log.Debug("websocket connected", zap.String("remote", r.RemoteAddr))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		msg := s.answer(data)
		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
			log.Warn("websocket deadline failed", zap.Error(err))
			return
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

func (s *Server) answer(data []byte) wsMessage {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		return wsMessage{
			Type:   "error",
			Error:  &errorResponse{Error: "malformed message: " + err.Error()},
			Status: http.StatusBadRequest,
		}
	}

	res, err := s.pipeline.Run(req.params(s.defaults))
	if err != nil {
		status, body := statusFor(err)
		return wsMessage{Type: "error", Error: &body, Status: status}
	}
	resp := newSimulateResponse(res)
	return wsMessage{Type: "result", Result: &resp}
}
