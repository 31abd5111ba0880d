// Package server defines the handshake wire frames and utility helpers that
// are reused across client and hub logic.
package server

import "strings"

// Handshake frame types sent by the server.
const (
	FrameSalt = "SALT"
	FrameKey  = "KEY"
	FrameFail = "FAIL"
)

// HandshakeRequest is the first frame a client sends. Value is a pointer so a
// missing value can be told apart from an empty one.
type HandshakeRequest struct {
	Auth  AuthMode `json:"auth"`
	Value *string  `json:"value"`
	Room  RoomID   `json:"room" validate:"max=64"`
}

// ServerFrame is a JSON frame sent by the server during the handshake.
type ServerFrame struct {
	Type   string `json:"type"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
