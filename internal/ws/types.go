package ws

import "encoding/json"

const (
	// client → server
	MsgNameEnter   = "nameEnter"
	MsgReady       = "ready"
	MsgLeaveRoom   = "leaveRoom"
	MsgGameCommand = "gameCommand"
)

// Message is the inbound wire envelope.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// GameCommandPayload carries an in-game action; Payload is the stat name
// for selectStat.
type GameCommandPayload struct {
	ActionType string `json:"actionType"`
	Payload    string `json:"payload"`
}

type outMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
