package amqp

import (
	"encoding/json"
	"time"
)

// PartyResolveMessage asks the directory worker to look up one party id.
// It carries only the id; the worker decides character vs corporation by
// asking the upstream API.
type PartyResolveMessage struct {
	PartyID   int64     `json:"party_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPartyResolveMessage creates a resolve request for one party id.
func NewPartyResolveMessage(partyID int64) *PartyResolveMessage {
	return &PartyResolveMessage{
		PartyID:   partyID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PartyResolveMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PartyResolveMessageFromJSON creates a message from JSON bytes
func PartyResolveMessageFromJSON(data []byte) (*PartyResolveMessage, error) {
	var msg PartyResolveMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
