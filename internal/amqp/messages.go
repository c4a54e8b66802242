package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// LedgerDirtyMessage asks a worker to reconcile a trip whose inline
// reconciliation failed. The worker recomputes everything from storage, so
// the message carries only the trip and who triggered it.
type LedgerDirtyMessage struct {
	TripID    string    `json:"trip_id"`
	Actor     string    `json:"actor"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerDirtyMessage creates a message stamped with the current time.
func NewLedgerDirtyMessage(tripID, actor, reason string) *LedgerDirtyMessage {
	return &LedgerDirtyMessage{
		TripID:    tripID,
		Actor:     actor,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerDirtyMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerDirtyMessageFromJSON decodes a message and checks it names a trip.
func LedgerDirtyMessageFromJSON(data []byte) (*LedgerDirtyMessage, error) {
	var msg LedgerDirtyMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.TripID == "" {
		return nil, fmt.Errorf("message has no trip_id")
	}
	return &msg, nil
}
