package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RoutingKeyEntryUpserted is both the routing key and the message type of
// expense entry events.
const RoutingKeyEntryUpserted = "expense_entry.upserted"

// ExpenseEntryMessage announces that an expense entry was written. It only
// carries identifiers; consumers load the entry from the database.
type ExpenseEntryMessage struct {
	MessageID string    `json:"messageId"`
	EntryID   int64     `json:"entryId"`
	SourceID  int64     `json:"sourceId"`
	Month     string    `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEntryMessage(entryID, sourceID int64, month string) *ExpenseEntryMessage {
	return &ExpenseEntryMessage{
		MessageID: uuid.NewString(),
		EntryID:   entryID,
		SourceID:  sourceID,
		Month:     month,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ExpenseEntryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEntryMessageFromJSON(data []byte) (*ExpenseEntryMessage, error) {
	var msg ExpenseEntryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
