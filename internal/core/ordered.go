package core

import (
	"bytes"
	"encoding/json"
	"sort"
)

// KeyAmount is one entry of an AmountsByKey.
type KeyAmount struct {
	Key    string `json:"key"`
	Amount Amount `json:"amount"`
}

// AmountsByKey accumulates amounts per key and keeps keys sorted. It
// serialises as a JSON object whose members follow that order.
type AmountsByKey struct {
	index map[string]int
	items []KeyAmount
}

// Add accumulates amount under key.
func (m *AmountsByKey) Add(key string, amount Amount) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.items[i].Amount = m.items[i].Amount.Plus(amount)
		return
	}
	m.index[key] = len(m.items)
	m.items = append(m.items, KeyAmount{Key: key, Amount: amount})
}

// Get returns the amount stored under key.
func (m *AmountsByKey) Get(key string) (Amount, bool) {
	i, ok := m.index[key]
	if !ok {
		return Amount{}, false
	}
	return m.items[i].Amount, true
}

// Len returns the number of keys.
func (m *AmountsByKey) Len() int {
	return len(m.items)
}

// Items returns the entries in ascending key order.
func (m *AmountsByKey) Items() []KeyAmount {
	out := make([]KeyAmount, len(m.items))
	copy(out, m.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (m AmountsByKey) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range m.Items() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(item.Amount.Decimal.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
