package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a currency amount. It serialises as a JSON number and accepts
// numbers or numeric strings on input.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a float, rounded to cents.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f).Round(2)}
}

// ParseAmount parses a numeric string, accepting a decimal comma.
func ParseAmount(s string) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Amount{d}, nil
}

func (a Amount) Plus(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

func (a Amount) Float() float64 {
	f, _ := a.Decimal.Float64()
	return f
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	switch v := raw.(type) {
	case float64:
		d, err := decimal.NewFromString(strings.TrimSpace(string(data)))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
		}
		a.Decimal = d
	case string:
		parsed, err := ParseAmount(v)
		if err != nil {
			return err
		}
		*a = parsed
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	return nil
}

// ExpenseSource is a named cost category (software, cleaning, ...).
type ExpenseSource struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRecurring bool   `json:"isRecurring"`
	IsActive    bool   `json:"isActive"`
}

// Validate checks the fields required to create a source.
func (s ExpenseSource) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ExpenseEntry is the amount spent on one source in one month. The pair
// (SourceID, Month) is unique.
type ExpenseEntry struct {
	ID         int64  `json:"id"`
	SourceID   int64  `json:"sourceId"`
	SourceName string `json:"sourceName"`
	Month      Month  `json:"month"`
	Amount     Amount `json:"amount"`
	Notes      string `json:"notes"`
}

// Validate checks the natural key. Any parsed amount is accepted, including
// negative credits and refunds.
func (e ExpenseEntry) Validate() error {
	if e.SourceID <= 0 {
		return ErrMissingSource
	}
	if e.Month.IsZero() {
		return ErrInvalidMonth
	}
	return nil
}

// DisplaySource returns the joined source name, or the unknown label when the
// source is missing or was deleted.
func (e ExpenseEntry) DisplaySource() string {
	if strings.TrimSpace(e.SourceName) == "" {
		return UnknownLabel
	}
	return e.SourceName
}
