package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01-02"

// Month is a calendar month, stored and serialised as its first day
// ("2024-03-01").
type Month struct {
	year  int
	month time.Month
}

// NewMonth returns the month containing year/month, normalising overflow.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{year: t.Year(), month: t.Month()}
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month())
}

// ParseMonth accepts "YYYY-MM" or "YYYY-MM-DD"; the day is discarded.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{monthLayout, "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthOf(t), nil
		}
	}
	if len(s) > len(monthLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return MonthOf(t), nil
		}
	}
	return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
}

func (m Month) Year() int { return m.year }

func (m Month) Month() time.Month { return m.month }

func (m Month) IsZero() bool { return m.year == 0 && m.month == 0 }

func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }

// Compare returns -1, 0 or 1.
func (m Month) Compare(o Month) int {
	switch {
	case m.year != o.year:
		if m.year < o.year {
			return -1
		}
		return 1
	case m.month != o.month:
		if m.month < o.month {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// AddMonths shifts the month by n (negative goes back).
func (m Month) AddMonths(n int) Month {
	return NewMonth(m.year, m.month+time.Month(n))
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return m.Time().Format(monthLayout)
}

func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Month) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMonth, string(data))
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the month as a date string, readable by both SQLite TEXT
// and Postgres DATE columns.
func (m Month) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *Month) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*m = MonthOf(v)
		return nil
	case string:
		parsed, err := ParseMonth(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case []byte:
		return m.Scan(string(v))
	case nil:
		*m = Month{}
		return nil
	default:
		return fmt.Errorf("scan month: unsupported type %T", src)
	}
}
