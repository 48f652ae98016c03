package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/avrm/opsdash/internal/core"
)

const maxBodyBytes = 1 << 20

// RequestBodyParser decodes a JSON object body once and exposes typed,
// presence-aware accessors. All failures are validation errors.
type RequestBodyParser struct {
	fields map[string]json.RawMessage
}

// ParseJSONBody reads at most 1 MiB and requires a JSON object.
func ParseJSONBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, core.AsValidation(fmt.Errorf("read request body: %w", err))
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, core.NewValidationError("request body is required")
	}
	p := &RequestBodyParser{}
	if err := json.Unmarshal(body, &p.fields); err != nil || p.fields == nil {
		return nil, core.NewValidationError("request body must be a JSON object")
	}
	return p, nil
}

// Has reports whether key is present and not null.
func (p *RequestBodyParser) Has(key string) bool {
	raw, ok := p.fields[key]
	return ok && !bytes.Equal(raw, []byte("null"))
}

// String returns a trimmed string field; numbers are formatted.
func (p *RequestBodyParser) String(key string) (string, error) {
	if !p.Has(key) {
		return "", nil
	}
	var v any
	if err := json.Unmarshal(p.fields[key], &v); err != nil {
		return "", core.NewValidationError(fmt.Sprintf("%s is malformed", key))
	}
	switch val := v.(type) {
	case string:
		return sanitizeInput(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", core.NewValidationError(fmt.Sprintf("%s must be a string", key))
	}
}

// Bool requires a JSON boolean.
func (p *RequestBodyParser) Bool(key string) (bool, error) {
	if !p.Has(key) {
		return false, core.NewValidationError(fmt.Sprintf("%s is required", key))
	}
	var b bool
	if err := json.Unmarshal(p.fields[key], &b); err != nil {
		return false, core.NewValidationError(fmt.Sprintf("%s must be a boolean", key))
	}
	return b, nil
}

// BoolOr returns def when key is absent.
func (p *RequestBodyParser) BoolOr(key string, def bool) (bool, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Bool(key)
}

// Int64 accepts an integral number or a numeric string.
func (p *RequestBodyParser) Int64(key string) (int64, error) {
	s, err := p.String(key)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, core.NewValidationError(fmt.Sprintf("%s is required", key))
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, core.NewValidationError(fmt.Sprintf("%s must be an integer", key))
	}
	return n, nil
}

// Month parses YYYY-MM or YYYY-MM-DD.
func (p *RequestBodyParser) Month(key string) (core.Month, error) {
	s, err := p.String(key)
	if err != nil {
		return core.Month{}, err
	}
	if s == "" {
		return core.Month{}, core.NewValidationError(fmt.Sprintf("%s is required", key))
	}
	m, err := core.ParseMonth(s)
	if err != nil {
		return core.Month{}, core.AsValidation(err)
	}
	return m, nil
}

// Amount accepts a number or numeric string.
func (p *RequestBodyParser) Amount(key string) (core.Amount, error) {
	if !p.Has(key) {
		return core.Amount{}, core.NewValidationError(fmt.Sprintf("%s is required", key))
	}
	var a core.Amount
	if err := json.Unmarshal(p.fields[key], &a); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			return core.Amount{}, core.AsValidation(err)
		}
		return core.Amount{}, core.NewValidationError(fmt.Sprintf("%s is malformed", key))
	}
	return a, nil
}

// parseMonthsParam reads ?months=N; absent means def.
func parseMonthsParam(r *http.Request, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("months"))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 120 {
		return 0, core.NewValidationError("months must be an integer between 1 and 120")
	}
	return n, nil
}

// sanitizeInput drops control characters other than tab and newlines.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}
