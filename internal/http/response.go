package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avrm/opsdash/internal/core"
	applog "github.com/avrm/opsdash/internal/log"
)

// Envelope is the uniform JSON body of every API response.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// ResponseBuilder assembles a JSON response with optional extra headers.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	envelope   Envelope
}

// OK starts a successful response carrying data.
func OK(data any) *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    map[string]string{},
		envelope:   Envelope{Data: data, Success: true},
	}
}

// Fail starts a failure response.
func Fail(statusCode int, message string) *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: statusCode,
		headers:    map[string]string{},
		envelope:   Envelope{Error: message},
	}
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.envelope)
}

// statusFor maps an error to the HTTP status of its failure envelope.
func statusFor(err error) int {
	if core.IsValidation(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorType(err error) string {
	var (
		cfgErr      *core.ConfigError
		upstreamErr *core.UpstreamError
	)
	switch {
	case core.IsValidation(err):
		return applog.ErrorTypeValidation
	case errors.As(err, &cfgErr):
		return applog.ErrorTypeConfiguration
	case errors.As(err, &upstreamErr):
		return applog.ErrorTypeUpstream
	default:
		return applog.ErrorTypeInternal
	}
}

// writeError logs err against the request logger and writes the failure envelope.
func writeError(w http.ResponseWriter, r *http.Request, component, operation string, err error) {
	logger := applog.FromContext(r.Context())
	fields := applog.NewFields().
		WithErrorType(errorType(err)).
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "")
	var upstreamErr *core.UpstreamError
	if errors.As(err, &upstreamErr) {
		fields = fields.WithUpstreamResponse(upstreamErr.Service, upstreamErr.Body)
	}
	applog.NewStructuredLogger(logger).LogError(r.Context(), "request failed", err, component, operation, fields)

	Fail(statusFor(err), err.Error()).Write(w)
}
