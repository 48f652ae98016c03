package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrm/opsdash/internal/core"
)

func parse(t *testing.T, body string) *RequestBodyParser {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	p, err := ParseJSONBody(httptest.NewRecorder(), r)
	require.NoError(t, err)
	return p
}

func TestRequestBodyParserString(t *testing.T) {
	p := parse(t, `{"a": "  hi\u0007 ", "n": 42, "nul": null, "obj": {}}`)

	s, err := p.String("a")
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	s, err = p.String("n")
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	s, err = p.String("nul")
	require.NoError(t, err)
	assert.Empty(t, s)
	assert.False(t, p.Has("nul"))

	_, err = p.String("obj")
	assert.True(t, core.IsValidation(err))
}

func TestRequestBodyParserTyped(t *testing.T) {
	p := parse(t, `{"id": "12", "big": 1.5, "flag": false, "month": "2024-11-30", "amount": 12.345}`)

	id, err := p.Int64("id")
	require.NoError(t, err)
	assert.EqualValues(t, 12, id)

	_, err = p.Int64("big")
	assert.True(t, core.IsValidation(err))

	flag, err := p.Bool("flag")
	require.NoError(t, err)
	assert.False(t, flag)

	def, err := p.BoolOr("absent", true)
	require.NoError(t, err)
	assert.True(t, def)

	m, err := p.Month("month")
	require.NoError(t, err)
	assert.Equal(t, core.NewMonth(2024, 11), m)

	a, err := p.Amount("amount")
	require.NoError(t, err)
	assert.Equal(t, "12.345", a.String())
}

func TestParseJSONBodyRejects(t *testing.T) {
	for _, body := range []string{"", "   ", "null", "[]", "{", `"x"`} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		_, err := ParseJSONBody(httptest.NewRecorder(), r)
		assert.True(t, core.IsValidation(err), "body %q", body)
	}

	big := `{"notes": "` + strings.Repeat("x", maxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	_, err := ParseJSONBody(httptest.NewRecorder(), r)
	assert.True(t, core.IsValidation(err))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(core.NewValidationError("x")))
	assert.Equal(t, http.StatusBadRequest, statusFor(core.AsValidation(core.ErrInvalidMonth)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(&core.UpstreamError{Service: "GHL", StatusCode: 500}))
}
