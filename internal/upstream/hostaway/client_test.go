package hostaway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrm/opsdash/internal/config"
	"github.com/avrm/opsdash/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(config.HostawayConfig{APIKey: "token", AccountID: "4242", BaseURL: srv.URL + "/v1/"}, 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresAccount(t *testing.T) {
	_, err := New(config.HostawayConfig{APIKey: "token"}, time.Second)

	var cfgErr *core.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "HOSTAWAY_ACCOUNT_ID")
}

func TestClient_Reservations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reservations", r.URL.Path)
		assert.Equal(t, "2023-06-15", r.URL.Query().Get("arrivalStartDate"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "4242", r.Header.Get("X-Hostaway-Account"))

		fmt.Fprint(w, `{"status": "success", "count": 2, "result": [
			{"id": 1, "listingId": 101, "listingName": "Dune Cottage", "status": "confirmed",
			 "pmCommissionAmount": 120.5, "totalPrice": 900, "nights": 3, "arrivalDate": "2023-07-01"},
			{"id": 2, "listingId": 101, "status": "cancelled", "pmCommissionAmount": null}
		]}`)
	})

	got, err := c.Reservations(context.Background(), time.Date(2023, 6, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "101", got[0].ListingKey())
	assert.True(t, got[0].IsConfirmed())
	assert.Equal(t, 120.5, *got[0].PMCommissionAmount)
	assert.Equal(t, 3, *got[0].Nights)
	assert.Nil(t, got[1].PMCommissionAmount)
	assert.False(t, got[1].IsConfirmed())
}

func TestClient_PropertiesPaginates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		var rows []string
		switch offset {
		case "0":
			for i := 0; i < pageLimit; i++ {
				rows = append(rows, fmt.Sprintf(`{"id": %d, "name": "L%d", "isActive": 1}`, i, i))
			}
		case fmt.Sprint(pageLimit):
			rows = append(rows, `{"id": 9999, "internalListingName": "Back office", "isActive": 0}`)
		default:
			t.Errorf("unexpected offset %s", offset)
		}
		fmt.Fprintf(w, `{"status": "success", "count": %d, "result": [%s]}`, pageLimit+1, strings.Join(rows, ","))
	})

	got, err := c.Properties(context.Background())
	require.NoError(t, err)
	require.Len(t, got, pageLimit+1)

	last := got[len(got)-1]
	assert.Equal(t, "9999", last.Key())
	assert.Equal(t, "Back office", last.DisplayName())
	assert.False(t, bool(last.IsActive))
	assert.True(t, bool(got[0].IsActive))
}

func TestClient_PaginatesWithoutCount(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var rows []string
		if r.URL.Query().Get("offset") == "0" {
			for i := 0; i < pageLimit; i++ {
				rows = append(rows, fmt.Sprintf(`{"id": %d}`, i))
			}
		} else {
			rows = append(rows, `{"id": 9999}`)
		}
		fmt.Fprintf(w, `{"status": "success", "result": [%s]}`, strings.Join(rows, ","))
	})

	got, err := c.Properties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, got, pageLimit+1)
}

func TestClient_Error(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"status": "fail", "message": "Invalid token"}`)
	})

	_, err := c.Reviews(context.Background())

	var upErr *core.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "Hostaway", upErr.Service)
	assert.Equal(t, "Hostaway error: 403", err.Error())
	assert.Contains(t, upErr.Body, "Invalid token")
}
