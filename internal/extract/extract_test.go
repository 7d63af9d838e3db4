package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Extract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Wedding for the Smiths on Oct 26 in Central Park", req["description"])

		json.NewEncoder(w).Encode(Details{
			ClientName:   "Smith Wedding",
			Date:         "2024-10-26",
			Location:     "Central Park",
			Photographer: "Jane",
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	details, err := client.Extract(context.Background(), "Wedding for the Smiths on Oct 26 in Central Park")
	require.NoError(t, err)
	assert.Equal(t, "Smith Wedding", details.ClientName)
	assert.Equal(t, "2024-10-26", details.Date)
}

func TestHTTPClient_Unconfigured(t *testing.T) {
	client := NewHTTPClient("")
	_, err := client.Extract(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	_, err := client.Extract(context.Background(), "anything")
	assert.Error(t, err)
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2024-10-26", true},
		{"2024-2-3", false},
		{"26/10/2024", false},
		{"next saturday", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateDate(tt.input)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.input, got.Format("2006-01-02"))
			} else {
				assert.ErrorIs(t, err, ErrInvalidDate)
			}
		})
	}
}
