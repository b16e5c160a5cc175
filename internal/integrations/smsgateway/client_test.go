package smsgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, ClientID: "id", ClientSecret: "secret", SenderID: "GROOMR", Timeout: time.Second})
}

func TestClient_FetchToken(t *testing.T) {
	client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/token", r.URL.Path)

		var req TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "secret", req.ClientSecret)

		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})

	token, err := client.FetchToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestClient_FetchToken_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, "", ErrUnauthorized},
		{"server error", http.StatusInternalServerError, "boom", ErrUnavailable},
		{"empty token", http.StatusOK, `{"access_token":""}`, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.FetchToken(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Send(t *testing.T) {
	client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req SendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+919800000000", req.To)
		assert.Equal(t, "GROOMR", req.SenderID)

		w.WriteHeader(http.StatusAccepted)
	})

	err := client.Send(context.Background(), "tok", "+919800000000", "hello")

	assert.NoError(t, err)
}

func TestClient_Send_Rejected(t *testing.T) {
	client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	err := client.Send(context.Background(), "tok", "bad", "hello")

	assert.ErrorIs(t, err, ErrSendFailed)
}
