package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostDirect(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient("", zerolog.Nop())
	err := client.Post(context.Background(), srv.URL, Message{Content: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)

	var msg Message
	require.NoError(t, json.Unmarshal(gotBody, &msg))
	assert.Equal(t, "hello", msg.Content)
}

func TestClient_PostThroughRelay(t *testing.T) {
	var envelope relayEnvelope
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &envelope))
		w.WriteHeader(http.StatusOK)
	}))
	defer relay.Close()

	client := NewClient(relay.URL, zerolog.Nop())
	err := client.Post(context.Background(), "https://discord.example/webhook", Message{Content: "relayed"})

	require.NoError(t, err)
	// The destination URL rides inside the envelope, not as the target
	assert.Equal(t, "https://discord.example/webhook", envelope.URL)
	inner, err := json.Marshal(envelope.Body)
	require.NoError(t, err)
	assert.Contains(t, string(inner), "relayed")
}

func TestClient_PostErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	client := NewClient("", zerolog.Nop())
	err := client.Post(context.Background(), srv.URL, Message{Content: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_PostUnreachable(t *testing.T) {
	client := NewClient("", zerolog.Nop())
	err := client.Post(context.Background(), "http://127.0.0.1:1/never", Message{Content: "x"})
	assert.Error(t, err)
}
