package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	_, err = New(&Config{Address: "127.0.0.1:0"}, nil)
	assert.EqualError(t, err, "handler cannot be nil")
}

func TestRunServesUntilCancelled(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "pong")
	})
	srv, err := New(DefaultConfig("127.0.0.1:0", handler), nil)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAddressInUse(t *testing.T) {
	handler := http.NotFoundHandler()
	first, err := New(DefaultConfig("127.0.0.1:0", handler), nil)
	require.NoError(t, err)
	require.NoError(t, first.Listen())
	defer first.listener.Close()

	second, err := New(DefaultConfig(first.Addr(), handler), nil)
	require.NoError(t, err)
	assert.Error(t, second.Run(context.Background()))
}
