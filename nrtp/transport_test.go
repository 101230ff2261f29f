// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (addr string, srv *Server) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr = ln.Addr().String()
	require.NoError(t, ln.Close())

	srv = NewServer(addr)
	srv.Handle("/echo", func(ctx context.Context, requestID uuid.UUID, payload []byte) ([]byte, error) {
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	})
	srv.Handle("/boom", func(ctx context.Context, requestID uuid.UUID, payload []byte) ([]byte, error) {
		return nil, fmt.Errorf("boom")
	})

	ready := make(chan struct{})
	go func() {
		close(ready)
		_ = srv.ListenAndServe(context.Background())
	}()
	<-ready
	// Give the listener a moment to bind before clients dial it.
	time.Sleep(20 * time.Millisecond)
	return addr, srv
}

func TestClientServerEchoRoundTrip(t *testing.T) {
	addr, srv := startTestServer(t)
	defer srv.Close()

	client, err := Open(context.Background(), "tcp://"+addr+"/echo")
	require.NoError(t, err)
	defer client.Close()

	reply, err := client.Invoke(context.Background(), "Echo", "IEcho", false, []byte("ping"))
	require.NoError(t, err)
	require.Equal(t, []byte("ping"), reply)
}

func TestClientServerHandlerError(t *testing.T) {
	addr, srv := startTestServer(t)
	defer srv.Close()

	client, err := Open(context.Background(), "tcp://"+addr+"/boom")
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Invoke(context.Background(), "Boom", "IBoom", false, nil)
	require.Error(t, err)
}

func TestClientServerUnknownPath(t *testing.T) {
	addr, srv := startTestServer(t)
	defer srv.Close()

	client, err := Open(context.Background(), "tcp://"+addr+"/missing")
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Invoke(context.Background(), "Missing", "IMissing", false, nil)
	require.Error(t, err)
}

func TestOpenRejectsBadScheme(t *testing.T) {
	_, err := Open(context.Background(), "http://127.0.0.1:9/foo")
	require.ErrorIs(t, err, ErrBadURI)
}

func TestInvokeWithoutOpenFails(t *testing.T) {
	c := &Client{}
	_, err := c.Invoke(context.Background(), "X", "IX", false, nil)
	require.ErrorIs(t, err, ErrNotConnected)
}
