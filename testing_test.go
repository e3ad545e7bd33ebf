package sentinel

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/pior/sentinel/internal/testutils"
	"github.com/stretchr/testify/require"
)

func createListener(t testing.TB, handler func(conn net.Conn)) (string, int) {
	// Start a simple test server
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start test server: %v", err)
	}

	t.Cleanup(func() {
		listener.Close()
	})

	// Accept connections in background
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}

			go func(c net.Conn) {
				defer c.Close()

				if handler != nil {
					handler(c)
				}
			}(conn)
		}
	}()

	addr := listener.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

// silentHandler reads requests and never replies.
func silentHandler(conn net.Conn) {
	buf := make([]byte, 256)
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
	}
}

// closedPort returns an address nothing listens on.
func closedPort(t testing.TB) (string, int) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := listener.Addr().(*net.TCPAddr)
	require.NoError(t, listener.Close())
	return addr.IP.String(), addr.Port
}

func newTestClient(t testing.TB, s *testutils.FakeSentinel, config Config) *Client {
	t.Helper()
	client := NewClient(s.Host(), s.Port(), config)
	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
