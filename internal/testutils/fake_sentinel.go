package testutils

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/pior/sentinel/resp"
)

// FakeSentinel is a scripted Sentinel server listening on a loopback port.
//
// Each request line is answered with the reply registered for it, or with
// an error reply for unknown commands. Unlike a real Sentinel it can close
// connections after each reply to exercise half-close handling.
type FakeSentinel struct {
	listener net.Listener

	mu              sync.Mutex
	replies         map[string][]byte
	received        []string
	accepted        int
	closed          int
	closeAfterReply bool
}

// NewFakeSentinel starts a fake server that stops when the test ends.
func NewFakeSentinel(t testing.TB) *FakeSentinel {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start fake sentinel: %v", err)
	}

	s := &FakeSentinel{
		listener: listener,
		replies:  map[string][]byte{},
	}
	s.Reply(resp.CmdPing, resp.SimpleString(resp.ReplyPong))

	t.Cleanup(func() {
		listener.Close()
	})

	go s.serve()

	return s
}

// Addr returns host:port of the listener.
func (s *FakeSentinel) Addr() string {
	return s.listener.Addr().String()
}

// Host returns the listener IP.
func (s *FakeSentinel) Host() string {
	return s.listener.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listener port.
func (s *FakeSentinel) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Reply registers the reply sent for a request line (without CRLF).
func (s *FakeSentinel) Reply(line string, reply resp.Reply) {
	s.ReplyRaw(line, string(resp.AppendReply(nil, reply)))
}

// ReplyRaw registers raw bytes sent for a request line, for malformed replies.
func (s *FakeSentinel) ReplyRaw(line string, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[line] = []byte(raw)
}

// CloseAfterReply makes the server close each connection after one reply.
func (s *FakeSentinel) CloseAfterReply(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAfterReply = enabled
}

// Received returns the request lines received so far.
func (s *FakeSentinel) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}

// Connections returns the number of accepted connections.
func (s *FakeSentinel) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

// ClosedConnections returns the number of connections closed by the server.
func (s *FakeSentinel) ClosedConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *FakeSentinel) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		s.accepted++
		s.mu.Unlock()

		go s.handle(conn)
	}
}

func (s *FakeSentinel) handle(conn net.Conn) {
	defer func() {
		conn.Close()
		s.mu.Lock()
		s.closed++
		s.mu.Unlock()
	}()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSuffix(line, resp.CRLF)

		s.mu.Lock()
		s.received = append(s.received, line)
		reply, ok := s.replies[line]
		closeAfter := s.closeAfterReply
		s.mu.Unlock()

		if !ok {
			reply = resp.AppendReply(nil, resp.SimpleError("ERR unknown command "+strconv.Quote(line)))
		}

		if _, err := conn.Write(reply); err != nil {
			return
		}

		if closeAfter {
			return
		}
	}
}
