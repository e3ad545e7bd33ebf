package testutils

import (
	"bytes"
	"net"
	"strings"
	"time"
)

// ConnectionMock is a mock implementation of net.Conn for testing.
// Reads are served from the configured replies, writes are recorded.
type ConnectionMock struct {
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	closed   bool

	// ReadDeadline and WriteDeadline record the last deadlines set.
	ReadDeadline  time.Time
	WriteDeadline time.Time
}

// NewConnectionMock creates a new mock connection with pre-configured reply data
func NewConnectionMock(replyData ...string) *ConnectionMock {
	readBuf := bytes.NewBufferString(strings.Join(replyData, ""))
	return &ConnectionMock{
		readBuf:  readBuf,
		writeBuf: &bytes.Buffer{},
	}
}

func (m *ConnectionMock) Read(b []byte) (n int, err error) {
	return m.readBuf.Read(b)
}

func (m *ConnectionMock) Write(b []byte) (n int, err error) {
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (m *ConnectionMock) IsClosed() bool {
	return m.closed
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 26379}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error {
	m.ReadDeadline = t
	m.WriteDeadline = t
	return nil
}

func (m *ConnectionMock) SetReadDeadline(t time.Time) error {
	m.ReadDeadline = t
	return nil
}

func (m *ConnectionMock) SetWriteDeadline(t time.Time) error {
	m.WriteDeadline = t
	return nil
}

// GetWrittenRequest returns the raw request bytes written to the mock connection
func (m *ConnectionMock) GetWrittenRequest() string {
	return m.writeBuf.String()
}

// Unread returns the reply bytes not consumed yet.
func (m *ConnectionMock) Unread() int {
	return m.readBuf.Len()
}
