package sentinel

import (
	"bufio"
	"context"
	"errors"
	"net"
	"time"

	"github.com/pior/sentinel/resp"
)

var (
	errStaleData = errors.New("sentinel: unread data on idle connection")

	// aLongTimeAgo is a deadline in the past, used to unblock pending I/O
	aLongTimeAgo = time.Unix(1, 0)
)

// Connection is one socket to a Sentinel with its reply reader.
// It is not safe for concurrent use; the Client serializes access.
type Connection struct {
	net.Conn
	reader *resp.Reader
	writer *bufio.Writer

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConnection wraps conn.
func NewConnection(conn net.Conn, opts ...resp.ReaderOption) *Connection {
	return &Connection{
		Conn:   conn,
		reader: resp.NewReader(bufio.NewReader(conn), opts...),
		writer: bufio.NewWriter(conn),
	}
}

// Send writes cmd and reads exactly one reply.
//
// The context deadline, or the read/write timeouts when shorter, bound the
// exchange. Cancelling ctx unblocks a pending read. Deadlines are cleared
// before returning so the idle socket can be probed.
func (c *Connection) Send(ctx context.Context, cmd *resp.Command) (resp.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.Conn.SetDeadline(aLongTimeAgo)
	})
	defer func() {
		stop()
		_ = c.Conn.SetDeadline(time.Time{})
	}()

	_ = c.Conn.SetWriteDeadline(deadline(ctx, c.writeTimeout))
	if err := resp.WriteCommand(c.writer, cmd); err != nil {
		var argErr *resp.InvalidArgumentError
		if errors.As(err, &argErr) {
			return nil, err
		}
		return nil, withContext(ctx, &resp.ConnectionError{Op: "write", Err: err})
	}

	_ = c.Conn.SetReadDeadline(deadline(ctx, c.readTimeout))
	reply, err := c.reader.ReadReply()
	if err != nil {
		return nil, withContext(ctx, err)
	}

	return reply, nil
}

// Check reports whether the idle connection can carry another command.
// Unread bytes or a peer half-close make it unusable.
func (c *Connection) Check() error {
	if c.reader.Buffered() > 0 {
		return errStaleData
	}
	return connCheck(c.Conn)
}

// deadline returns the earliest of the context deadline and now+timeout.
// The zero time means no deadline.
func deadline(ctx context.Context, timeout time.Duration) time.Time {
	d, ok := ctx.Deadline()
	if timeout > 0 {
		if t := time.Now().Add(timeout); !ok || t.Before(d) {
			return t
		}
	}
	if ok {
		return d
	}
	return time.Time{}
}

// withContext attaches the context error, if any, to an I/O failure.
func withContext(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(err, ctxErr)
	}
	return err
}
