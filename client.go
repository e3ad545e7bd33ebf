// Package sentinel is a client for Redis Sentinel.
//
// A Client owns a single connection, dialed on demand, and exposes the
// Sentinel commands used for service discovery and failover inspection:
// PING, SENTINEL masters, slaves, get-master-addr-by-name,
// is-master-down-by-addr and reset. One command is in flight at a time.
//
// The client never retries. Connection failures, protocol errors and error
// replies are returned to the caller as distinct error types:
//
//   - *NoConnectionError (errors.Is(err, ErrNoConnection)): dial failed
//   - *resp.ServerError: the Sentinel replied with an error, connection kept
//   - *resp.ParseError: malformed or unexpected reply
//   - *resp.ConnectionError: I/O failure on an established connection
//   - *resp.InvalidArgumentError: argument rejected before anything was sent
package sentinel

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pior/sentinel/resp"
)

// Config holds configuration for the Sentinel client.
type Config struct {
	// Dialer is the net.Dialer used to connect.
	// If nil, the default net.Dialer is used.
	Dialer *net.Dialer

	// ReadTimeout bounds the wait for a reply.
	// Zero means no limit besides the context deadline.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing a command.
	// Zero means no limit besides the context deadline.
	WriteTimeout time.Duration

	// Logger receives debug logs about the connection lifecycle.
	// If nil, nothing is logged.
	Logger *slog.Logger

	// RawBulkStrings keeps CRLF sequences inside bulk replies as sent.
	RawBulkStrings bool

	// for testing purposes only
	dial func(ctx context.Context, addr string) (net.Conn, error)
}

// Client is a Sentinel client bound to one Sentinel address.
// It is safe for concurrent use; commands are serialized.
type Client struct {
	addr   string
	config Config
	dial   func(ctx context.Context, addr string) (net.Conn, error)
	logger *slog.Logger

	mu   sync.Mutex // serializes commands
	conn *Connection

	// live and closed are read by Close without mu, so that a command
	// blocked on a silent peer cannot hold up teardown.
	live   atomic.Pointer[Connection]
	closed atomic.Bool

	stats *clientStatsCollector
}

var _ Querier = (*Client)(nil)

// NewClient creates a client for the Sentinel at host:port.
// A port <= 0 selects DefaultPort. No connection is made until the first
// command.
func NewClient(host string, port int, config Config) *Client {
	if port <= 0 {
		port = DefaultPort
	}

	dial := config.dial
	if dial == nil {
		dialer := config.Dialer
		if dialer == nil {
			dialer = &net.Dialer{}
		}
		dial = func(ctx context.Context, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp", addr)
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))

	return &Client{
		addr:   addr,
		config: config,
		dial:   dial,
		logger: logger.With(slog.String("sentinel", addr)),
		stats:  newClientStatsCollector(),
	}
}

// Addr returns the Sentinel address as host:port.
func (c *Client) Addr() string {
	return c.addr
}

// Stats returns a snapshot of the client statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// Close closes the connection, if any. Commands issued after Close return
// ErrClientClosed. A command in flight fails with a ConnectionError.
func (c *Client) Close() error {
	c.closed.Store(true)

	conn := c.live.Swap(nil)
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// Ping reports whether the Sentinel answered PONG.
// Connection failures and any other reply return false.
func (c *Client) Ping(ctx context.Context) bool {
	pong, err := execute(ctx, c, &c.stats.stats.Pings, resp.NewCommand(resp.CmdPing), isPong)
	if err != nil {
		c.logger.Debug("ping failed", slog.Any("error", err))
		return false
	}
	return pong
}

// Masters lists the masters monitored by the Sentinel and their state.
func (c *Client) Masters(ctx context.Context) ([]Record, error) {
	cmd := resp.NewCommand(resp.CmdSentinel, resp.SubMasters)
	return execute(ctx, c, &c.stats.stats.Masters, cmd, parseRecords)
}

// Slaves lists the replicas of the master named master.
func (c *Client) Slaves(ctx context.Context, master string) ([]Record, error) {
	cmd := resp.NewCommand(resp.CmdSentinel, resp.SubSlaves, master)
	return execute(ctx, c, &c.stats.stats.Slaves, cmd, parseRecords)
}

// GetMasterAddrByName resolves the address of the master named master.
// An unknown master is not an error: the result has Found == false.
func (c *Client) GetMasterAddrByName(ctx context.Context, master string) (MasterAddr, error) {
	cmd := resp.NewCommand(resp.CmdSentinel, resp.SubGetMasterAddrByName, master)
	return execute(ctx, c, &c.stats.stats.MasterAddrLookups, cmd, parseMasterAddr)
}

// IsMasterDownByAddr asks the Sentinel whether it considers the master at
// ip:port down.
func (c *Client) IsMasterDownByAddr(ctx context.Context, ip string, port int) (MasterDownReply, error) {
	if port < 0 {
		c.stats.recordCommand(&c.stats.stats.MasterDownQueries)
		c.stats.recordError()
		return MasterDownReply{}, &resp.InvalidArgumentError{Message: "negative port " + strconv.Itoa(port)}
	}

	cmd := resp.NewCommand(resp.CmdSentinel, resp.SubIsMasterDownByAddr, ip, strconv.Itoa(port))
	return execute(ctx, c, &c.stats.stats.MasterDownQueries, cmd, parseMasterDown)
}

// Reset resets the state of every master matching the glob pattern and
// returns how many matched.
func (c *Client) Reset(ctx context.Context, pattern string) (int64, error) {
	cmd := resp.NewCommand(resp.CmdSentinel, resp.SubReset, pattern)
	return execute(ctx, c, &c.stats.stats.Resets, cmd, parseCount)
}

// execute runs one command and decodes its reply.
// Arguments are validated before any connection is made.
func execute[T any](ctx context.Context, c *Client, counter *uint64, cmd *resp.Command, decode func(resp.Reply) (T, error)) (T, error) {
	var zero T
	c.stats.recordCommand(counter)

	if err := cmd.Validate(); err != nil {
		c.stats.recordError()
		return zero, err
	}

	reply, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return zero, err
	}

	result, err := decode(reply)
	if err != nil {
		// The reply was fully consumed, the stream is still aligned.
		c.stats.recordError()
		c.stats.recordProtocolError()
		return zero, err
	}

	return result, nil
}

// roundTrip sends cmd on the connection, dialing first if needed, and
// returns the reply. Error replies are converted to ServerError.
func (c *Client) roundTrip(ctx context.Context, cmd *resp.Command) (resp.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		c.stats.recordError()
		return nil, ErrClientClosed
	}

	// Nothing is sent on a done context, the connection stays usable.
	if err := ctx.Err(); err != nil {
		c.stats.recordError()
		return nil, err
	}

	conn, err := c.connection(ctx)
	if err != nil {
		c.stats.recordError()
		return nil, err
	}

	reply, err := conn.Send(ctx, cmd)
	if err != nil {
		c.stats.recordError()

		var parseErr *resp.ParseError
		if errors.As(err, &parseErr) {
			c.stats.recordProtocolError()
		}

		if resp.ShouldCloseConnection(err) {
			c.logger.Debug("closing connection", slog.String("command", cmd.String()), slog.Any("error", err))
			c.dropConnection()
		}
		return nil, err
	}

	if msg, ok := reply.(resp.SimpleError); ok {
		c.stats.recordError()
		c.stats.recordServerError()
		return nil, &resp.ServerError{Message: string(msg)}
	}

	return reply, nil
}

// connection returns a usable connection, replacing one the peer has
// closed. Must be called with c.mu held.
func (c *Client) connection(ctx context.Context) (*Connection, error) {
	if c.conn != nil {
		err := c.conn.Check()
		if err == nil {
			return c.conn, nil
		}

		c.logger.Debug("dropping stale connection", slog.Any("error", err))
		c.stats.recordReconnect()
		c.dropConnection()
	}

	netConn, err := c.dial(ctx, c.addr)
	if err != nil {
		c.stats.recordConnectFailure()
		return nil, &NoConnectionError{Addr: c.addr, Err: err}
	}

	var opts []resp.ReaderOption
	if c.config.RawBulkStrings {
		opts = append(opts, resp.WithRawBulkStrings())
	}

	conn := NewConnection(netConn, opts...)
	conn.readTimeout = c.config.ReadTimeout
	conn.writeTimeout = c.config.WriteTimeout

	// Publish before re-checking closed: either Close sees the connection
	// or we see Close.
	c.live.Store(conn)
	if c.closed.Load() {
		if c.live.CompareAndSwap(conn, nil) {
			_ = conn.Close()
		}
		return nil, ErrClientClosed
	}

	c.stats.recordConnect()
	c.logger.Debug("connected")

	c.conn = conn
	return conn, nil
}

// dropConnection closes the current connection. Must be called with c.mu
// held.
func (c *Client) dropConnection() {
	// Close may have swapped it out and closed it already.
	if c.live.CompareAndSwap(c.conn, nil) {
		_ = c.conn.Close()
	}
	c.conn = nil
}

func isPong(reply resp.Reply) (bool, error) {
	return reply == resp.SimpleString(resp.ReplyPong), nil
}
