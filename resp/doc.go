// Package resp provides the low-level wire protocol used to talk to a
// Redis Sentinel: request lines going out, replies coming back.
//
// This package serves as the foundation of the sentinel client. It focuses
// on correct serialization and parsing and makes no connection management
// decisions.
//
// # Requests
//
// A request is a single text line, arguments separated by one space and
// terminated by CRLF. There is no quoting, so every argument is validated
// before anything is written:
//
//	cmd := resp.NewCommand(resp.CmdSentinel, resp.SubSlaves, "mymaster")
//	err := resp.WriteCommand(conn, cmd) // "SENTINEL slaves mymaster\r\n"
//
// # Replies
//
// Replies use the server's self-describing reply grammar. Every reply starts
// with a type prefix:
//
//	+  SimpleString  remainder of the line
//	-  SimpleError   remainder of the line
//	:  Integer       base-10 signed integer
//	$  BulkString    length, then exactly length bytes and CRLF ($-1 is null)
//	*  Array         count, then count nested replies (*-1 is null)
//
// Reader decodes one complete reply per call, recursing into arrays:
//
//	r := resp.NewReader(conn)
//	reply, err := r.ReadReply()
//	if err != nil {
//	    if resp.ShouldCloseConnection(err) {
//	        conn.Close()
//	    }
//	    return err
//	}
//	switch v := reply.(type) {
//	case resp.Array:
//	    // ...
//	case resp.SimpleError:
//	    return &resp.ServerError{Message: string(v)}
//	}
//
// Bulk string payloads have embedded CRLF sequences normalized to LF
// (multi-line informational payloads); use WithRawBulkStrings for a
// byte-exact decoding.
//
// # Error Handling
//
//   - ParseError: malformed or truncated reply, CLOSE connection
//   - ConnectionError: network/I/O error, connection already broken
//   - ServerError: the Sentinel answered with an error reply, connection can be REUSED
//   - InvalidArgumentError: command rejected before writing, connection can be REUSED
//
// # Thread Safety
//
// A Reader is not safe for concurrent use. WriteCommand and WriteReply are
// safe as long as different io.Writer instances are used per goroutine.
package resp
