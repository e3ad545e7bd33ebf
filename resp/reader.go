package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

// Pre-allocated byte slices for comparisons (avoid allocation in hot path)
var (
	crlfBytes = []byte(CRLF)
	lfBytes   = []byte("\n")
)

// Reader decodes replies from a stream.
//
// It keeps no state between replies besides the buffered bytes of the
// underlying bufio.Reader, so one Reader must be used per connection for
// the lifetime of that connection.
type Reader struct {
	br       *bufio.Reader
	rawBulks bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithRawBulkStrings disables the CRLF to LF normalization of bulk string
// payloads, making decoding byte-exact.
func WithRawBulkStrings() ReaderOption {
	return func(r *Reader) {
		r.rawBulks = true
	}
}

// NewReader creates a Reader on r. If r is already a *bufio.Reader it is
// used as is.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	reader := &Reader{br: br}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// Buffered returns the number of bytes read from the stream but not yet
// consumed by a reply.
func (r *Reader) Buffered() int {
	return r.br.Buffered()
}

// Reset discards buffered data and switches to reading from src.
func (r *Reader) Reset(src io.Reader) {
	r.br.Reset(src)
}

// ReadReply reads and decodes exactly one reply, recursing into arrays.
//
// Go errors returned:
//   - ParseError: malformed or truncated reply, the stream is unusable.
//     Errors caused by the stream ending wrap io.EOF or io.ErrUnexpectedEOF.
//   - ConnectionError: any other I/O failure (timeouts, resets).
//
// An error reply from the server is NOT a Go error: it is returned as a
// SimpleError value.
func (r *Reader) ReadReply() (Reply, error) {
	return readReply(r.br, !r.rawBulks)
}

// ReadReply reads one reply from br with CRLF normalization of bulk
// payloads enabled.
func ReadReply(br *bufio.Reader) (Reply, error) {
	return readReply(br, true)
}

func readReply(br *bufio.Reader, normalize bool) (Reply, error) {
	line, err := readLine(br)
	if err != nil {
		return nil, err
	}

	if len(line) == 0 {
		return nil, &ParseError{Message: "empty reply line"}
	}

	payload := line[1:]

	switch Type(line[0]) {
	case TypeSimpleString:
		return SimpleString(payload), nil

	case TypeError:
		return SimpleError(payload), nil

	case TypeInteger:
		n, err := strconv.ParseInt(string(payload), 10, 64)
		if err != nil {
			return nil, &ParseError{Message: "invalid integer reply", Err: err}
		}
		return Integer(n), nil

	case TypeBulkString:
		length, err := parseLength(payload, MaxBulkLength, "bulk string")
		if err != nil {
			return nil, err
		}
		if length == nullLength {
			return BulkString(nil), nil
		}
		bulk, err := readBulk(br, length, normalize)
		if err != nil {
			return nil, err
		}
		return bulk, nil

	case TypeArray:
		count, err := parseLength(payload, MaxArrayLength, "array")
		if err != nil {
			return nil, err
		}
		if count == nullLength {
			return Array(nil), nil
		}

		// Cap the pre-allocation: the count is untrusted until the
		// elements actually arrive.
		arr := make(Array, 0, min(count, 1024))
		for range count {
			elem, err := readReply(br, normalize)
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil

	default:
		return nil, &ParseError{Message: "unknown reply type " + strconv.QuoteRune(rune(line[0]))}
	}
}

// readLine returns the next line without its CRLF terminator.
// The returned slice is only valid until the next read on br.
func readLine(br *bufio.Reader) ([]byte, error) {
	// ReadSlice avoids an allocation; fall back to ReadBytes for lines
	// longer than the buffer.
	line, err := br.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		head := append([]byte(nil), line...)
		var rest []byte
		rest, err = br.ReadBytes('\n')
		line = append(head, rest...)
	}
	if err != nil {
		return nil, streamError("line", err)
	}

	if !bytes.HasSuffix(line, crlfBytes) {
		return nil, &ParseError{Message: "line not terminated by CRLF"}
	}

	return line[:len(line)-len(crlfBytes)], nil
}

// parseLength parses the declared length of a bulk string or array.
// Returns nullLength for the null form.
func parseLength(b []byte, limit int, what string) (int, error) {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, &ParseError{Message: "invalid " + what + " length", Err: err}
	}
	if n < nullLength {
		return 0, &ParseError{Message: "negative " + what + " length " + strconv.Itoa(n)}
	}
	if n > limit {
		return 0, &ParseError{Message: what + " length " + strconv.Itoa(n) + " exceeds limit"}
	}
	return n, nil
}

func readBulk(br *bufio.Reader, length int, normalize bool) (BulkString, error) {
	// Read data + CRLF together in single read
	data := make([]byte, length+len(crlfBytes))
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, streamError("bulk string payload", err)
	}

	if !bytes.HasSuffix(data, crlfBytes) {
		return nil, &ParseError{Message: "invalid bulk string terminator"}
	}
	data = data[:length]

	if normalize && bytes.Contains(data, crlfBytes) {
		data = bytes.ReplaceAll(data, crlfBytes, lfBytes)
	}

	return BulkString(data), nil
}

// streamError classifies a read failure: the stream ending in the middle
// of a reply is a protocol violation, anything else is a broken connection.
func streamError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{Message: "stream ended while reading " + what, Err: err}
	}
	return &ConnectionError{Op: "read", Err: err}
}
