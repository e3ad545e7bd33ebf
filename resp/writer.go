package resp

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pior/sentinel/internal"
)

// Request lines are short; buffers that grew past 4KB are not kept.
var bufferPool = internal.NewByteBufferPool(128, 4096)

// Command is one request line: a command name followed by its arguments.
type Command struct {
	Name string
	Args []string
}

// NewCommand creates a command. Arguments are not validated until the
// command is written.
func NewCommand(name string, args ...string) *Command {
	return &Command{Name: name, Args: args}
}

// String returns the request line without its terminator.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + Space + strings.Join(c.Args, Space)
}

// ValidateArg checks that arg can be sent as one token of a request line.
//
// The request line has no quoting: an argument containing a separator or a
// line terminator would split into several arguments or inject a second
// command.
func ValidateArg(arg string) error {
	if arg == "" {
		return &InvalidArgumentError{Message: "argument is empty"}
	}

	if strings.ContainsAny(arg, " \t\r\n\x00") {
		return &InvalidArgumentError{Message: "argument contains whitespace or control characters: " + strconv.Quote(arg)}
	}

	return nil
}

// Validate checks the command name and every argument with ValidateArg.
func (c *Command) Validate() error {
	if err := ValidateArg(c.Name); err != nil {
		return &InvalidArgumentError{Message: "invalid command name: " + err.Error()}
	}
	for _, arg := range c.Args {
		if err := ValidateArg(arg); err != nil {
			return err
		}
	}
	return nil
}

// WriteCommand serializes cmd as "NAME arg1 arg2\r\n" and writes it to w.
//
// The command is validated first; an invalid command returns an
// InvalidArgumentError and nothing is written.
// A *bufio.Writer is written to directly and flushed.
func WriteCommand(w io.Writer, cmd *Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if bw, ok := w.(*bufio.Writer); ok {
		appendCommand(bw, cmd)
		return bw.Flush()
	}

	buf := bufferPool.Get()
	defer bufferPool.Put(buf)

	appendCommand(buf, cmd)
	_, err := w.Write(buf.Bytes())
	return err
}

type stringWriter interface {
	io.Writer
	io.StringWriter
}

func appendCommand(w stringWriter, cmd *Command) {
	w.WriteString(cmd.Name)
	for _, arg := range cmd.Args {
		w.WriteString(Space)
		w.WriteString(arg)
	}
	w.WriteString(CRLF)
}

// WriteReply serializes r in reply grammar and writes it to w.
// This is the encoding a Sentinel uses; the client only needs it for tests
// and tooling.
func WriteReply(w io.Writer, r Reply) error {
	buf := bufferPool.Get()
	defer bufferPool.Put(buf)

	buf.Write(AppendReply(buf.AvailableBuffer(), r))
	_, err := w.Write(buf.Bytes())
	return err
}

// AppendReply appends the wire encoding of r to dst.
func AppendReply(dst []byte, r Reply) []byte {
	switch v := r.(type) {
	case SimpleString:
		dst = append(dst, byte(TypeSimpleString))
		dst = append(dst, v...)
	case SimpleError:
		dst = append(dst, byte(TypeError))
		dst = append(dst, v...)
	case Integer:
		dst = append(dst, byte(TypeInteger))
		dst = strconv.AppendInt(dst, int64(v), 10)
	case BulkString:
		dst = append(dst, byte(TypeBulkString))
		if v.IsNull() {
			dst = strconv.AppendInt(dst, nullLength, 10)
			break
		}
		dst = strconv.AppendInt(dst, int64(len(v)), 10)
		dst = append(dst, CRLF...)
		dst = append(dst, v...)
	case Array:
		dst = append(dst, byte(TypeArray))
		if v.IsNull() {
			dst = strconv.AppendInt(dst, nullLength, 10)
			break
		}
		dst = strconv.AppendInt(dst, int64(len(v)), 10)
		dst = append(dst, CRLF...)
		for _, elem := range v {
			dst = AppendReply(dst, elem)
		}
		// elements carry their own terminators
		return dst
	}
	return append(dst, CRLF...)
}
