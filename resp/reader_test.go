package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOne(t *testing.T, input string, opts ...ReaderOption) (Reply, error) {
	t.Helper()
	return NewReader(strings.NewReader(input), opts...).ReadReply()
}

func TestReadReply(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Reply
	}{
		{
			name:     "simple string",
			input:    "+PONG\r\n",
			expected: SimpleString("PONG"),
		},
		{
			name:     "empty simple string",
			input:    "+\r\n",
			expected: SimpleString(""),
		},
		{
			name:     "error",
			input:    "-ERR No such master with that name\r\n",
			expected: SimpleError("ERR No such master with that name"),
		},
		{
			name:     "integer",
			input:    ":42\r\n",
			expected: Integer(42),
		},
		{
			name:     "negative integer",
			input:    ":-7\r\n",
			expected: Integer(-7),
		},
		{
			name:     "bulk string",
			input:    "$8\r\nmymaster\r\n",
			expected: BulkString("mymaster"),
		},
		{
			name:     "empty bulk string",
			input:    "$0\r\n\r\n",
			expected: BulkString{},
		},
		{
			name:     "null bulk string",
			input:    "$-1\r\n",
			expected: BulkString(nil),
		},
		{
			name:     "null array",
			input:    "*-1\r\n",
			expected: Array(nil),
		},
		{
			name:     "empty array",
			input:    "*0\r\n",
			expected: Array{},
		},
		{
			name:     "nested arrays",
			input:    "*1\r\n*1\r\n:5\r\n",
			expected: Array{Array{Integer(5)}},
		},
		{
			name:  "mixed array",
			input: "*4\r\n+OK\r\n:1\r\n$3\r\nfoo\r\n$-1\r\n",
			expected: Array{
				SimpleString("OK"),
				Integer(1),
				BulkString("foo"),
				BulkString(nil),
			},
		},
		{
			name:  "master down reply",
			input: "*2\r\n:0\r\n$1\r\n*\r\n",
			expected: Array{
				Integer(0),
				BulkString("*"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := readOne(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, reply)
		})
	}
}

func TestReadReply_NullDistinctFromEmpty(t *testing.T) {
	null, err := readOne(t, "$-1\r\n")
	require.NoError(t, err)
	assert.True(t, null.(BulkString).IsNull())

	empty, err := readOne(t, "$0\r\n\r\n")
	require.NoError(t, err)
	assert.False(t, empty.(BulkString).IsNull())

	nullArr, err := readOne(t, "*-1\r\n")
	require.NoError(t, err)
	assert.True(t, nullArr.(Array).IsNull())

	emptyArr, err := readOne(t, "*0\r\n")
	require.NoError(t, err)
	assert.False(t, emptyArr.(Array).IsNull())
}

func TestReadReply_MastersReply(t *testing.T) {
	input := "*2\r\n" +
		"*2\r\n$4\r\nname\r\n$8\r\nmymaster\r\n" +
		"*2\r\n$4\r\nname\r\n$6\r\nother1\r\n"

	reply, err := readOne(t, input)
	require.NoError(t, err)

	expected := Array{
		Array{BulkString("name"), BulkString("mymaster")},
		Array{BulkString("name"), BulkString("other1")},
	}
	assert.Equal(t, expected, reply)
}

func TestReadReply_DeepNesting(t *testing.T) {
	const depth = 200
	input := strings.Repeat("*1\r\n", depth) + ":9\r\n"

	reply, err := readOne(t, input)
	require.NoError(t, err)

	for range depth {
		arr, ok := reply.(Array)
		require.True(t, ok)
		require.Len(t, arr, 1)
		reply = arr[0]
	}
	assert.Equal(t, Integer(9), reply)
}

func TestReadReply_BulkCRLFNormalization(t *testing.T) {
	input := "$12\r\nline1\r\nline2\r\n"

	reply, err := readOne(t, input)
	require.NoError(t, err)
	assert.Equal(t, BulkString("line1\nline2"), reply)

	raw, err := readOne(t, input, WithRawBulkStrings())
	require.NoError(t, err)
	assert.Equal(t, BulkString("line1\r\nline2"), raw)
}

func TestReadReply_BulkWithBareLF(t *testing.T) {
	reply, err := readOne(t, "$5\r\na\nb\nc\r\n")
	require.NoError(t, err)
	assert.Equal(t, BulkString("a\nb\nc"), reply)
}

func TestReadReply_SequentialReplies(t *testing.T) {
	r := NewReader(strings.NewReader("+PONG\r\n:3\r\n$-1\r\n"))

	first, err := r.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, SimpleString("PONG"), first)

	second, err := r.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, Integer(3), second)

	third, err := r.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, BulkString(nil), third)

	assert.Equal(t, 0, r.Buffered())
}

func TestReadReply_PartialReads(t *testing.T) {
	input := "*3\r\n$5\r\nhello\r\n:12345\r\n*2\r\n+a\r\n$3\r\nb\r\n\r\n"

	// OneByteReader delivers the stream one byte per Read call.
	r := NewReader(iotest.OneByteReader(strings.NewReader(input)))
	reply, err := r.ReadReply()
	require.NoError(t, err)

	// normalization applies to the nested bulk string
	assert.Equal(t, Array{
		BulkString("hello"),
		Integer(12345),
		Array{SimpleString("a"), BulkString("b\n")},
	}, reply)
}

func TestReadReply_LongLine(t *testing.T) {
	long := strings.Repeat("x", 10000)
	reply, err := NewReader(bufio.NewReaderSize(strings.NewReader("+"+long+"\r\n"), 16)).ReadReply()
	require.NoError(t, err)
	assert.Equal(t, SimpleString(long), reply)
}

func TestReadReply_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		isEOF bool
	}{
		{name: "empty input", input: "", isEOF: true},
		{name: "empty line", input: "\r\n"},
		{name: "unterminated line", input: "+PONG", isEOF: true},
		{name: "LF only terminator", input: "+PONG\n"},
		{name: "unknown type", input: "!oops\r\n"},
		{name: "invalid integer", input: ":abc\r\n"},
		{name: "integer overflow", input: ":99999999999999999999\r\n"},
		{name: "invalid bulk length", input: "$x\r\n"},
		{name: "negative bulk length", input: "$-2\r\n"},
		{name: "bulk length over limit", input: "$1073741824\r\n"},
		{name: "truncated bulk payload", input: "$10\r\nabc", isEOF: true},
		{name: "bulk missing terminator", input: "$3\r\nabc", isEOF: true},
		{name: "bulk wrong terminator", input: "$3\r\nabcXY"},
		{name: "invalid array count", input: "*x\r\n"},
		{name: "negative array count", input: "*-5\r\n"},
		{name: "array count over limit", input: "*99999999\r\n"},
		{name: "truncated array", input: "*3\r\n:1\r\n:2\r\n", isEOF: true},
		{name: "bad nested element", input: "*2\r\n:1\r\n?\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := readOne(t, tt.input)
			require.Error(t, err)
			assert.Nil(t, reply)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.True(t, ShouldCloseConnection(err))

			if tt.isEOF {
				assert.True(t, errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF),
					"expected EOF in chain, got %v", err)
			}
		})
	}
}

func TestReadReply_TruncatedBulkDoesNotReturnPartialData(t *testing.T) {
	// Declared length exceeds what the peer sends before closing.
	reply, err := readOne(t, "$100\r\n"+strings.Repeat("a", 50))
	require.Error(t, err)
	assert.Nil(t, reply)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadReply_ConnectionError(t *testing.T) {
	boom := errors.New("connection reset by peer")
	r := NewReader(iotest.ErrReader(boom))

	_, err := r.ReadReply()
	require.Error(t, err)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "read", connErr.Op)
	assert.ErrorIs(t, err, boom)
}

func TestReadReply_PackageFunction(t *testing.T) {
	br := bufio.NewReader(bytes.NewBufferString("$4\r\na\r\nb\r\n"))
	reply, err := ReadReply(br)
	require.NoError(t, err)
	assert.Equal(t, BulkString("a\nb"), reply)
}

func TestNewReader_ReusesBufioReader(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("+OK\r\n+NEXT\r\n"))
	r := NewReader(br)

	_, err := r.ReadReply()
	require.NoError(t, err)

	// The remaining bytes stay in the caller's reader.
	line, err := br.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "+NEXT\r\n", line)
}

func TestText(t *testing.T) {
	tests := []struct {
		reply Reply
		text  string
		ok    bool
	}{
		{SimpleString("PONG"), "PONG", true},
		{BulkString("mymaster"), "mymaster", true},
		{BulkString{}, "", true},
		{Integer(-3), "-3", true},
		{BulkString(nil), "", false},
		{SimpleError("ERR"), "", false},
		{Array{Integer(1)}, "", false},
		{nil, "", false},
	}

	for _, tt := range tests {
		text, ok := Text(tt.reply)
		assert.Equal(t, tt.ok, ok, "reply %#v", tt.reply)
		assert.Equal(t, tt.text, text, "reply %#v", tt.reply)
	}
}

func TestReplyString(t *testing.T) {
	assert.Equal(t, "PONG", SimpleString("PONG").String())
	assert.Equal(t, "(error) ERR x", SimpleError("ERR x").String())
	assert.Equal(t, "12", Integer(12).String())
	assert.Equal(t, "(nil)", BulkString(nil).String())
	assert.Equal(t, "(nil)", Array(nil).String())
	assert.Equal(t, "[a, 1, [b]]", Array{BulkString("a"), Integer(1), Array{SimpleString("b")}}.String())
}
