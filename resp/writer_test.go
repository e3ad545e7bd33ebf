package resp

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCommand(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *Command
		expected string
	}{
		{
			name:     "ping",
			cmd:      NewCommand(CmdPing),
			expected: "PING\r\n",
		},
		{
			name:     "masters",
			cmd:      NewCommand(CmdSentinel, SubMasters),
			expected: "SENTINEL masters\r\n",
		},
		{
			name:     "slaves",
			cmd:      NewCommand(CmdSentinel, SubSlaves, "mymaster"),
			expected: "SENTINEL slaves mymaster\r\n",
		},
		{
			name:     "get master addr",
			cmd:      NewCommand(CmdSentinel, SubGetMasterAddrByName, "mymaster"),
			expected: "SENTINEL get-master-addr-by-name mymaster\r\n",
		},
		{
			name:     "is master down",
			cmd:      NewCommand(CmdSentinel, SubIsMasterDownByAddr, "10.0.0.1", "6379"),
			expected: "SENTINEL is-master-down-by-addr 10.0.0.1 6379\r\n",
		},
		{
			name:     "reset glob",
			cmd:      NewCommand(CmdSentinel, SubReset, "cache-*"),
			expected: "SENTINEL reset cache-*\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCommand(&buf, tt.cmd))
			assert.Equal(t, tt.expected, buf.String())

			// Same bytes through a bufio.Writer
			var out bytes.Buffer
			bw := bufio.NewWriter(&out)
			require.NoError(t, WriteCommand(bw, tt.cmd))
			assert.Equal(t, tt.expected, out.String())

			assert.Equal(t, strings.TrimSuffix(tt.expected, CRLF), tt.cmd.String())
		})
	}
}

func TestWriteCommand_RejectsUnsafeArguments(t *testing.T) {
	tests := []struct {
		name string
		cmd  *Command
	}{
		{name: "empty argument", cmd: NewCommand(CmdSentinel, SubSlaves, "")},
		{name: "space", cmd: NewCommand(CmdSentinel, SubSlaves, "my master")},
		{name: "tab", cmd: NewCommand(CmdSentinel, SubSlaves, "my\tmaster")},
		{name: "CRLF injection", cmd: NewCommand(CmdSentinel, SubReset, "*\r\nSENTINEL FLUSHCONFIG")},
		{name: "bare LF", cmd: NewCommand(CmdSentinel, SubReset, "a\nb")},
		{name: "NUL byte", cmd: NewCommand(CmdSentinel, SubReset, "a\x00b")},
		{name: "empty command name", cmd: NewCommand("")},
		{name: "command name with space", cmd: NewCommand("SENTINEL masters")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WriteCommand(&buf, tt.cmd)
			require.Error(t, err)

			var argErr *InvalidArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.False(t, ShouldCloseConnection(err))
			assert.Zero(t, buf.Len(), "nothing must be written for an invalid command")
		})
	}
}

func TestValidateArg(t *testing.T) {
	assert.NoError(t, ValidateArg("mymaster"))
	assert.NoError(t, ValidateArg("10.0.0.1"))
	assert.NoError(t, ValidateArg("*"))
	assert.Error(t, ValidateArg(""))
	assert.Error(t, ValidateArg(" "))
	assert.Error(t, ValidateArg("a\rb"))
}

func TestWriteReply(t *testing.T) {
	tests := []struct {
		name     string
		reply    Reply
		expected string
	}{
		{"simple string", SimpleString("OK"), "+OK\r\n"},
		{"error", SimpleError("ERR boom"), "-ERR boom\r\n"},
		{"integer", Integer(-12), ":-12\r\n"},
		{"bulk string", BulkString("hello"), "$5\r\nhello\r\n"},
		{"empty bulk string", BulkString{}, "$0\r\n\r\n"},
		{"null bulk string", BulkString(nil), "$-1\r\n"},
		{"null array", Array(nil), "*-1\r\n"},
		{"empty array", Array{}, "*0\r\n"},
		{
			"nested array",
			Array{Array{Integer(5)}, BulkString("x")},
			"*2\r\n*1\r\n:5\r\n$1\r\nx\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteReply(&buf, tt.reply))
			assert.Equal(t, tt.expected, buf.String())

			decoded, err := NewReader(&buf, WithRawBulkStrings()).ReadReply()
			require.NoError(t, err)
			assert.Equal(t, tt.reply, decoded)
		})
	}
}

func TestBulkRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		[]byte("x"),
		[]byte("mymaster"),
		bytes.Repeat([]byte("ab"), 5000),
		{0x00, 0xff, '$', '*', '\r', 'z'},
		[]byte("trailing CR\r"),
	}

	for _, payload := range payloads {
		encoded := AppendReply(nil, BulkString(payload))

		reply, err := NewReader(bytes.NewReader(encoded)).ReadReply()
		require.NoError(t, err)
		assert.Equal(t, BulkString(payload), reply)
	}
}
