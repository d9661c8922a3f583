package persist

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeRecords(&buf, []string{"buy milk", "walk the dog"}))
	assert.Equal(t, "buy milk\nwalk the dog\n", buf.String())

	buf.Reset()
	require.NoError(t, EncodeRecords(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "only newlines", input: "\n\n\n", want: []string{}},
		{name: "terminated", input: "a\nb\n", want: []string{"a", "b"}},
		{name: "unterminated tail", input: "a\nb", want: []string{"a", "b"}},
		{name: "blank records skipped", input: "a\n\n\nb\n", want: []string{"a", "b"}},
		{name: "whitespace-only records skipped", input: "a\n   \n\t\nb\n", want: []string{"a", "b"}},
		{name: "spaces kept", input: "  a  \n", want: []string{"  a  "}},
		{name: "carriage return kept", input: "a\r\n", want: []string{"a\r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRecords(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRecords_LongRecord(t *testing.T) {
	long := strings.Repeat("x", 200*1024)

	got, err := DecodeRecords(strings.NewReader(long + "\nshort\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[0], len(long))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestDecodeRecords_ReadError(t *testing.T) {
	_, err := DecodeRecords(failingReader{})
	assert.Error(t, err)
}
