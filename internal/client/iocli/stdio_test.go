package iocli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnAndPrintf(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStream(strings.NewReader(""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s", 1, "abc")
	_, err := stdio.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc!", out.String())
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantEOF bool
	}{
		{name: "single line", input: "user input\n", want: []string{"user input"}, wantEOF: true},
		{name: "trims spaces", input: "  padded \t\n", want: []string{"padded"}, wantEOF: true},
		{name: "several lines", input: "one\ntwo\n", want: []string{"one", "two"}, wantEOF: true},
		{name: "last line without newline", input: "one\ntwo", want: []string{"one", "two"}, wantEOF: true},
		{name: "empty", input: "", want: nil, wantEOF: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			stdio := NewStream(strings.NewReader(tt.input), &out)

			for _, want := range tt.want {
				got, err := stdio.ReadInput("> ")
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			_, err := stdio.ReadInput("> ")
			if tt.wantEOF {
				assert.ErrorIs(t, err, io.EOF)
			}
			assert.True(t, strings.HasPrefix(out.String(), "> "))
		})
	}
}

// Тест ReadInput: читаем из pipe вместо os.Stdin
func TestReadInput_Stdin(t *testing.T) {
	input := "user input\n"
	r, w, err := os.Pipe()
	require.NoError(t, err)

	go func() {
		_, _ = w.Write([]byte(input))
		_ = w.Close()
	}()

	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()
	os.Stdin = r

	stdio := NewStdio()
	result, err := stdio.ReadInput("Prompt: ")
	assert.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(input), result)
}

// Не терминал: секрет читается как обычная строка
func TestReadSecret_NotTerminal(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStream(strings.NewReader("correct horse battery\n"), &out)

	secret, err := stdio.ReadSecret("Secret: ")
	require.NoError(t, err)
	assert.Equal(t, "correct horse battery", secret)
	assert.Equal(t, "Secret: ", out.String())
}
