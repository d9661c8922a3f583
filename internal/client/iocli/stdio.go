package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Stdio реализует IO поверх произвольных потоков ввода и вывода
type Stdio struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	isTerm bool
	mu     sync.Mutex
}

// NewStdio создает IO поверх os.Stdin и os.Stdout
func NewStdio() IO {
	fd := int(os.Stdin.Fd())
	return &Stdio{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		fd:     fd,
		isTerm: term.IsTerminal(fd),
	}
}

// NewStream создает IO поверх заданных потоков; ввод секрета не скрывается
func NewStream(in io.Reader, out io.Writer) IO {
	return &Stdio{
		in:  bufio.NewReader(in),
		out: out,
		fd:  -1,
	}
}

// IsInteractive сообщает, подключен ли stdin к терминалу
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (s *Stdio) Println(a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Write(p)
}

// ReadInput печатает приглашение и читает одну строку без перевода строки.
// Последняя строка без '\n' тоже возвращается; io.EOF только при пустом вводе.
func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadSecret читает секрет без эха, если ввод идет с терминала
func (s *Stdio) ReadSecret(prompt string) (string, error) {
	if !s.isTerm {
		return s.ReadInput(prompt)
	}

	s.Printf("%s", prompt)
	secret, err := term.ReadPassword(s.fd)
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
