package handlers

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal is a line-oriented text client. *telnet.Conn satisfies it, as
// does StreamTerminal for a local console.
//
// Writes may come from the encounter loop while ReadLine blocks on another
// goroutine, so implementations must allow one reader concurrent with
// writers.
type Terminal interface {
	ReadLine() (string, error)
	WriteLine(text string) error
	WritePrompt(text string) error
}

// StreamTerminal adapts a reader and writer pair, such as stdin and stdout.
type StreamTerminal struct {
	r  *bufio.Reader
	mu sync.Mutex
	w  io.Writer
}

// NewStreamTerminal creates a StreamTerminal.
func NewStreamTerminal(r io.Reader, w io.Writer) *StreamTerminal {
	return &StreamTerminal{r: bufio.NewReader(r), w: w}
}

// ReadLine returns the next line without its CR/LF terminator. A final
// unterminated line is returned before io.EOF.
func (s *StreamTerminal) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// WriteLine writes text and a newline.
func (s *StreamTerminal) WriteLine(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.w, text)
	return err
}

// WritePrompt writes text with no newline.
func (s *StreamTerminal) WritePrompt(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, text)
	return err
}
