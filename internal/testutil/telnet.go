package testutil

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/cory-johannsen/encounter/internal/frontend/telnet"
)

// DefaultReadTimeout bounds Expect.
const DefaultReadTimeout = 3 * time.Second

// TelnetClient plays an encounter over a real Telnet connection. Output is
// matched as plain text: negotiation bytes and ANSI styling are removed.
type TelnetClient struct {
	conn net.Conn
	raw  []byte
	seen int
	t    *testing.T
}

// NewTelnetClient dials addr and closes the connection when the test ends.
//
// Precondition: addr must be a "host:port" with a listening acceptor.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &TelnetClient{conn: conn, t: t}
}

// ReadUntil reads until the plain text received since the previous match
// contains substr, and returns that text.
//
// Postcondition: Returns output containing substr, or fails the test on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	tmp := make([]byte, 1024)
	for {
		text := c.plain()[c.seen:]
		if idx := strings.Index(text, substr); idx >= 0 {
			c.seen += idx + len(substr)
			return text[:idx+len(substr)]
		}
		n, err := c.conn.Read(tmp)
		c.raw = append(c.raw, tmp[:n]...)
		if err != nil && n == 0 {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, text, err)
		}
	}
}

// Expect is ReadUntil with DefaultReadTimeout.
func (c *TelnetClient) Expect(substr string) string {
	c.t.Helper()
	return c.ReadUntil(substr, DefaultReadTimeout)
}

// Transcript returns all plain text received so far.
func (c *TelnetClient) Transcript() string { return c.plain() }

// Send writes one input line terminated by CR LF.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the connection early.
func (c *TelnetClient) Close() { _ = c.conn.Close() }

func (c *TelnetClient) plain() string {
	return telnet.StripANSI(string(telnet.FilterIAC(c.raw)))
}
