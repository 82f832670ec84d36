// Package sync implements FD's sync engine (spec.md §4.7): the text port and event port that
// keep a host editor's text buffer, the scene graph, and the canvas selection mutually
// consistent, with debounced reparse and feedback-loop guards.
//
// The text port's wire framing is adapted from the teacher's lsp/internal/rpc Content-Length
// scheme (see sync/internal/rpc), but the messages themselves are FD's own: a text replacement,
// a cursor move, a canvas selection change, or a diagnostics push, rather than LSP's JSON-RPC
// request/notification shape — FD's sync protocol has no request/response correlation to speak
// of (every message is a one-way notification), so there is no analog of LSP's Message.ID for
// matching a response to a request. Instead every outbound envelope is tagged with a random
// google/uuid so a host can de-duplicate or log envelopes without the sync engine having to track
// sequence numbers itself.
package sync

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	syncrpc "github.com/fdcanvas/fd/sync/internal/rpc"
)

// EnvelopeType discriminates the kind of message carried by an Envelope.
type EnvelopeType string

const (
	// EnvelopeText carries a full document text replacement, in either direction.
	EnvelopeText EnvelopeType = "text"
	// EnvelopeSelectNode asks the canvas (engine→host is never sent; host→engine reports a
	// pointer-driven canvas selection change for cursor mirroring) to select a node.
	EnvelopeSelectNode EnvelopeType = "selectNode"
	// EnvelopeCursorMoved reports the host's cursor line (host→engine).
	EnvelopeCursorMoved EnvelopeType = "cursorMoved"
	// EnvelopeDiagnostics pushes parse diagnostics to the host (engine→host).
	EnvelopeDiagnostics EnvelopeType = "diagnostics"
)

// Diagnostic mirrors a parser error in wire form.
type Diagnostic struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Envelope is the single message shape exchanged over the text port.
type Envelope struct {
	ID          string       `json:"id"`
	Type        EnvelopeType `json:"type"`
	Text        string       `json:"text,omitempty"`
	NodeID      string       `json:"nodeId,omitempty"`
	Line        int          `json:"line,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// TextPort reads and writes Envelopes framed with Content-Length headers (sync/internal/rpc).
type TextPort struct {
	scanner *syncrpc.Scanner
	writer  *syncrpc.Writer
}

// NewTextPort returns a TextPort reading from r and writing to w.
func NewTextPort(r io.Reader, w io.Writer) *TextPort {
	return &TextPort{scanner: syncrpc.NewScanner(r), writer: syncrpc.NewWriter(w)}
}

// Recv blocks for the next inbound Envelope. It returns false once the underlying stream is
// exhausted or errors; callers should check Err in that case.
func (p *TextPort) Recv() (Envelope, bool) {
	if !p.scanner.Scan() {
		return Envelope{}, false
	}
	var env Envelope
	if err := json.Unmarshal(p.scanner.Bytes(), &env); err != nil {
		return Envelope{}, false
	}
	return env, true
}

// Err returns the first error encountered by Recv's underlying scan, if any.
func (p *TextPort) Err() error {
	return p.scanner.Err()
}

// Send writes env to the host, stamping a fresh id if one was not already set (e.g. by a test
// that wants a deterministic id).
func (p *TextPort) Send(env Envelope) error {
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("sync: marshal envelope: %w", err)
	}
	return p.writer.Write(b)
}
