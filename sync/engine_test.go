package sync_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fdcanvas/fd/scene"
	"github.com/fdcanvas/fd/sync"
	"github.com/teleivo/assertive/assert"
)

func newLoopbackPort() (*sync.TextPort, *bytes.Buffer) {
	var out bytes.Buffer
	return sync.NewTextPort(bytes.NewReader(nil), &out), &out
}

func lastEnvelope(t *testing.T, buf *bytes.Buffer) sync.Envelope {
	t.Helper()
	// Content-Length framing: find the JSON payload after the last header blank line.
	data := buf.Bytes()
	idx := bytes.LastIndex(data, []byte("\r\n\r\n"))
	assert.True(t, idx >= 0, "expected at least one framed message")
	var env sync.Envelope
	assert.NoError(t, json.Unmarshal(data[idx+4:], &env))
	return env
}

func TestReparseReplacesGraphAndPreservesSelectionByID(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "r1", Kind: scene.KindRect}))
	sel := scene.NewSelection()
	sel.Set("r1")

	port, _ := newLoopbackPort()
	e := sync.NewEngine(g, sel, port)

	e.HandleText("rect @r1 {\n  x: 10\n}\n")
	time.Sleep(sync.DebounceDelay + 50*time.Millisecond)

	assert.True(t, sel.Contains("r1"), "selection should survive a reparse that keeps @r1")
}

func TestCommitTextSkipsWhenUnchanged(t *testing.T) {
	g := scene.New()
	port, out := newLoopbackPort()
	e := sync.NewEngine(g, scene.NewSelection(), port)

	assert.NoError(t, e.CommitText())
	firstLen := out.Len()
	assert.NoError(t, e.CommitText())
	assert.Equals(t, out.Len(), firstLen, "an unchanged document should not push a second text envelope")
}

func TestCommitTextSetsSuppressEcho(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "r1", Kind: scene.KindRect}))
	port, out := newLoopbackPort()
	e := sync.NewEngine(g, scene.NewSelection(), port)

	assert.NoError(t, e.CommitText())
	env := lastEnvelope(t, out)
	assert.Equals(t, env.Type, sync.EnvelopeText, "envelope type")

	// The host's change notification echoing this exact text back should be swallowed rather
	// than scheduling a reparse.
	e.HandleText(env.Text)
}
