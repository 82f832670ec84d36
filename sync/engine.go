package sync

import (
	"strings"
	"sync"
	"time"

	fd "github.com/fdcanvas/fd"
	"github.com/fdcanvas/fd/emit"
	"github.com/fdcanvas/fd/scene"
)

// DebounceDelay is the text→graph reparse debounce (spec.md §4.7 "incoming text is debounced
// 300 ms"). A var rather than a const so a host's configuration layer (cmd/fdctl's viper-bound
// debounce override) can tune it at startup.
var DebounceDelay = 300 * time.Millisecond

// CursorSyncWindow is how long suppress_cursor_sync stays set after the engine moves the host
// cursor (spec.md §4.7 "cleared after ~200 ms").
var CursorSyncWindow = 200 * time.Millisecond

// Engine is the single-threaded sync coordinator of spec.md §4.7: it owns the feedback guard
// flags and the two cancellable timers (text debounce, cursor-sync window), and keeps a
// scene.Graph, a scene.Selection, and a host's text buffer mutually consistent. All exported
// methods lock internally, matching spec.md §5's "all mutations are serialised on this task"
// even though here that task is realized as a mutex rather than a single goroutine.
type Engine struct {
	mu sync.Mutex

	graph *scene.Graph
	sel   *scene.Selection
	port  *TextPort

	lastText           string
	suppressEcho       bool
	suppressCursorSync bool

	debounceTimer   *time.Timer
	cursorSyncTimer *time.Timer
}

// NewEngine returns an Engine driving graph and sel, exchanging Envelopes over port.
func NewEngine(graph *scene.Graph, sel *scene.Selection, port *TextPort) *Engine {
	return &Engine{graph: graph, sel: sel, port: port}
}

// HandleText processes an incoming text envelope from the host (spec.md §4.7 "Text → Graph").
// If text equals the last text the engine itself pushed and suppress_echo is set, the event is
// recognized as an echo of that push and dropped without debouncing (spec.md "Prevents the
// host's change event from re-entering the parser"). Otherwise the debounce timer is reset.
func (e *Engine) HandleText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.suppressEcho && text == e.lastText {
		e.suppressEcho = false
		return
	}

	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
	}
	e.debounceTimer = time.AfterFunc(DebounceDelay, func() { e.reparse(text) })
}

func (e *Engine) reparse(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := fd.NewParser(strings.NewReader(text))
	if err != nil {
		e.publishDiagnostics([]fd.Error{{Msg: err.Error()}})
		return
	}
	doc, errs := p.Parse()
	if hasFatal(errs) {
		// spec.md §4.7: "If parse fails, the previous graph is kept and diagnostics are
		// published." The previous graph is simply left untouched.
		e.publishDiagnostics(errs)
		return
	}

	fresh, warnings := scene.Build(doc)
	prevSelected := e.sel.IDs()

	e.graph.ReplaceFrom(fresh)

	var preserved []scene.NodeID
	for _, id := range prevSelected {
		if _, ok := e.graph.Get(id); ok {
			preserved = append(preserved, id)
		}
	}
	if len(preserved) > 0 {
		e.sel.Set(preserved...)
	} else {
		e.sel.Clear()
	}

	e.lastText = text
	if len(errs) > 0 || len(warnings) > 0 {
		e.publishDiagnostics(errs)
	}
}

func hasFatal(errs []fd.Error) bool {
	for _, err := range errs {
		if err.Severity == fd.SeverityError {
			return true
		}
	}
	return false
}

func (e *Engine) publishDiagnostics(errs []fd.Error) {
	diags := make([]Diagnostic, len(errs))
	for i, err := range errs {
		sev := "error"
		if err.Severity == fd.SeverityWarning {
			sev = "warning"
		}
		diags[i] = Diagnostic{Line: err.Pos.Line, Column: err.Pos.Column, Severity: sev, Message: err.Msg}
	}
	_ = e.port.Send(Envelope{Type: EnvelopeDiagnostics, Diagnostics: diags})
}

// CommitText pushes the graph's current canonical text to the host after a committed command or
// batch end (spec.md §4.7 "Graph → Text"). If the emitted text is unchanged from what was last
// delivered, the push is skipped to avoid resetting the host's cursor.
func (e *Engine) CommitText() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	text := emit.Document(e.graph)
	if text == e.lastText {
		return nil
	}
	e.lastText = text
	e.suppressEcho = true
	return e.port.Send(Envelope{Type: EnvelopeText, Text: text})
}

// NotifySelectionChanged mirrors a canvas selection change to the host cursor (spec.md §4.7
// "Conversely, on canvas selection change..."). currentCursorLine is the host's cursor line
// right now; if the target node's declaration is already there, no message is sent (avoids
// unwanted jumps).
func (e *Engine) NotifySelectionChanged(currentCursorLine int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := e.sel.IDs()
	if len(ids) == 0 {
		return nil
	}
	line, ok := e.graph.DeclLineOf(ids[0])
	if !ok || line == currentCursorLine {
		return nil
	}

	e.suppressCursorSync = true
	if e.cursorSyncTimer != nil {
		e.cursorSyncTimer.Stop()
	}
	e.cursorSyncTimer = time.AfterFunc(CursorSyncWindow, func() {
		e.mu.Lock()
		e.suppressCursorSync = false
		e.mu.Unlock()
	})

	return e.port.Send(Envelope{Type: EnvelopeCursorMoved, Line: line, NodeID: string(ids[0])})
}

// HandleCursorMoved processes a host cursor-move report (spec.md §4.7 "Cursor ↔ Selection"). If
// suppress_cursor_sync is set (the engine itself just moved this cursor), the event is dropped so
// it cannot re-select and thereby clear an unrelated canvas selection.
func (e *Engine) HandleCursorMoved(line int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.suppressCursorSync {
		return
	}
	if id, ok := e.graph.SymbolAt(line); ok {
		e.sel.Set(id)
	}
}
