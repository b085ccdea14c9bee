// Package runner holds the runner process: it receives scripts, runs them
// against the scene and keeps the run log.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ScriptBoard/internal/config"
	"ScriptBoard/internal/logging"
	"ScriptBoard/internal/loop"
	"ScriptBoard/internal/net"
	"ScriptBoard/internal/script"
	"ScriptBoard/internal/state"
)

// Result describes one finished run.
type Result struct {
	ID  string
	Err error
}

// Listener receives session changes. Any field may be nil.
type Listener struct {
	// LogCleared fires at the start of every run.
	LogCleared func()
	Logged     func(line string)
	// ScriptShown fires when a received script replaces the shown one.
	ScriptShown func(text string)
	Executed    func(r Result)
}

// Session is the runner side of the script exchange. Like the editor
// session it is confined to the control goroutine.
type Session struct {
	scene     *state.Scene
	engine    *script.Engine
	canvas    *script.Canvas
	transport *net.UDPTransport

	script     string
	lines      []string
	editorHost string
	editorPort uint16

	listeners []Listener
	log       *slog.Logger
}

func NewSession(dispatch loop.Dispatcher, log *slog.Logger) *Session {
	s := &Session{
		scene:      state.NewScene(),
		editorHost: config.DefaultHost,
		editorPort: config.DefaultEditorPort,
		log:        logging.For(log, logging.CategoryRunner),
	}
	s.canvas = script.NewCanvas(s.scene)
	s.canvas.OnPrint(func(text string) { s.logLine("Script print: " + text) })
	s.engine = script.NewEngine(s.canvas)
	s.transport = net.NewUDPTransport(net.Events{
		ScriptReceived: s.handleScript,
		Status:         s.logLine,
	}, dispatch, log)
	return s
}

func (s *Session) Listen(l Listener) { s.listeners = append(s.listeners, l) }

func (s *Session) Scene() *state.Scene { return s.scene }

// SetScriptTimeout bounds each run. Zero disables the limit.
func (s *Session) SetScriptTimeout(d time.Duration) { s.engine.Timeout = d }

// Script is the text Execute runs.
func (s *Session) Script() string { return s.script }

// SetScript replaces the shown script without running it, for edits made in
// the runner's own script view.
func (s *Session) SetScript(text string) { s.script = text }

// Log returns the lines written since the last run started.
func (s *Session) Log() []string { return append([]string(nil), s.lines...) }

func (s *Session) Bind(port uint16) {
	s.log.Info("Binding runner transport", "port", port)
	s.transport.Bind(port)
}

func (s *Session) LocalAddr() net.Endpoint { return s.transport.LocalAddr() }

func (s *Session) Editor() (string, uint16) { return s.editorHost, s.editorPort }

func (s *Session) SetEditor(host string, port uint16) {
	s.editorHost, s.editorPort = host, port
}

// ApplyProfile targets the profile's editor and listens on its runner port.
func (s *Session) ApplyProfile(p config.Profile) {
	s.log.Info("Applying profile", "profile", p.Name)
	s.SetEditor(p.EditorHost, p.EditorPort)
	s.Bind(p.RunnerPort)
}

// RequestScript asks the configured editor for its buffer. The reply arrives
// as a received script.
func (s *Session) RequestScript() {
	host := strings.TrimSpace(s.editorHost)
	if host == "" {
		s.logLine("Editor host is empty.")
		return
	}
	target, err := net.ParseEndpoint(host, s.editorPort)
	if err != nil {
		s.logLine(fmt.Sprintf("Invalid host: %s", host))
		return
	}
	s.log.Info("Requesting script", "editor", target)
	s.transport.RequestScript(target)
}

// ExecuteCurrent reruns the shown script.
func (s *Session) ExecuteCurrent() {
	if strings.TrimSpace(s.script) == "" {
		s.logLine("No script loaded.")
		return
	}
	s.Execute(s.script)
}

// Execute clears the log and the canvas, then runs code. A failing script
// keeps whatever it drew before the error.
func (s *Session) Execute(code string) Result {
	r := Result{ID: uuid.NewString()}
	s.lines = nil
	for _, l := range s.listeners {
		if l.LogCleared != nil {
			l.LogCleared()
		}
	}
	s.canvas.Clear()

	s.log.Debug("Running script", "run", r.ID, "bytes", len(code))
	r.Err = s.engine.Run(context.Background(), code)
	if r.Err != nil {
		s.logLine(errorLine(r.Err))
	} else {
		s.logLine("Script executed successfully.")
	}

	for _, l := range s.listeners {
		if l.Executed != nil {
			l.Executed(r)
		}
	}
	return r
}

func errorLine(err error) string {
	var scriptErr *script.ScriptError
	if errors.As(err, &scriptErr) && scriptErr.Line > 0 {
		return fmt.Sprintf("Script error at line %d: %s", scriptErr.Line, scriptErr.Message)
	}
	return fmt.Sprintf("Script error: %v", err)
}

func (s *Session) ClearCanvas() {
	s.scene.Clear()
	s.logLine("Canvas cleared")
}

func (s *Session) Undo() { s.scene.Undo() }

func (s *Session) Redo() { s.scene.Redo() }

func (s *Session) Close() error { return s.transport.Close() }

// handleScript shows the received text and runs it right away.
func (s *Session) handleScript(payload []byte, sender net.Endpoint) {
	s.log.Info("Script payload received", "sender", sender, "bytes", len(payload))
	s.script = string(payload)
	for _, l := range s.listeners {
		if l.ScriptShown != nil {
			l.ScriptShown(s.script)
		}
	}
	s.Execute(s.script)
}

func (s *Session) logLine(line string) {
	s.log.Info(line)
	s.lines = append(s.lines, line)
	for _, l := range s.listeners {
		if l.Logged != nil {
			l.Logged(line)
		}
	}
}
