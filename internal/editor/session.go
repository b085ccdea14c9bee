// Package editor holds the editor process: the script document, the
// transport that serves it, and file handling. The fyne window and the
// headless server both drive a Session.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ScriptBoard/internal/config"
	"ScriptBoard/internal/logging"
	"ScriptBoard/internal/loop"
	"ScriptBoard/internal/net"
	"ScriptBoard/internal/script"
	"ScriptBoard/internal/state"
)

// ErrNoFilePath is returned by Save when the document was never saved.
var ErrNoFilePath = errors.New("document has no file path")

const windowTitle = "Script Editor"

// Session is the editor side of the script exchange. Every method must be
// called on the control goroutine; transport events are delivered there
// through the dispatcher.
type Session struct {
	doc        *state.Document
	transport  *net.UDPTransport
	dispatch   loop.Dispatcher
	runnerHost string
	runnerPort uint16
	log        *slog.Logger

	onStatus func(string)
	onTitle  func(string)
}

func NewSession(dispatch loop.Dispatcher, log *slog.Logger) *Session {
	if dispatch == nil {
		dispatch = loop.Inline{}
	}
	s := &Session{
		doc:        state.NewDocument(),
		dispatch:   dispatch,
		runnerHost: config.DefaultHost,
		runnerPort: config.DefaultRunnerPort,
		log:        logging.For(log, logging.CategoryEditor),
	}
	s.transport = net.NewUDPTransport(net.Events{
		ScriptRequested: s.handleRequest,
		ScriptReceived:  s.handleScript,
		Status:          s.status,
	}, dispatch, log)
	s.doc.Listen(state.DocumentListener{
		FilePathChanged: func(string) { s.title() },
		DirtyChanged:    func(bool) { s.title() },
	})
	return s
}

func (s *Session) Document() *state.Document { return s.doc }

// OnStatus sets the receiver of human readable status lines.
func (s *Session) OnStatus(fn func(string)) { s.onStatus = fn }

// OnTitle sets the receiver of window title changes.
func (s *Session) OnTitle(fn func(string)) {
	s.onTitle = fn
	s.title()
}

// Title is "Script Editor", followed by the file name when there is one and
// a star while there are unsaved changes.
func (s *Session) Title() string {
	title := windowTitle
	if path := s.doc.FilePath(); path != "" {
		title += " - " + filepath.Base(path)
	}
	if s.doc.Dirty() {
		title += " *"
	}
	return title
}

// Bind listens for requests on port, replacing any earlier socket.
func (s *Session) Bind(port uint16) {
	s.log.Info("Binding editor transport", "port", port)
	s.transport.Bind(port)
}

func (s *Session) LocalAddr() net.Endpoint { return s.transport.LocalAddr() }

// Runner returns the host and port scripts are sent to.
func (s *Session) Runner() (string, uint16) { return s.runnerHost, s.runnerPort }

func (s *Session) SetRunner(host string, port uint16) {
	s.runnerHost, s.runnerPort = host, port
}

// ApplyProfile targets the profile's runner and listens on its editor port.
func (s *Session) ApplyProfile(p config.Profile) {
	s.log.Info("Applying profile", "profile", p.Name)
	s.SetRunner(p.RunnerHost, p.RunnerPort)
	s.Bind(p.EditorPort)
}

// SendToRunner sends the current buffer to the configured runner.
func (s *Session) SendToRunner() {
	target, err := net.ParseEndpoint(s.runnerHost, s.runnerPort)
	if err != nil {
		s.log.Warn("Invalid runner IP address", "host", s.runnerHost)
		s.status("Invalid target IP address.")
		return
	}
	s.log.Info("Sending script payload", "target", target)
	s.transport.SendScript([]byte(s.doc.Text()), target)
}

// Open replaces the buffer with the contents of path.
func (s *Session) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		s.status(fmt.Sprintf("Failed to open file:\n%s", path))
		return fmt.Errorf("open script: %w", err)
	}
	s.doc.Load(string(data))
	s.doc.SetFilePath(path)
	s.status("Loaded " + filepath.Base(path))
	return nil
}

// Save writes the buffer to its file. It returns ErrNoFilePath when there is
// none; callers then ask for one and use SaveAs.
func (s *Session) Save() error {
	if s.doc.FilePath() == "" {
		return ErrNoFilePath
	}
	return s.SaveAs(s.doc.FilePath())
}

// SaveAs writes the buffer to path and associates the document with it.
func (s *Session) SaveAs(path string) error {
	if err := os.WriteFile(path, []byte(s.doc.Text()), 0o644); err != nil {
		s.status(fmt.Sprintf("Failed to save file:\n%s", path))
		return fmt.Errorf("save script: %w", err)
	}
	s.doc.SetFilePath(path)
	s.doc.MarkSaved()
	s.status("Saved " + filepath.Base(path))
	return nil
}

// Reload rereads the associated file unless there are unsaved edits.
func (s *Session) Reload() {
	path := s.doc.FilePath()
	if path == "" {
		return
	}
	if s.doc.Dirty() {
		s.log.Info("File changed on disk, keeping unsaved edits", "path", path)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("Reload failed", "path", path, "error", err)
		return
	}
	if string(data) == s.doc.Text() {
		return
	}
	s.doc.Load(string(data))
	s.status("Reloaded " + filepath.Base(path))
}

// Watcher returns a watcher for the associated file that reloads it through
// the dispatcher. Run its Watch on any goroutine.
func (s *Session) Watcher() (*FileWatcher, error) {
	path := s.doc.FilePath()
	if path == "" {
		return nil, ErrNoFilePath
	}
	return NewFileWatcher(path, func() { s.dispatch.Do(s.Reload) }, s.log), nil
}

// InsertExample replaces the buffer with the example script as one
// undoable edit.
func (s *Session) InsertExample() {
	s.doc.Edit(script.ExampleScript)
}

func (s *Session) Undo() { s.doc.Undo() }

func (s *Session) Redo() { s.doc.Redo() }

func (s *Session) Close() error { return s.transport.Close() }

// handleRequest always answers with the current buffer, even when empty.
func (s *Session) handleRequest(sender net.Endpoint) {
	s.log.Info("Script requested", "sender", sender)
	s.transport.SendScript([]byte(s.doc.Text()), sender)
}

func (s *Session) handleScript(payload []byte, sender net.Endpoint) {
	s.log.Debug("Ignoring script frame", "sender", sender, "bytes", len(payload))
}

func (s *Session) status(msg string) {
	s.log.Info(msg)
	if s.onStatus != nil {
		s.onStatus(msg)
	}
}

func (s *Session) title() {
	if s.onTitle != nil {
		s.onTitle(s.Title())
	}
}
