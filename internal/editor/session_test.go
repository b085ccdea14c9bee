package editor

import (
	"errors"
	stdnet "net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ScriptBoard/internal/config"
	"ScriptBoard/internal/logging"
	"ScriptBoard/internal/loop"
	"ScriptBoard/internal/script"
)

func newSession(t *testing.T) (*Session, *[]string) {
	t.Helper()
	s := NewSession(loop.Inline{}, logging.NewNop())
	var statuses []string
	s.OnStatus(func(msg string) { statuses = append(statuses, msg) })
	t.Cleanup(func() { s.Close() })
	return s, &statuses
}

func last(statuses *[]string) string {
	if len(*statuses) == 0 {
		return ""
	}
	return (*statuses)[len(*statuses)-1]
}

func TestRequestIsAnsweredWithBuffer(t *testing.T) {
	// No status hook: replies are sent from the read goroutine.
	s := NewSession(loop.Inline{}, logging.NewNop())
	defer s.Close()
	s.Document().Edit("canvas.setZoom(2)")
	s.Bind(0)
	require.NotZero(t, s.LocalAddr().Port)

	conn, err := stdnet.ListenUDP("udp4", &stdnet.UDPAddr{IP: stdnet.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()

	to := &stdnet.UDPAddr{IP: stdnet.IPv4(127, 0, 0, 1), Port: int(s.LocalAddr().Port)}
	_, err = conn.WriteToUDP([]byte("GET_SCRIPT"), to)
	require.NoError(t, err)

	buf := make([]byte, 1024)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, from, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, "canvas.setZoom(2)", string(buf[:n]))
	assert.Equal(t, int(s.LocalAddr().Port), from.Port)
}

func TestSendToRunnerRejectsBadHost(t *testing.T) {
	s, statuses := newSession(t)
	s.SetRunner("not an ip", 45455)

	s.SendToRunner()
	assert.Equal(t, "Invalid target IP address.", last(statuses))
}

func TestSendToRunnerDelivers(t *testing.T) {
	s, statuses := newSession(t)
	s.Document().Edit("canvas.clear()")

	conn, err := stdnet.ListenUDP("udp4", &stdnet.UDPAddr{IP: stdnet.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()
	s.SetRunner("127.0.0.1", uint16(conn.LocalAddr().(*stdnet.UDPAddr).Port))

	s.SendToRunner()

	buf := make([]byte, 1024)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, "canvas.clear()", string(buf[:n]))
	assert.Contains(t, last(statuses), "Script sent to 127.0.0.1:")
}

func TestApplyProfileBindsEditorPortAndTargetsRunner(t *testing.T) {
	s, _ := newSession(t)
	probe, err := stdnet.ListenUDP("udp4", &stdnet.UDPAddr{IP: stdnet.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := uint16(probe.LocalAddr().(*stdnet.UDPAddr).Port)
	probe.Close()

	s.ApplyProfile(config.Profile{Name: "Lab", EditorHost: "127.0.0.1", EditorPort: port, RunnerHost: "10.1.2.3", RunnerPort: 6000})

	assert.Equal(t, port, s.LocalAddr().Port)
	host, rport := s.Runner()
	assert.Equal(t, "10.1.2.3", host)
	assert.Equal(t, uint16(6000), rport)
}

func TestOpenSaveAndTitle(t *testing.T) {
	s, statuses := newSession(t)
	var title string
	s.OnTitle(func(got string) { title = got })
	assert.Equal(t, "Script Editor", title)

	path := filepath.Join(t.TempDir(), "demo.lua")
	require.NoError(t, os.WriteFile(path, []byte("canvas.clear()"), 0o644))

	require.NoError(t, s.Open(path))
	assert.Equal(t, "canvas.clear()", s.Document().Text())
	assert.Equal(t, "Script Editor - demo.lua", title)
	assert.Equal(t, "Loaded demo.lua", last(statuses))
	assert.False(t, s.Document().History().CanUndo())

	s.Document().Edit("canvas.setZoom(3)")
	assert.Equal(t, "Script Editor - demo.lua *", title)

	require.NoError(t, s.Save())
	assert.Equal(t, "Script Editor - demo.lua", title)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "canvas.setZoom(3)", string(data))
}

func TestSaveWithoutPath(t *testing.T) {
	s, _ := newSession(t)
	s.Document().Edit("x = 1")

	assert.True(t, errors.Is(s.Save(), ErrNoFilePath))

	path := filepath.Join(t.TempDir(), "new.lua")
	require.NoError(t, s.SaveAs(path))
	assert.Equal(t, path, s.Document().FilePath())
	assert.False(t, s.Document().Dirty())
}

func TestOpenMissingFile(t *testing.T) {
	s, statuses := newSession(t)
	path := filepath.Join(t.TempDir(), "missing.lua")

	assert.Error(t, s.Open(path))
	assert.Equal(t, "Failed to open file:\n"+path, last(statuses))
	assert.Equal(t, "", s.Document().FilePath())
}

func TestReloadKeepsUnsavedEdits(t *testing.T) {
	s, _ := newSession(t)
	path := filepath.Join(t.TempDir(), "demo.lua")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))
	require.NoError(t, s.Open(path))

	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	s.Reload()
	assert.Equal(t, "two", s.Document().Text())

	s.Document().Edit("mine")
	require.NoError(t, os.WriteFile(path, []byte("three"), 0o644))
	s.Reload()
	assert.Equal(t, "mine", s.Document().Text())
}

func TestInsertExampleIsUndoable(t *testing.T) {
	s, _ := newSession(t)

	s.InsertExample()
	assert.Equal(t, script.ExampleScript, s.Document().Text())
	assert.Equal(t, "Text Change", s.Document().History().UndoText())

	s.Undo()
	assert.Equal(t, "", s.Document().Text())
	s.Redo()
	assert.Equal(t, script.ExampleScript, s.Document().Text())
}

func TestWatcherNeedsFile(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.Watcher()
	assert.ErrorIs(t, err, ErrNoFilePath)

	path := filepath.Join(t.TempDir(), "demo.lua")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, s.Open(path))
	w, err := s.Watcher()
	require.NoError(t, err)
	assert.NotNil(t, w)
}
