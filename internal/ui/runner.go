package ui

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ScriptBoard/internal/logging"
	"ScriptBoard/internal/net"
	"ScriptBoard/internal/runner"
)

// RunRunner shows the runner window and blocks until it is closed.
func RunRunner(opts RunnerOptions) {
	a := newApp()
	w := a.NewWindow("Script Runner")
	w.Resize(fyne.NewSize(1024, 640))
	log := logging.For(opts.Log, logging.CategoryRunner)

	session := runner.NewSession(Dispatcher(), opts.Log)
	session.SetScriptTimeout(opts.ScriptTimeout)
	defer session.Close()

	board := NewBoardWidget(session.Scene())

	scriptView := widget.NewMultiLineEntry()
	scriptView.SetPlaceHolder("Received scripts appear here")
	scriptView.OnChanged = session.SetScript

	logView := widget.NewLabel("")
	logView.Wrapping = fyne.TextWrapWord
	status := widget.NewLabel("Ready")

	session.Listen(runner.Listener{
		LogCleared: func() { logView.SetText("") },
		Logged: func(line string) {
			logView.SetText(strings.Join(session.Log(), "\n"))
			status.SetText(line)
		},
		ScriptShown: scriptView.SetText,
	})

	editorHost := widget.NewEntry()
	editorPort := widget.NewEntry()
	localPort := widget.NewEntry()

	adv := &advertiser{role: net.RoleRunner, enabled: opts.Advertise, log: opts.Log}
	defer adv.stop()
	bind := func() {
		port, ok := parsePort(localPort.Text)
		if !ok {
			status.SetText("Invalid local port")
			return
		}
		session.Bind(port)
		adv.update(session.LocalAddr().Port)
	}
	syncEditor := func() bool {
		port, ok := parsePort(editorPort.Text)
		if !ok {
			status.SetText("Invalid editor port")
			return false
		}
		session.SetEditor(editorHost.Text, port)
		return true
	}

	profiles := opts.Profiles
	applyProfile := func(name string) {
		p := profiles.ByName(name)
		editorHost.SetText(p.EditorHost)
		editorPort.SetText(portText(p.EditorPort))
		localPort.SetText(portText(p.RunnerPort))
		session.ApplyProfile(p)
		adv.update(session.LocalAddr().Port)
	}
	profileSelect := widget.NewSelect(profiles.Names(), applyProfile)

	history := newHistoryActions(session.Scene().History(), session.Undo, session.Redo)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DownloadIcon(), func() {
			if syncEditor() {
				session.RequestScript()
			}
		}),
		widget.NewToolbarAction(theme.MediaPlayIcon(), session.ExecuteCurrent),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), session.ClearCanvas),
	)

	connection := container.NewHBox(
		widget.NewLabel("Profile:"), profileSelect,
		widget.NewSeparator(),
		widget.NewLabel("Editor:"), container.NewGridWrap(fyne.NewSize(140, 36), editorHost),
		container.NewGridWrap(fyne.NewSize(80, 36), editorPort),
		widget.NewSeparator(),
		widget.NewLabel("Listen:"), container.NewGridWrap(fyne.NewSize(80, 36), localPort),
		widget.NewButton("Bind", bind),
	)
	top := container.NewVBox(connection, container.NewHBox(toolbar, history.objects()))

	side := container.NewVSplit(
		container.NewBorder(widget.NewLabel("Script"), nil, nil, nil, scriptView),
		container.NewBorder(widget.NewLabel("Log"), nil, nil, nil, container.NewVScroll(logView)),
	)
	body := container.NewHSplit(board, side)
	body.Offset = 0.6

	w.SetContent(container.NewBorder(top, status, nil, nil, body))

	snapshot := session.Scene().Snapshot
	exportMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export PDF…", func() { exportScene(w, snapshot, writePDF, status.SetText) }),
		fyne.NewMenuItem("Export PNG…", func() { exportScene(w, snapshot, writePNG, status.SetText) }),
	)
	w.SetMainMenu(fyne.NewMainMenu(exportMenu))

	if opts.Feed != nil && opts.FeedAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		opts.Feed.Attach(session.Scene())
		go func() {
			if err := opts.Feed.Serve(ctx, opts.FeedAddr); err != nil {
				log.Error("Scene feed stopped", "error", err)
			}
		}()
	}

	selectInitial(profileSelect, opts.initial().Name, applyProfile)
	w.ShowAndRun()
}
