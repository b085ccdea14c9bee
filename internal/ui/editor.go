package ui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ScriptBoard/internal/editor"
	"ScriptBoard/internal/logging"
	"ScriptBoard/internal/net"
)

var scriptFilter = storage.NewExtensionFileFilter([]string{".lua", ".txt"})

// RunEditor shows the editor window and blocks until it is closed.
func RunEditor(opts EditorOptions) {
	a := newApp()
	w := a.NewWindow("Script Editor")
	w.Resize(fyne.NewSize(900, 640))
	log := logging.For(opts.Log, logging.CategoryEditor)

	session := editor.NewSession(Dispatcher(), opts.Log)
	defer session.Close()

	text := widget.NewMultiLineEntry()
	text.TextStyle = fyne.TextStyle{Monospace: true}
	text.SetPlaceHolder("-- write a drawing script, e.g. canvas.circle(10, 20, 5, 'red', 2)")
	binding := editor.Bind(session.Document(), entryView{text})
	text.OnChanged = binding.ViewChanged

	status := widget.NewLabel("Ready")
	session.OnStatus(status.SetText)
	session.OnTitle(w.SetTitle)

	runnerHost := widget.NewEntry()
	runnerPort := widget.NewEntry()
	localPort := widget.NewEntry()

	adv := &advertiser{role: net.RoleEditor, enabled: opts.Advertise, log: opts.Log}
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
	send := func() {
		port, ok := parsePort(runnerPort.Text)
		if !ok {
			status.SetText("Invalid runner port")
			return
		}
		session.SetRunner(runnerHost.Text, port)
		session.SendToRunner()
	}

	profiles := opts.Profiles
	applyProfile := func(name string) {
		p := profiles.ByName(name)
		session.ApplyProfile(p)
		runnerHost.SetText(p.RunnerHost)
		runnerPort.SetText(portText(p.RunnerPort))
		localPort.SetText(portText(p.EditorPort))
		adv.update(session.LocalAddr().Port)
	}
	profileSelect := widget.NewSelect(profiles.Names(), applyProfile)

	discoverButton := widget.NewButtonWithIcon("Discover", theme.SearchIcon(), nil)
	discoverButton.OnTapped = func() {
		discoverButton.Disable()
		status.SetText("Looking for runners…")
		discover(net.RoleRunner, opts.Log, func(d net.Discovered) {
			discoverButton.Enable()
			runnerHost.SetText(d.Endpoint.Addr.String())
			runnerPort.SetText(portText(d.Endpoint.Port))
			status.SetText(fmt.Sprintf("Found runner %s at %s", d.Instance, d.Endpoint))
		}, func() {
			discoverButton.Enable()
			status.SetText("No runner found")
		})
	}

	saveAs := func() {
		dialog.ShowFileSave(func(out fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if out == nil {
				return
			}
			path := out.URI().Path()
			out.Close()
			if err := session.SaveAs(path); err != nil {
				dialog.ShowError(err, w)
			}
		}, w)
	}
	save := func() {
		err := session.Save()
		switch {
		case errors.Is(err, editor.ErrNoFilePath):
			saveAs()
		case err != nil:
			dialog.ShowError(err, w)
		}
	}
	open := func() {
		d := dialog.NewFileOpen(func(in fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if in == nil {
				return
			}
			path := in.URI().Path()
			in.Close()
			if err := session.Open(path); err != nil {
				dialog.ShowError(err, w)
			}
		}, w)
		d.SetFilter(scriptFilter)
		d.Show()
	}

	history := newHistoryActions(session.Document().History(), session.Undo, session.Redo)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), open),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), save),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MailSendIcon(), send),
	)

	connection := container.NewHBox(
		widget.NewLabel("Profile:"), profileSelect,
		widget.NewSeparator(),
		widget.NewLabel("Runner:"), container.NewGridWrap(fyne.NewSize(140, 36), runnerHost),
		container.NewGridWrap(fyne.NewSize(80, 36), runnerPort),
		discoverButton,
		widget.NewSeparator(),
		widget.NewLabel("Listen:"), container.NewGridWrap(fyne.NewSize(80, 36), localPort),
		widget.NewButton("Bind", bind),
	)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", open),
		fyne.NewMenuItem("Save", save),
		fyne.NewMenuItem("Save As…", saveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Insert Example", session.InsertExample),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", session.Undo),
		fyne.NewMenuItem("Redo", session.Redo),
	)
	scriptMenu := fyne.NewMenu("Script",
		fyne.NewMenuItem("Send to Runner", send),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, scriptMenu))

	w.SetContent(container.NewBorder(container.NewVBox(connection, container.NewHBox(toolbar, history.objects())), status, nil, nil, text))

	selectInitial(profileSelect, opts.initial().Name, applyProfile)

	if opts.File != "" {
		if err := session.Open(opts.File); err != nil {
			log.Warn("Could not open initial file", "path", opts.File, "error", err)
		} else if watcher, err := session.Watcher(); err == nil {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Warn("File watch stopped", "error", err)
				}
			}()
		}
	}

	w.ShowAndRun()
}
