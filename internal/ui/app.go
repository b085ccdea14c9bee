// Package ui is the fyne front end for the editor and the runner.
package ui

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/widget"

	"ScriptBoard/internal/config"
	"ScriptBoard/internal/feed"
	"ScriptBoard/internal/loop"
	"ScriptBoard/internal/net"
)

const appID = "io.scriptboard"

// Dispatcher hands transport events to the fyne event loop.
func Dispatcher() loop.Dispatcher { return loop.Func(fyne.Do) }

// Options configure either window.
type Options struct {
	Profiles *config.Profiles
	// Profile is selected at startup; empty means the first one.
	Profile string
	Log     *slog.Logger
	// Advertise announces the bound port over mDNS.
	Advertise bool
}

func (o Options) initial() config.Profile {
	if o.Profile == "" {
		return o.Profiles.First()
	}
	return o.Profiles.ByName(o.Profile)
}

type EditorOptions struct {
	Options
	// File is opened at startup when set.
	File string
}

type RunnerOptions struct {
	Options
	ScriptTimeout time.Duration
	// FeedAddr serves the live scene feed when set.
	FeedAddr string
	Feed     *feed.Hub
}

func newApp() fyne.App {
	return app.NewWithID(appID)
}

// advertiser keeps one mDNS announcement in step with the bound port.
type advertiser struct {
	role    net.Role
	enabled bool
	current *net.Advertiser
	log     *slog.Logger
}

func (a *advertiser) update(port uint16) {
	if !a.enabled {
		return
	}
	a.stop()
	if port == 0 {
		return
	}
	adv, err := net.Advertise(a.role, port, a.log)
	if err != nil {
		a.log.Warn("mDNS advertise failed", "error", err)
		return
	}
	a.current = adv
}

func (a *advertiser) stop() {
	if a.current != nil {
		a.current.Shutdown()
		a.current = nil
	}
}

// discover browses for role in the background and reports the first match
// on the fyne goroutine.
func discover(role net.Role, log *slog.Logger, found func(net.Discovered), none func()) {
	go func() {
		first := make(chan net.Discovered, 1)
		err := net.Browse(role, 2*time.Second, func(d net.Discovered) {
			select {
			case first <- d:
			default:
			}
		})
		if err != nil {
			log.Warn("mDNS browse failed", "error", err)
		}
		select {
		case d := <-first:
			fyne.Do(func() { found(d) })
		default:
			fyne.Do(none)
		}
	}()
}

// selectInitial selects name, which applies it. A name missing from the list
// is applied directly.
func selectInitial(sel *widget.Select, name string, apply func(string)) {
	if slices.Contains(sel.Options, name) {
		sel.SetSelected(name)
		return
	}
	apply(name)
}

func parsePort(s string) (uint16, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

func portText(p uint16) string { return strconv.FormatUint(uint64(p), 10) }
