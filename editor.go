package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ScriptBoard/internal/editor"
	"ScriptBoard/internal/loop"
	"ScriptBoard/internal/net"
	"ScriptBoard/internal/ui"
)

var editorCmd = &cobra.Command{
	Use:   "editor [file]",
	Short: "Open the script editor",
	Long: `Opens the script editor window. With --headless the editor has no window:
it serves the given file to runners that request it and reloads the file
whenever it changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		advertise, _ := cmd.Flags().GetBool("advertise")
		file := ""
		if len(args) > 0 {
			file = args[0]
		}

		if !headless {
			name, _ := cmd.Flags().GetString("profile")
			ui.RunEditor(ui.EditorOptions{
				Options: ui.Options{Profiles: profiles, Profile: name, Log: appLog, Advertise: advertise},
				File:    file,
			})
			return nil
		}
		if file == "" {
			return errors.New("--headless needs a script file to serve")
		}
		return runHeadlessEditor(cmd, file, advertise)
	},
}

func runHeadlessEditor(cmd *cobra.Command, file string, advertise bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := loop.NewQueue(64)
	session := editor.NewSession(queue, appLog)
	defer session.Close()

	if err := session.Open(file); err != nil {
		return err
	}
	watcher, err := session.Watcher()
	if err != nil {
		return err
	}
	session.ApplyProfile(activeProfile(cmd))
	if session.LocalAddr().Port == 0 {
		return errors.New("editor could not bind its port")
	}

	if advertise {
		adv, err := net.Advertise(net.RoleEditor, session.LocalAddr().Port, appLog)
		if err != nil {
			appLog.Warn("mDNS advertise failed", "error", err)
		} else {
			defer adv.Shutdown()
		}
	}

	go func() {
		if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			appLog.Warn("File watch stopped", "error", err)
		}
	}()

	appLog.Info("Serving script", "file", file, "addr", session.LocalAddr())
	if err := queue.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(editorCmd)

	editorCmd.Flags().Bool("headless", false, "Serve the file without a window")
	editorCmd.Flags().Bool("advertise", false, "Announce the editor on the LAN over mDNS")
}
