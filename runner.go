package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ScriptBoard/internal/feed"
	"ScriptBoard/internal/loop"
	"ScriptBoard/internal/net"
	"ScriptBoard/internal/runner"
	"ScriptBoard/internal/ui"
)

var runnerCmd = &cobra.Command{
	Use:   "runner",
	Short: "Open the script runner",
	Long: `Opens the runner window, which runs every script it receives and draws the
result. With --headless the runner has no window; use --png or --pdf to write
the canvas after each run and --feed to serve it to websocket viewers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		advertise, _ := cmd.Flags().GetBool("advertise")
		timeout, _ := cmd.Flags().GetDuration("script-timeout")
		feedAddr, _ := cmd.Flags().GetString("feed")

		var hub *feed.Hub
		if feedAddr != "" {
			hub = feed.NewHub(appLog)
		}

		if !headless {
			name, _ := cmd.Flags().GetString("profile")
			ui.RunRunner(ui.RunnerOptions{
				Options:       ui.Options{Profiles: profiles, Profile: name, Log: appLog, Advertise: advertise},
				ScriptTimeout: timeout,
				FeedAddr:      feedAddr,
				Feed:          hub,
			})
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		queue := loop.NewQueue(64)
		session := runner.NewSession(queue, appLog)
		defer session.Close()

		session.SetScriptTimeout(timeout)
		pngPath, _ := cmd.Flags().GetString("png")
		pdfPath, _ := cmd.Flags().GetString("pdf")
		session.ExportAfterRun(pngPath, pdfPath)
		session.Listen(runner.Listener{Logged: func(line string) { printf(cmd, "%s\n", line) }})
		session.ApplyProfile(activeProfile(cmd))
		if session.LocalAddr().Port == 0 {
			return errors.New("runner could not bind its port")
		}

		if advertise {
			adv, err := net.Advertise(net.RoleRunner, session.LocalAddr().Port, appLog)
			if err != nil {
				appLog.Warn("mDNS advertise failed", "error", err)
			} else {
				defer adv.Shutdown()
			}
		}

		if hub != nil {
			hub.Attach(session.Scene())
			go func() {
				if err := hub.Serve(ctx, feedAddr); err != nil {
					appLog.Error("Scene feed stopped", "error", err)
				}
			}()
		}

		if err := queue.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runnerCmd)

	runnerCmd.Flags().Bool("headless", false, "Run received scripts without a window")
	runnerCmd.Flags().Bool("advertise", false, "Announce the runner on the LAN over mDNS")
	runnerCmd.Flags().Duration("script-timeout", 0, "Abort scripts that run longer than this (0 = no limit)")
	runnerCmd.Flags().String("png", "", "Headless: write the canvas to this PNG after each run")
	runnerCmd.Flags().String("pdf", "", "Headless: write the canvas to this PDF after each run")
	runnerCmd.Flags().String("feed", "", "Serve the live scene to websocket viewers on this address, e.g. :8090")
}
