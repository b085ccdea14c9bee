package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ScriptBoard/internal/config"
	"ScriptBoard/internal/logging"
)

var (
	appLog   *slog.Logger
	profiles *config.Profiles
)

var rootCmd = &cobra.Command{
	Use:   "scriptboard",
	Short: "Author drawing scripts in one process and run them in another",
	Long: `ScriptBoard pairs a script editor with a runner that executes Lua drawing
scripts against a canvas. The two talk over UDP: the editor sends its buffer,
or the runner asks for it with GET_SCRIPT.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelName, _ := cmd.Flags().GetString("log-level")
		formatName, _ := cmd.Flags().GetString("log-format")
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(formatName)
		if err != nil {
			return err
		}
		appLog = logging.New(os.Stderr, level, format)

		path, _ := cmd.Flags().GetString("profiles")
		profiles = config.Load(path, appLog)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// activeProfile is the --profile selection, or the first loaded profile.
func activeProfile(cmd *cobra.Command) config.Profile {
	name, _ := cmd.Flags().GetString("profile")
	if name == "" {
		return profiles.First()
	}
	return profiles.ByName(name)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func init() {
	rootCmd.PersistentFlags().String("profiles", "", "Path to profiles.json (default: search next to the executable and in ./config)")
	rootCmd.PersistentFlags().String("profile", "", "Profile name to start with (default: first profile)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}
