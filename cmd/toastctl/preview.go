package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/tui"
)

var previewOpts struct {
	local    bool
	interval time.Duration
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Launch the interactive stack preview",
	Long: `Launch a terminal preview of the notification page.

Toasts are drawn where the page would place them: the newest in the middle
at full size, older ones fanned out to both sides and dimmed. The countdown
bar drains as each toast approaches expiry.

With --local the preview runs its own in-process stack instead of talking
to a daemon, which is handy for trying out themes and layout settings.

Key bindings:
  ←/→, h/l    Select newer/older
  enter       View details
  n           Send a sample notification
  d           Dismiss selected
  o           Open the page
  esc         Close the page (sends Escape)
  c           Copy frame as JSON
  alt+c       Copy frame as YAML
  ?           Show help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().BoolVar(&previewOpts.local, "local", false,
		"Run an in-process stack instead of connecting to toastd")
	previewCmd.Flags().DurationVar(&previewOpts.interval, "interval", tui.DefaultRefreshInterval,
		"Frame refresh interval")
}

func runPreview(cmd *cobra.Command, args []string) error {
	var backend tui.Backend
	if previewOpts.local {
		d := daemon.New(daemon.Options{Config: cfg, Logger: logger})
		defer d.Close()
		backend = tui.NewLocalBackend(d)
	} else {
		c, err := connect()
		if err != nil {
			return err
		}
		backend = remoteBackend{client: c}
	}

	return tui.Run(tui.RunOptions{
		Backend:          backend,
		ClipboardCommand: cfg.Clipboard.Command,
		RefreshInterval:  previewOpts.interval,
	})
}
