package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/model"
)

var sendOpts struct {
	typ           string
	description   string
	expiry        int64
	icon          string
	iconAnimation string
	iconColor     string
	borderColor   string
	positionIcon  string
	json          bool
}

var sendCmd = &cobra.Command{
	Use:   "send [title]",
	Short: "Show a notification",
	Long: `Show a notification on the page.

The title is taken from the argument. With --json the whole payload is read
from stdin instead, using the same field names the host sends.

Examples:
  toastctl send "Saved" --type success
  toastctl send "Low fuel" -t warning -d "Refuel soon" --expiry 8000
  echo '{"type":"error","title":"Failed"}' | toastctl send --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.typ, "type", "t", "info",
		"Notification type (success, warning, error, info)")
	sendCmd.Flags().StringVarP(&sendOpts.description, "description", "d", "",
		"Description text")
	sendCmd.Flags().Int64Var(&sendOpts.expiry, "expiry", 0,
		"Lifetime in milliseconds (0 = configured default)")
	sendCmd.Flags().StringVar(&sendOpts.icon, "icon", "",
		"Custom icon identifier")
	sendCmd.Flags().StringVar(&sendOpts.iconAnimation, "icon-animation", "",
		"Icon animation (spin, pulse, bounce, shake, fade)")
	sendCmd.Flags().StringVar(&sendOpts.iconColor, "icon-color", "",
		"Icon color override")
	sendCmd.Flags().StringVar(&sendOpts.borderColor, "border-color", "",
		"Border color override")
	sendCmd.Flags().StringVar(&sendOpts.positionIcon, "position-icon", "",
		"Icon position (top, bottom, left, right)")
	sendCmd.Flags().BoolVar(&sendOpts.json, "json", false,
		"Read the payload as JSON from stdin")
}

func runSend(cmd *cobra.Command, args []string) error {
	p, err := buildPayload(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	c, err := connect()
	if err != nil {
		return err
	}

	id, err := c.ShowNotification(p)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func buildPayload(args []string, stdin io.Reader) (model.Payload, error) {
	if sendOpts.json {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return model.Payload{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return model.ParsePayload(data)
	}

	p := model.Payload{
		Type:          sendOpts.typ,
		Description:   sendOpts.description,
		Expiry:        sendOpts.expiry,
		Icon:          sendOpts.icon,
		IconAnimation: sendOpts.iconAnimation,
		IconColor:     sendOpts.iconColor,
		BorderColor:   sendOpts.borderColor,
		PositionIcon:  sendOpts.positionIcon,
	}
	if len(args) > 0 {
		p.Title = args[0]
	}
	return p, nil
}
