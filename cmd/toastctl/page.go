package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Show, close or send keys to the page",
}

var pageShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Make the page visible",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		return c.ShowPage()
	},
}

var pageCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Hide the page and notify the host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		return c.ClosePage()
	},
}

var pageKeyCmd = &cobra.Command{
	Use:   "key <key>",
	Short: "Send a key press to the page",
	Long: `Send a key press to the page, as the host does for keydown events.

Only "Escape" is handled, and only while the page is visible.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		handled, err := c.KeyPress(args[0])
		if err != nil {
			return err
		}
		if !handled {
			fmt.Fprintln(cmd.ErrOrStderr(), "key not handled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.AddCommand(pageShowCmd, pageCloseCmd, pageKeyCmd)
}
