package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/adapter/output"
	"github.com/jmylchreest/toastd/internal/core"
	"github.com/jmylchreest/toastd/internal/display"
)

var frameOpts struct {
	format    string
	template  string
	placement bool
	field     string
	index     int
	ref       string
	types     string
	side      string
	search    string
	limit     int
}

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Print the current render frame",
	Long: `Print the page's current render frame: visibility and every active
notification with its placement, style and remaining lifetime.

Examples:
  toastctl frame
  toastctl frame -f json
  toastctl frame -f yaml
  toastctl frame --type error,warning --search disk
  toastctl frame --field title --index 0
  toastctl frame -f dmenu --template '{{.Notification.Title}} ({{.ExpiresIn}})'`,
	Args: cobra.NoArgs,
	RunE: runFrame,
}

func init() {
	rootCmd.AddCommand(frameCmd)

	frameCmd.Flags().StringVarP(&frameOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, dmenu, ids)")
	frameCmd.Flags().StringVar(&frameOpts.template, "template", "",
		"Custom Go template for plain and dmenu output")
	frameCmd.Flags().BoolVar(&frameOpts.placement, "placement", false,
		"Include placement in plain output")
	frameCmd.Flags().StringVar(&frameOpts.field, "field", "",
		"Output a single field of one item (id, type, title, description, icon, color, side)")
	frameCmd.Flags().IntVar(&frameOpts.index, "index", 0,
		"Item index for --field (0 = front)")
	frameCmd.Flags().StringVar(&frameOpts.ref, "ref", "",
		"Item reference for --field (index, id or id prefix); overrides --index")
	frameCmd.Flags().StringVar(&frameOpts.types, "type", "",
		"Only show these types (comma-separated)")
	frameCmd.Flags().StringVar(&frameOpts.side, "side", "",
		"Only show items on this side (center, left, right)")
	frameCmd.Flags().StringVarP(&frameOpts.search, "search", "s", "",
		"Search in title and description")
	frameCmd.Flags().IntVarP(&frameOpts.limit, "limit", "n", 0,
		"Maximum number of items to show (0=unlimited)")
}

func runFrame(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}
	f, err := c.Frame()
	if err != nil {
		return err
	}

	types, err := core.ParseTypes(frameOpts.types)
	if err != nil {
		return err
	}
	f = core.FilterFrame(f, core.FilterOptions{
		Types:  types,
		Side:   display.Side(frameOpts.side),
		Search: frameOpts.search,
		Limit:  frameOpts.limit,
	})

	if frameOpts.field != "" {
		ref := frameOpts.ref
		if ref == "" {
			ref = strconv.Itoa(frameOpts.index)
		}
		it, err := core.Resolve(f.Items, ref)
		if err != nil {
			return fmt.Errorf("%w (%d active)", err, len(f.Items))
		}
		fmt.Fprintln(cmd.OutOrStdout(), output.FormatField(it, frameOpts.field))
		return nil
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = frameOpts.template
	opts.ShowPlacement = frameOpts.placement
	return output.NewFormatter(output.FormatType(frameOpts.format), opts).Format(cmd.OutOrStdout(), f)
}
