package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/core"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
)

var dismissOpts struct {
	stdin bool
	front bool
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [ref...]",
	Short: "Remove notifications from the page",
	Long: `Remove notifications by reference. A reference is a stack index
(0 = front), a full id, or a unique id prefix.

Examples:
  toastctl dismiss 0
  toastctl dismiss 01JB
  toastctl dismiss --front
  toastctl frame -f ids | toastctl dismiss --stdin
  toastctl frame -f dmenu | fuzzel -d | toastctl dismiss --stdin`,
	RunE: runDismiss,
}

func init() {
	rootCmd.AddCommand(dismissCmd)

	dismissCmd.Flags().BoolVar(&dismissOpts.stdin, "stdin", false,
		"Read ids from stdin, one per line (the last field of dmenu lines is used)")
	dismissCmd.Flags().BoolVar(&dismissOpts.front, "front", false,
		"Dismiss the front (newest) notification")
}

func runDismiss(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		return err
	}

	ids, err := resolveRefs(c, args)
	if err != nil {
		return err
	}
	if dismissOpts.stdin {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if id := lastField(scanner.Text()); id != "" {
				ids = append(ids, id)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}
	if dismissOpts.front {
		f, err := c.Frame()
		if err != nil {
			return err
		}
		if front, ok := f.Front(); ok {
			ids = append(ids, front.Notification.ID)
		}
	}

	if len(ids) == 0 {
		return fmt.Errorf("no notification ids given")
	}

	removed := 0
	for _, id := range ids {
		ok, err := c.Dismiss(id)
		if err != nil {
			return err
		}
		if ok {
			removed++
		} else {
			logger.Debug("notification not present", "id", id)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %d of %d notification(s)\n", removed, len(ids))
	return nil
}

// resolveRefs turns index and prefix references into full ids. Full ids
// are passed through without fetching a frame.
func resolveRefs(c toastd, refs []string) ([]string, error) {
	var ids []string
	var f *display.Frame
	for _, ref := range refs {
		if strings.HasPrefix(ref, model.IDPrefix) && len(ref) == len(model.IDPrefix)+26 {
			ids = append(ids, ref)
			continue
		}
		if f == nil {
			frame, err := c.Frame()
			if err != nil {
				return nil, err
			}
			f = &frame
		}
		it, err := core.Resolve(f.Items, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, it.Notification.ID)
	}
	return ids, nil
}

// lastField returns the last " | " separated field of a line, which is the
// id in dmenu output and the whole line in ids output.
func lastField(line string) string {
	parts := strings.Split(line, "|")
	return strings.TrimSpace(parts[len(parts)-1])
}
