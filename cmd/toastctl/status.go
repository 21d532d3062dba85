package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
)

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output the stack status in Waybar's custom module JSON format.

  "custom/toasts": {
    "exec": "toastctl status",
    "interval": 2,
    "return-type": "json",
    "on-click": "toastctl page show"
  }

The output includes:
  - text: Number of active notifications
  - alt/class: Type of the most severe active notification (error, warning,
    success, info), "error" when toastd is unreachable, or "empty"
  - tooltip: Breakdown by type`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := connect()
	if err != nil {
		logger.Debug("toastd unreachable", "error", err)
		return outputStatus(cmd.OutOrStdout(), WaybarStatus{Alt: "error", Class: "error", Tooltip: "toastd unreachable"})
	}
	f, err := c.Frame()
	if err != nil {
		logger.Debug("frame unavailable", "error", err)
		return outputStatus(cmd.OutOrStdout(), WaybarStatus{Alt: "error", Class: "error", Tooltip: "toastd unreachable"})
	}
	return outputStatus(cmd.OutOrStdout(), generateStatus(f))
}

// severity orders types for the status class, most severe first.
var severity = []model.Type{model.TypeError, model.TypeWarning, model.TypeSuccess, model.TypeInfo}

// generateStatus creates a WaybarStatus from a frame.
func generateStatus(f display.Frame) WaybarStatus {
	if f.Empty() {
		return WaybarStatus{Alt: "empty", Class: "empty"}
	}

	counts := make(map[model.Type]int)
	for _, it := range f.Items {
		counts[it.Notification.Type]++
	}

	class := string(model.TypeInfo)
	var lines []string
	for _, typ := range severity {
		if counts[typ] == 0 {
			continue
		}
		if len(lines) == 0 {
			class = string(typ)
		}
		lines = append(lines, fmt.Sprintf("%s: %d", typ, counts[typ]))
	}

	tooltip := fmt.Sprintf("%d active\n%s", len(f.Items), strings.Join(lines, "\n"))
	if front, ok := f.Front(); ok {
		tooltip += "\nLatest: " + front.Notification.Title
	}

	return WaybarStatus{
		Text:       fmt.Sprintf("%d", len(f.Items)),
		Alt:        class,
		Tooltip:    tooltip,
		Class:      class,
		Percentage: min(len(f.Items)*10, 100),
	}
}

// outputStatus writes the status as JSON.
func outputStatus(w io.Writer, status WaybarStatus) error {
	return json.NewEncoder(w).Encode(status)
}
