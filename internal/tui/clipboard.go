package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const clipboardTimeout = 5 * time.Second

var errNoClipboard = errors.New("no clipboard command available")

// clipboardCandidates are tried in order; the first whose binary is on PATH
// wins. Wayland tools are only considered inside a Wayland session.
var clipboardCandidates = []struct {
	command string
	wayland bool
}{
	{"wl-copy", true},
	{"xclip -selection clipboard", false},
	{"xsel --clipboard --input", false},
	{"pbcopy", false},
}

// copyText pipes text into the clipboard command.
func copyText(text, command string) error {
	args := strings.Fields(detectClipboardCommand(command))
	if len(args) == 0 {
		return errNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Stdin = strings.NewReader(text)
	if out, err := c.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// detectClipboardCommand returns configured when set, otherwise the first
// available candidate, or "" when none is installed.
func detectClipboardCommand(configured string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}

	wayland := os.Getenv("WAYLAND_DISPLAY") != ""
	for _, c := range clipboardCandidates {
		if c.wayland && !wayland {
			continue
		}
		bin, _, _ := strings.Cut(c.command, " ")
		if _, err := exec.LookPath(bin); err == nil {
			return c.command
		}
	}
	return ""
}
