// Package tui provides the BubbleTea-based terminal preview of the toast stack.
package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/host"
	"github.com/jmylchreest/toastd/internal/model"
	"github.com/jmylchreest/toastd/internal/shell"
)

// DefaultRefreshInterval is how often the frame is re-fetched.
const DefaultRefreshInterval = 250 * time.Millisecond

// Card widths in cells for the front item; secondary items are scaled down.
const (
	cardWidth   = 36
	minCardSize = 16
	barWidth    = 20
)

// Backend is the toastd instance the preview talks to.
type Backend interface {
	Frame() (display.Frame, error)
	Send(msg host.Message) error
}

// Mode represents the current UI mode.
type Mode int

const (
	ModeStack Mode = iota
	ModeDetail
	ModeHelp
)

// Model is the main TUI model.
type Model struct {
	backend   Backend
	clipboard string
	interval  time.Duration

	mode Mode

	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	frame    display.Frame
	selected int // index into frame.Items
	samples  int // samples sent so far, cycles the type
	width    int
	height   int
	ready    bool

	statusMsg string
	statusErr bool
}

// New creates a new TUI model.
func New(backend Backend, opts ...Option) Model {
	m := Model{
		backend:  backend,
		interval: DefaultRefreshInterval,
		mode:     ModeStack,
		help:     help.New(),
		keys:     DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Option configures a Model.
type Option func(*Model)

// WithClipboardCommand overrides clipboard auto-detection.
func WithClipboardCommand(cmd string) Option {
	return func(m *Model) { m.clipboard = cmd }
}

// WithRefreshInterval sets how often the frame is polled.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

type frameMsg struct {
	frame display.Frame
	err   error
}

type tickMsg time.Time

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type sentMsg struct {
	text string
	err  error
}

// Init fetches the first frame and starts polling.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchFrame, m.tick())
}

func (m Model) fetchFrame() tea.Msg {
	f, err := m.backend.Frame()
	return frameMsg{frame: f, err: err}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// send delivers msg to the backend and refreshes the frame afterwards.
func (m Model) send(msg host.Message, done string) tea.Cmd {
	return func() tea.Msg {
		return sentMsg{text: done, err: m.backend.Send(msg)}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.viewport = viewport.New(msg.Width, max(msg.Height-4, 1))
		m.viewport.YPosition = 2
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchFrame, m.tick())

	case frameMsg:
		if msg.err != nil {
			m.statusMsg = "Frame unavailable: " + msg.err.Error()
			m.statusErr = true
			return m, nil
		}
		m.setFrame(msg.frame)
		return m, nil

	case sentMsg:
		if msg.err != nil {
			return m, status(msg.err.Error(), true)
		}
		return m, tea.Batch(m.fetchFrame, status(msg.text, false))

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	if m.mode == ModeDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// setFrame swaps in a new frame and keeps the selection on the same id when
// it is still present.
func (m *Model) setFrame(f display.Frame) {
	prev := m.selectedID()
	m.frame = f
	m.selected = 0
	for i, it := range f.Items {
		if it.Notification.ID == prev {
			m.selected = i
			break
		}
	}
	if m.mode == ModeDetail {
		if it, ok := m.selectedItem(); ok {
			m.viewport.SetContent(renderDetail(it))
		} else {
			m.mode = ModeStack
		}
	}
}

func (m Model) selectedItem() (display.Item, bool) {
	if m.selected < 0 || m.selected >= len(m.frame.Items) {
		return display.Item{}, false
	}
	return m.frame.Items[m.selected], true
}

func (m Model) selectedID() string {
	if it, ok := m.selectedItem(); ok {
		return it.Notification.ID
	}
	return ""
}

type copyResultMsg struct {
	err error
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeStack
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeStack:
		return m.handleStackKey(msg)
	case ModeDetail:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeStack
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeStack
		}
	}
	return m, nil
}

// handleStackKey handles keys in stack mode.
func (m Model) handleStackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.selected < len(m.frame.Items)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if it, ok := m.selectedItem(); ok {
			m.mode = ModeDetail
			m.viewport.SetContent(renderDetail(it))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		// Escape goes to the page exactly as the host would forward it.
		return m, m.send(host.KeyDown(shell.KeyEscape), "Escape sent")

	case key.Matches(msg, m.keys.ShowPage):
		return m, m.send(host.ShowPage(), "Page opened")

	case key.Matches(msg, m.keys.Dismiss):
		if id := m.selectedID(); id != "" {
			return m, m.send(host.Dismiss(id), "Notification dismissed")
		}
		return m, nil

	case key.Matches(msg, m.keys.Send):
		p := samplePayload(m.samples)
		m.samples++
		return m, m.send(host.ShowNotification(p), "Sent "+p.Type+" sample")

	case key.Matches(msg, m.keys.CopyJSON):
		data, err := json.MarshalIndent(m.frame, "", "  ")
		if err != nil {
			return m, status("Failed to marshal JSON: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.CopyYAML):
		data, err := yaml.Marshal(m.frame)
		if err != nil {
			return m, status("Failed to marshal YAML: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchFrame
	}
	return m, nil
}

// samplePayload returns a demo notification, cycling through the types.
func samplePayload(n int) model.Payload {
	types := model.ValidTypes()
	typ := types[n%len(types)]
	return model.Payload{
		Type:        string(typ),
		Title:       fmt.Sprintf("Sample %s #%d", typ, n+1),
		Description: "Sent from the toastctl preview",
	}
}

func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.clipboard
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, command)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeStack:
		return m.viewStack()
	case ModeDetail:
		return m.viewDetail()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewStack() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	state := "hidden"
	if m.frame.Visible {
		state = "visible"
	}
	header := titleStyle.Render("toastd") + dim.Render(fmt.Sprintf("page %s · %d active", state, len(m.frame.Items)))

	body := renderStack(m.frame, m.selected, m.width)
	if m.frame.Empty() {
		body = dim.Render("\n  No notifications. Press n to send a sample.\n")
	}

	return header + "\n\n" + body + "\n" + m.statusLine("stack")
}

func (m Model) viewDetail() string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("Notification Detail")
	return header + "\n" + m.viewport.View() + "\n" + m.statusLine("detail")
}

func (m Model) viewHelp() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("Keyboard Shortcuts")
	h := m.help
	h.ShowAll = true
	h.Width = m.width
	return title + "\n\n" + h.View(m.keys) + "\n\n" +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Press ? or esc to return")
}

func (m Model) statusLine(mode string) string {
	if m.statusMsg == "" {
		return m.buildKeybindBar(m.width, mode)
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	if m.statusErr {
		style = style.Foreground(lipgloss.Color("9"))
	}
	return style.Render(m.statusMsg)
}

// renderStack lays the cards out left to right by their x offset, so the
// front item sits in the middle with older items fanned out to both sides.
func renderStack(f display.Frame, selected, width int) string {
	if f.Empty() {
		return ""
	}

	order := make([]int, len(f.Items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.Items[order[a]].Placement.X < f.Items[order[b]].Placement.X
	})

	cards := make([]string, 0, len(order))
	for _, i := range order {
		cards = append(cards, renderCard(f.Items[i], i == selected))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, cards...)
	if width > 0 {
		row = lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
	}
	return row
}

// renderCard draws a single toast: icon, title, description and countdown.
func renderCard(it display.Item, selected bool) string {
	n := it.Notification
	st := it.Style
	p := it.Placement

	w := max(int(float64(cardWidth)*p.Scale), minCardSize)
	border := lipgloss.RoundedBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}

	icon := lipgloss.NewStyle().Foreground(lipgloss.Color(st.IconColor)).Bold(true).Render(st.Icon)
	title := lipgloss.NewStyle().Bold(true).Render(truncate(n.Title, w-4))
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Width(w - 2).Render(n.Description)

	content := []string{icon + " " + title}
	if n.Description != "" {
		content = append(content, desc)
	}
	content = append(content, progressBar(it.Remaining, min(barWidth, w-2), st.BorderColor))

	card := lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color(st.BorderColor)).
		Width(w).
		Padding(0, 1).
		Faint(p.Opacity < 1).
		Render(strings.Join(content, "\n"))

	return lipgloss.NewStyle().Margin(0, 1).Render(card)
}

// progressBar renders the countdown, full at admission and empty at expiry.
func progressBar(remaining float64, width int, color string) string {
	if width <= 0 {
		return ""
	}
	filled := int(remaining*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("━", filled))
	return bar + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(strings.Repeat("─", width-filled))
}

// renderDetail renders the detail view for an item.
func renderDetail(it display.Item) string {
	n := it.Notification
	p := it.Placement

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(it.Style.Primary))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var s strings.Builder
	s.WriteString(headerStyle.Render(it.Style.Icon+" "+n.Title) + "\n\n")
	s.WriteString(labelStyle.Render("ID: ") + n.ID + "\n")
	s.WriteString(labelStyle.Render("Type: ") + string(n.Type) + "\n")
	s.WriteString(labelStyle.Render("Expiry: ") + fmt.Sprintf("%dms (%d%% left)", n.Expiry, int(it.Remaining*100+0.5)) + "\n")
	s.WriteString(labelStyle.Render("Placement: ") +
		fmt.Sprintf("index %d, x %d, scale %.2f, opacity %.2f, z %d, %s", p.Index, p.X, p.Scale, p.Opacity, p.ZIndex, p.Side) + "\n")
	s.WriteString(labelStyle.Render("Border: ") + it.Style.BorderColor + "\n")
	s.WriteString(labelStyle.Render("Icon layout: ") + string(it.Style.IconLayout) + "\n")
	if len(it.Style.Animation) > 0 {
		motions := make([]string, len(it.Style.Animation))
		for i, a := range it.Style.Animation {
			motions[i] = string(a)
		}
		s.WriteString(labelStyle.Render("Animation: ") + strings.Join(motions, ", ") + "\n")
	}

	s.WriteString("\n" + labelStyle.Render("Description:") + "\n")
	s.WriteString(n.Description + "\n")

	return s.String()
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return s[:maxLen]
	}
	return s[:maxLen-1] + "…"
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// mode determines which keybinds are shown: "stack" or "detail".
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind
	switch mode {
	case "stack":
		binds = []keybind{
			{"q", "quit", 1},
			{"n", "sample", 2},
			{"d", "dismiss", 3},
			{"esc", "close page", 4},
			{"o", "open page", 5},
			{"enter", "view", 6},
			{"?", "help", 7},
			{"←/→", "select", 8},
			{"c", "copy", 9},
		}
	case "detail":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "back", 2},
			{"j/k", "scroll", 3},
		}
	}
	sort.SliceStable(binds, func(i, j int) bool { return binds[i].priority < binds[j].priority })

	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		testLen := lipgloss.Width(result) + lipgloss.Width(b.key+" "+b.desc)
		if result != "" {
			testLen += len(separator)
		}
		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return style.Render(result)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Backend          Backend
	ClipboardCommand string
	RefreshInterval  time.Duration
}

// Run starts the preview and blocks until the user quits.
func Run(opts RunOptions) error {
	if opts.Backend == nil {
		return fmt.Errorf("no backend provided")
	}
	m := New(opts.Backend,
		WithClipboardCommand(opts.ClipboardCommand),
		WithRefreshInterval(opts.RefreshInterval),
	)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
