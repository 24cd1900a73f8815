package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhdinshadk/Chat-Bot/internal/models"
	"github.com/mhdinshadk/Chat-Bot/internal/render"
	"github.com/mhdinshadk/Chat-Bot/internal/session"
)

const (
	// maxInputLines is how far the input grows before it scrolls
	maxInputLines = 6

	// chromeHeight is everything that is not viewport or input lines:
	// header (3 + margin), messages border and padding (4), input border,
	// label and margin (4), status bar (2), notice line (1)
	chromeHeight = 18

	minViewportHeight = 3
)

// ChatSession is the part of the session controller the TUI drives
type ChatSession interface {
	Submit(ctx context.Context, text string) (<-chan models.Message, error)
	State() models.State
	SetDraft(s string)
}

var _ ChatSession = (*session.Controller)(nil)

// Message types for the TUI
type (
	animationTickMsg time.Time

	// replyMsg carries the assistant message that closed a request cycle
	replyMsg struct {
		message models.Message
	}

	// noticeMsg is a transient line under the status bar
	noticeMsg struct {
		text string
		err  bool
	}
)

// Options configures the chat interface
type Options struct {
	ModelName string
	Render    render.Options
	// CopyFunc writes to the system clipboard; nil uses atotto/clipboard
	CopyFunc func(string) error
}

// Model represents the TUI state. Conversation state lives in the session;
// the model only keeps what is needed to draw it.
type Model struct {
	session   ChatSession
	modelName string
	opts      render.Options
	copyFn    func(string) error

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready          bool
	animationFrame int
	notice         noticeMsg

	// rendered caches glamour output by message ID for the current width
	rendered      map[int64]string
	renderedWidth int

	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(s ChatSession, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask me anything..."
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.MaxHeight = maxInputLines
	ta.SetHeight(1)
	ta.Focus()

	// enter submits; newlines go through alt+enter or ctrl+j
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = loadingStyle

	copyFn := opts.CopyFunc
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	renderOpts := opts.Render
	if renderOpts.Style == "" {
		renderOpts = render.DefaultOptions()
	}

	return Model{
		session:   s,
		modelName: opts.ModelName,
		opts:      renderOpts,
		copyFn:    copyFn,
		textarea:  ta,
		spinner:   sp,
		rendered:  make(map[int64]string),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func animationTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// waitForReply turns the session's reply channel into a tea message
func waitForReply(replies <-chan models.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-replies
		if !ok {
			return nil
		}
		return replyMsg{message: msg}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth-2, minViewportHeight)
			m.ready = true
		}
		m.viewport.Width = contentWidth - 2
		m.textarea.SetWidth(contentWidth - 4)
		m.resize()
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+y":
			return m, m.copyLastReply()

		case "enter":
			return m.submit()
		}

	case replyMsg:
		m.refreshViewport()
		m.viewport.GotoBottom()

	case noticeMsg:
		m.notice = msg

	case spinner.TickMsg:
		if m.session.State().Pending {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.session.State().Pending {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// only key presses reach the textarea so escape sequences never leak in
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(keyMsg)
		cmds = append(cmds, cmd)
		m.session.SetDraft(m.textarea.Value())
		m.resize()
	}

	// letters are typing, so only paging keys scroll the transcript
	if keyMsg, ok := msg.(tea.KeyMsg); !ok || keyMsg.Type == tea.KeyPgUp || keyMsg.Type == tea.KeyPgDown {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit hands the textarea content to the session. Enter is ignored while
// a reply is pending and whitespace-only input does nothing.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	switch input {
	case "/exit", "/quit":
		return m, tea.Quit
	}

	replies, err := m.session.Submit(context.Background(), m.textarea.Value())
	if err != nil {
		if !errors.Is(err, session.ErrPending) {
			m.notice = noticeMsg{text: err.Error(), err: true}
		}
		return m, nil
	}
	if replies == nil {
		return m, nil
	}

	m.textarea.Reset()
	m.resize()
	m.notice = noticeMsg{}
	m.animationFrame = 0
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		waitForReply(replies),
		m.spinner.Tick,
		animationTick(),
	)
}

func (m Model) copyLastReply() tea.Cmd {
	last, ok := m.session.State().LastAssistant()
	if !ok {
		return func() tea.Msg { return noticeMsg{text: "Nothing to copy yet"} }
	}
	copyFn := m.copyFn
	return func() tea.Msg {
		if err := copyFn(last.Text); err != nil {
			return noticeMsg{text: "Copy failed: " + err.Error(), err: true}
		}
		return noticeMsg{text: "Copied last reply to clipboard"}
	}
}

// inputHeight is the number of visual lines the draft needs, soft wraps
// included, clamped to 1..maxInputLines.
func inputHeight(value string, width int) int {
	if width <= 0 {
		width = 1
	}
	lines := 0
	for _, line := range strings.Split(value, "\n") {
		w := lipgloss.Width(line)
		lines += 1 + w/width
		if w > 0 && w%width == 0 {
			lines--
		}
	}
	if lines < 1 {
		lines = 1
	}
	if lines > maxInputLines {
		lines = maxInputLines
	}
	return lines
}

// resize grows or shrinks the input with its content and gives the rest
// of the screen to the transcript.
func (m *Model) resize() {
	h := inputHeight(m.textarea.Value(), m.textarea.Width())
	if h != m.textarea.Height() {
		m.textarea.SetHeight(h)
	}
	if !m.ready {
		return
	}

	vpHeight := m.height - chromeHeight - h
	if vpHeight < minViewportHeight {
		vpHeight = minViewportHeight
	}
	if vpHeight != m.viewport.Height {
		atBottom := m.viewport.AtBottom()
		m.viewport.Height = vpHeight
		if atBottom {
			m.viewport.GotoBottom()
		}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	state := m.session.State()
	contentWidth := m.width - 4
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.modelName),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	messagesContent := m.viewport.View()
	if len(state.Transcript) == 0 {
		messagesContent = m.renderWelcome()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	label := inputLabelStyle.Render("You")
	if state.Pending {
		label = m.renderLoadingAnimation()
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View()),
	))

	sections = append(sections, m.renderStatusBar(contentWidth, state.Pending))

	notice := ""
	if m.notice.text != "" {
		if m.notice.err {
			notice = errorStyle.Render("⚠ " + m.notice.text)
		} else {
			notice = noticeStyle.Render(m.notice.text)
		}
	}
	sections = append(sections, notice)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		welcomeTitleStyle.Width(width).Render("How can I help you today?"),
		welcomeStyle.Width(width).Render("Type a message below and press Enter"),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the "Generating..." indicator shown while pending
func (m Model) renderLoadingAnimation() string {
	frames := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	frame := m.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(frames[frame%len(frames)])

	var text strings.Builder
	for i, r := range "Generating" {
		c := gradientColors[(i+frame)%len(gradientColors)]
		text.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}

	dots := strings.Repeat(".", (frame/4)%4)
	return fmt.Sprintf("%s %s%s", spin, text.String(), loadingStyle.Render(fmt.Sprintf("%-3s", dots)))
}

func (m Model) renderStatusBar(width int, pending bool) string {
	shortcuts := []struct {
		key      string
		desc     string
		disabled bool
	}{
		{"Enter", "Send", pending},
		{"Alt+Enter", "Newline", false},
		{"Ctrl+Y", "Copy reply", false},
		{"PgUp/PgDn", "Scroll", false},
		{"Esc", "Quit", false},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		if s.disabled {
			items = append(items, statusDisabledStyle.Render(s.key+" "+s.desc))
			continue
		}
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// refreshViewport redraws the transcript from the session state
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	if bubbleWidth != m.renderedWidth {
		m.rendered = make(map[int64]string)
		m.renderedWidth = bubbleWidth
	}

	var content strings.Builder
	for i, msg := range m.session.State().Transcript {
		if i > 0 {
			content.WriteString("\n")
		}
		if msg.IsUser() {
			content.WriteString(m.renderUserMessage(msg, bubbleWidth))
		} else {
			content.WriteString(m.renderAssistantMessage(msg, bubbleWidth))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m *Model) renderUserMessage(msg models.Message, bubbleWidth int) string {
	maxWidth := bubbleWidth * 3 / 4
	textWidth := 0
	for _, line := range strings.Split(msg.Text, "\n") {
		if w := lipgloss.Width(line); w > textWidth {
			textWidth = w
		}
	}
	// padding of the bubble
	width := textWidth + 2
	if width > maxWidth {
		width = maxWidth
	}

	block := lipgloss.JoinVertical(lipgloss.Right,
		userLabelStyle.Render(msg.Sender.Label()+" ⬤"),
		userBubbleStyle.Width(width).Render(msg.Text),
	)
	return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block)
}

func (m *Model) renderAssistantMessage(msg models.Message, bubbleWidth int) string {
	label := assistantLabelStyle.Render("✦ " + msg.Sender.Label())

	if msg.IsFallback() {
		return label + "\n" + fallbackBubbleStyle.Width(bubbleWidth).Render(msg.Text)
	}

	body, ok := m.rendered[msg.ID]
	if !ok {
		body = render.Reply(msg.Text, m.opts.WithWidth(bubbleWidth-4))
		m.rendered[msg.ID] = body
	}
	return label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(body)
}

// RunChat starts the chat TUI on top of s
func RunChat(s ChatSession, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(s, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
