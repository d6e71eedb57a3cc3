package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"board-sync/feature/board"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type connectedMsg struct{ client *Client }

type snapshotMsg Message

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

var (
	quitKey    = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	refreshKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	orderKey   = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle order"))
)

// Options configures the watch program.
type Options struct {
	URL    string
	Origin string
	// ShowOrder starts with order numbers visible.
	ShowOrder bool
}

// Model is the Bubble Tea model of the live board view.
type Model struct {
	opts    Options
	spinner spinner.Model
	client  *Client

	snap      *board.Snapshot
	lastEvent string
	updates   int
	updatedAt time.Time
	err       error
	showOrder bool
}

// NewModel creates a model that connects on Init.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = mutedStyle
	return Model{opts: opts, spinner: s, showOrder: opts.ShowOrder}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(opts Options) error {
	final, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	if m, ok := final.(Model); ok && m.client != nil {
		_ = m.client.Close()
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, connect(m.opts))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKey):
			return m, tea.Quit
		case key.Matches(msg, refreshKey) && m.client != nil:
			return m, request(m.client)
		case key.Matches(msg, orderKey):
			m.showOrder = !m.showOrder
		}
		return m, nil

	case connectedMsg:
		m.client = msg.client
		m.err = nil
		return m, tea.Batch(request(m.client), listen(m.client))

	case snapshotMsg:
		if msg.Snapshot != nil {
			m.snap = msg.Snapshot
			m.lastEvent = msg.Event
			m.updatedAt = time.Now()
			if msg.Event == board.EventStateUpdate {
				m.updates++
			}
		}
		return m, listen(m.client)

	case errMsg:
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Board"))
	b.WriteString("  ")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	case m.snap == nil:
		b.WriteString(m.spinner.View() + mutedStyle.Render(" connecting to "+m.opts.URL))
	default:
		b.WriteString(okStyle.Render("●"))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %d items  %d folders  %d updates",
			len(m.snap.Items), len(m.snap.Folders), m.updates)))
	}
	b.WriteString("\n\n")

	if m.snap != nil {
		b.WriteString(Render(Rows(m.snap), m.showOrder))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(strings.Join([]string{
		quitKey.Help().Key + " " + quitKey.Help().Desc,
		refreshKey.Help().Key + " " + refreshKey.Help().Desc,
		orderKey.Help().Key + " " + orderKey.Help().Desc,
	}, " • ")))
	return b.String()
}

func connect(opts Options) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c, err := Dial(ctx, opts.URL, opts.Origin)
		if err != nil {
			return errMsg{err}
		}
		return connectedMsg{client: c}
	}
}

func request(c *Client) tea.Cmd {
	return func() tea.Msg {
		if err := c.RequestState(); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func listen(c *Client) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		msg, err := c.Next()
		if err != nil {
			return errMsg{fmt.Errorf("connection lost: %w", err)}
		}
		return snapshotMsg(msg)
	}
}
