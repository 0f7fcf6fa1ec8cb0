package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/pkg/meta"
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/storage"
	"github.com/muesli/reflow/wordwrap"
)

const (
	PlaceHolderText = "Type a /command here..."
	journalLimit    = 200
)

// journal collects lines written by store subscriptions. Callbacks run
// inside Dispatch, so it is shared by pointer across model copies.
type journal struct {
	mu    sync.Mutex
	lines []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lines = append(j.lines, fmt.Sprintf(format, args...))
	if len(j.lines) > journalLimit {
		j.lines = j.lines[len(j.lines)-journalLimit:]
	}
}

func (j *journal) snapshot() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.lines...)
}

// session is the run being played plus the subscriptions that feed the
// journal and meta progress.
type session struct {
	id      uuid.UUID
	store   *state.Store
	storage storage.Storage
	journal *journal
	unsub   []func()
}

func newSession(id uuid.UUID, store *state.Store, st storage.Storage, j *journal) *session {
	s := &session{id: id, store: store, storage: st, journal: j}

	s.unsub = append(s.unsub,
		state.Subscribe(store, state.View.Phase, func(phase string) {
			j.add("» %s", phase)
		}),
		state.Subscribe(store, state.View.Resources, func(r resources.Resources) {
			j.add("  gold %d, ether %d, memory %d", r.Gold, r.EtherPts, r.Memory)
		}),
		state.Subscribe(store, func(v state.View) int { return v.Player().HP }, func(hp int) {
			j.add("  hp %d", hp)
		}),
		state.Subscribe(store, state.View.RunOver, func(over bool) {
			if !over {
				return
			}
			j.add("The run has ended.")
			s.recordRun()
		}),
	)
	return s
}

func (s *session) close() {
	for _, fn := range s.unsub {
		fn()
	}
}

func (s *session) recordRun() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := meta.Load(ctx, s.storage, discardLogger()).RecordRun(s.store.View().Snapshot())
	if err := meta.Save(ctx, s.storage, p); err != nil {
		s.journal.add("Failed to save progress: %v", err)
	}
}

func (s *session) save() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.storage.SaveRun(ctx, s.id, s.store.View().Snapshot())
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	session      *session
	newRun       func() *session
	mainViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	status       string
	err          error

	showQuitModal bool
}

var (
	mainPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(s *session, newRun func() *session) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	mainVp := viewport.New(50, 20)
	mainVp.MouseWheelEnabled = true

	return ConsoleUI{
		session:      s,
		newRun:       newRun,
		textarea:     ta,
		mainViewport: mainVp,
		metaViewport: viewport.New(20, 20),
		status:       "Type /help for commands.",
	}
}

// refresh re-renders both panels from the current view.
func (m *ConsoleUI) refresh() {
	width := m.mainViewport.Width - 6
	v := m.session.store.View()
	eligible := m.session.store.Engine().EligibleChoices(v.Snapshot())

	var content strings.Builder
	content.WriteString(writeScene(v, eligible, width))
	content.WriteString("\n" + separatorStyle.Render(strings.Repeat("─", max(width-6, 1))) + "\n")
	for _, line := range m.session.journal.snapshot() {
		content.WriteString(promptStyle.Render(line) + "\n")
	}
	if m.err != nil {
		content.WriteString(errorStyle.Render(wordwrap.String(m.err.Error(), max(width, 20))) + "\n")
	} else if m.status != "" {
		content.WriteString(userStyle.Render(wordwrap.String(m.status, max(width, 20))) + "\n")
	}

	m.mainViewport.SetContent(content.String())
	m.mainViewport.GotoBottom()
	m.metaViewport.SetContent(writeMetadata(v))
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.mainViewport, vpCmd = m.mainViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		mainWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - mainWidth - 6

		m.mainViewport.Width = mainWidth - 2
		m.mainViewport.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(mainWidth - 4)
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			return m.handleCommand(input)
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.mainViewport, vpCmd = m.mainViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.err = nil
	m.status = ""
	name := strings.ToLower(strings.Fields(input)[0])

	switch name {
	case "/help":
		m.status = helpText()
	case "/quit", "/exit":
		m.showQuitModal = true
		return m, nil
	case "/new":
		m.session.close()
		m.session = m.newRun()
		m.status = "New run started."
	case "/save":
		if err := m.session.save(); err != nil {
			m.err = fmt.Errorf("save failed: %w", err)
		} else {
			m.status = "Saved run " + m.session.id.String()
		}
	case "/copy":
		data, err := json.MarshalIndent(m.session.store.View(), "", "  ")
		if err == nil {
			err = clipboard.WriteAll(string(data))
		}
		if err != nil {
			m.err = fmt.Errorf("copy failed: %w", err)
		} else {
			m.status = "Run copied to clipboard."
		}
	default:
		action, err := parseAction(input, m.session.store.View().Phase())
		switch {
		case errors.Is(err, errNotAction):
			m.err = fmt.Errorf("unknown command %s", name)
		case err != nil:
			m.err = err
		case !m.session.store.Dispatch(action):
			m.status = "Nothing happened."
		}
	}

	if m.ready {
		m.refresh()
	}
	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress in this run will be lost.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	mainWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - mainWidth - 6

	mainPanel := mainPanelStyle.Width(mainWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.mainViewport.View(),
			separatorStyle.Render(strings.Repeat("─", max(mainWidth-4, 1))),
			m.textarea.View(),
		),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, metaPanel)
}
