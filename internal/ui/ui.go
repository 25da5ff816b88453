package ui

import (
	"context"
	"fmt"

	"github.com/aveledo/tracktop/internal/models"
	"github.com/aveledo/tracktop/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunningView ViewState = iota
	ResultView
)

// Op selects which artwork pass the TUI drives.
type Op int

const (
	GenerateOp Op = iota
	FetchOp
)

func (o Op) String() string {
	if o == FetchOp {
		return "Artwork fetch"
	}
	return "Placeholder pass"
}

// recentLines caps the scrollback shown under the status line.
const recentLines = 8

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.MediaResult
	err    error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	op           Op
	engine       tasks.BuildEngine
	data         *models.MusicData
	opts         tasks.MediaOpts
	width        int
	height       int
	spin         spinner.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	recent       []string
	result       *tasks.MediaResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.BuildEngine, data *models.MusicData, opts tasks.MediaOpts, op Op) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ok
	return &Model{
		ctx:    ctx,
		view:   RunningView,
		op:     op,
		engine: engine,
		data:   data,
		opts:   opts,
		spin:   sp,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Result returns the pipeline outcome once the TUI has exited.
func (m *Model) Result() (*tasks.MediaResult, error) {
	return m.result, m.err
}

// Init starts the artwork pass in the background.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.startRun())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		m.recent = append(m.recent, m.progress.Message)
		if len(m.recent) > recentLines {
			m.recent = m.recent[len(m.recent)-recentLines:]
		}
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunningView:
		return m.renderRunning()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		var result *tasks.MediaResult
		var err error
		if m.op == FetchOp {
			result, err = m.engine.Fetch(m.ctx, m.progressChan, m.data, m.opts)
		} else {
			result, err = m.engine.Generate(m.ctx, m.progressChan, m.data, m.opts)
		}
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func phaseLabel(p tasks.Phase) string {
	switch p {
	case tasks.AlbumArt:
		return "Album covers"
	case tasks.ArtistArt:
		return "Artist images"
	default:
		return "Working"
	}
}

func (m *Model) renderRunning() string {
	title := styles.title.Render(m.op.String())

	status := fmt.Sprintf("%s %s (%d/%d)", m.spin.View(), phaseLabel(m.progress.Phase), m.progress.Step, m.progress.Total)

	var log string
	for _, line := range m.recent {
		log += fmt.Sprintf("\n  %s", line)
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, status, log, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Artwork pass failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render(fmt.Sprintf("✓ %s complete", m.op))
	info := fmt.Sprintf(
		"\nAlbums: %d\nArtists: %d\nDownloaded: %d\nPlaceholders: %d\nSkipped: %d",
		m.result.Albums,
		m.result.Artists,
		m.result.Downloaded,
		m.result.Placeholders,
		m.result.Skipped,
	)

	var failed string
	if len(m.result.Failures) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d entries failed:", len(m.result.Failures))))
		for _, f := range m.result.Failures {
			failed += fmt.Sprintf("\n  • %s %q: %v", f.Kind, f.Name, f.Err)
		}
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s%s%s\n\n%s", title, info, failed, helpView)
}
