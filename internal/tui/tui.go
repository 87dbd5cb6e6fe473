// Package tui provides a Bubble Tea terminal user interface for ucdump.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/handiism/ucdump/internal/config"
	"github.com/handiism/ucdump/internal/convert"
	ioutils "github.com/handiism/ucdump/internal/io"
	"github.com/handiism/ucdump/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E60026")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateConverting
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   convert.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logger    *slog.Logger
	logs      []LogEntry
	entries   int
	err       error

	// Conversion context
	ctx    context.Context
	cancel context.CancelFunc

	// Conversion manager reference and its event stream
	manager *convert.Manager
	events  chan convert.ProgressEvent

	// unlock releases the output directory lock held during a run
	unlock func() error

	// Conversion progress
	totalFiles     int32
	doneFiles      int32
	totalBytes     int64
	processedBytes int64
	summary        map[model.Status]int

	// Options
	playlist  bool
	keepFirst bool
	verbose   bool

	width  int
	height int
}

// NewModel creates a new TUI model. The cache directory input is prefilled
// from settings.
func NewModel(settings *config.Settings, logger *slog.Logger) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Placeholder = settings.CacheDir
	ti.SetValue(settings.CacheDir)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#E60026"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logger:    logger,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan convert.ProgressEvent, 256),
		playlist:  settings.CreatePlaylist,
		keepFirst: settings.DuplicatePolicy == "first",
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent for every event emitted by the manager.
	ProgressMsg struct {
		Event convert.ProgressEvent
	}

	// ScanDoneMsg is sent when the cache directory scan completes.
	ScanDoneMsg struct {
		Entries int
		Manager *convert.Manager
		Unlock  func() error
		Err     error
	}

	// ConvertDoneMsg is sent when all conversions complete.
	ConvertDoneMsg struct {
		Processed int64
		Total     int64
		Files     int32
		TotalF    int32
		Outcomes  []model.Outcome
		Err       error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateConverting || m.state == StateScanning {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateScanning
				return m, tea.Batch(m.initializeConversion(), m.spinner.Tick)
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.keepFirst = !m.keepFirst
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.entries = 0
				m.err = nil
				m.doneFiles = 0
				m.totalFiles = 0
				m.processedBytes = 0
				m.totalBytes = 0
				m.summary = nil
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level != convert.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}

	case ScanDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.entries = msg.Entries
			m.manager = msg.Manager
			m.unlock = msg.Unlock
			m.state = StateConverting
			cmds = append(cmds, m.startConversion(), m.tickProgress())
		}

	case ConvertDoneMsg:
		m.releaseLock()
		m.processedBytes = msg.Processed
		m.totalBytes = msg.Total
		m.doneFiles = msg.Files
		m.totalFiles = msg.TotalF
		m.summary = summarize(msg.Outcomes)
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateConverting {
			processed, total, files, totalFiles := m.manager.GetProgress()
			m.processedBytes = processed
			m.totalBytes = total
			m.doneFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent forwards the next manager event into the update loop.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♫ ucdump"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Convert NetEase CloudMusic cache files to MP3"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateConverting:
		b.WriteString(m.viewConverting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Cache directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create playlist (ctrl+p)\n", checkbox(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Keep first file for duplicate songs (ctrl+t)\n", checkbox(m.keepFirst)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+o)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning cache directory..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewConverting() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Found %d cache file(s)", m.entries)))
	b.WriteString("\n\n")

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.doneFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Decoded: %s of %s",
		m.doneFiles,
		m.totalFiles,
		humanize.IBytes(uint64(m.processedBytes)),
		humanize.IBytes(uint64(m.totalBytes)),
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	box := boxStyle.Render(fmt.Sprintf(
		"✓ Conversion complete!\n\n"+
			"Converted: %d\n"+
			"With fallback metadata: %d\n"+
			"With tag failures: %d\n"+
			"Failed: %d\n"+
			"Size: %s",
		m.summary[model.StatusDone],
		m.summary[model.StatusDoneFallback],
		m.summary[model.StatusDoneTagFailure],
		m.summary[model.StatusFailed],
		humanize.IBytes(uint64(m.processedBytes)),
	))
	return box + "\n\n" + m.renderLogs()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case convert.LevelError:
			style = errorStyle
			prefix = "✗"
		case convert.LevelWarning:
			style = warningStyle
			prefix = "!"
		case convert.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case convert.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+p: playlist • ctrl+t: duplicates • ctrl+o: verbose • esc: quit"
	case StateScanning, StateConverting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: convert again • q: quit"
	}
	return ""
}

func summarize(outcomes []model.Outcome) map[model.Status]int {
	counts := make(map[model.Status]int)
	for _, o := range outcomes {
		counts[o.Status()]++
	}
	return counts
}

// runSettings copies the base settings and applies the options chosen on
// the input screen.
func (m Model) runSettings() *config.Settings {
	settings := *m.settings
	settings.CacheDir = strings.TrimSpace(m.textInput.Value())
	settings.CreatePlaylist = m.playlist
	settings.DuplicatePolicy = "last"
	if m.keepFirst {
		settings.DuplicatePolicy = "first"
	}
	return &settings
}

// initializeConversion validates the settings, scans the cache directory
// and creates the manager.
func (m Model) initializeConversion() tea.Cmd {
	settings := m.runSettings()
	ctx, events, logger := m.ctx, m.events, m.logger

	return func() tea.Msg {
		if err := settings.Normalize(); err != nil {
			return ScanDoneMsg{Err: err}
		}
		if err := settings.Validate(); err != nil {
			return ScanDoneMsg{Err: err}
		}
		if err := settings.EnsureOutputDir(); err != nil {
			return ScanDoneMsg{Err: err}
		}
		unlock, err := ioutils.LockDir(settings.OutputDir)
		if err != nil {
			return ScanDoneMsg{Err: err}
		}

		manager, err := convert.NewManager(settings, logger, func(event convert.ProgressEvent) {
			select {
			case events <- event:
			case <-ctx.Done():
			}
		})
		if err != nil {
			unlock()
			return ScanDoneMsg{Err: err}
		}

		if err := manager.Initialize(ctx); err != nil {
			unlock()
			return ScanDoneMsg{Err: err}
		}

		return ScanDoneMsg{
			Entries: len(manager.Entries()),
			Manager: manager,
			Unlock:  unlock,
		}
	}
}

// releaseLock drops the output directory lock taken by initializeConversion.
func (m *Model) releaseLock() {
	if m.unlock == nil {
		return
	}
	if err := m.unlock(); err != nil {
		m.logger.Warn("release output directory lock", "error", err)
	}
	m.unlock = nil
}

// startConversion runs the conversion in background.
func (m Model) startConversion() tea.Cmd {
	manager, ctx := m.manager, m.ctx

	return func() tea.Msg {
		if manager == nil {
			return ConvertDoneMsg{Err: fmt.Errorf("no manager")}
		}

		outcomes, err := manager.Run(ctx)
		processed, total, files, totalFiles := manager.GetProgress()

		return ConvertDoneMsg{
			Processed: processed,
			Total:     total,
			Files:     files,
			TotalF:    totalFiles,
			Outcomes:  outcomes,
			Err:       err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *slog.Logger) error {
	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
