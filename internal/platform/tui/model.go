package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cubefall/internal/config"
	"github.com/vovakirdan/cubefall/internal/core"
	"github.com/vovakirdan/cubefall/internal/engine"
	"github.com/vovakirdan/cubefall/internal/replay"
	"github.com/vovakirdan/cubefall/internal/storage"
)

// Options configures a game Model.
type Options struct {
	Config  config.CubefallConfig
	Runtime core.RuntimeConfig // initial screen size and seed; zero seed means time-based
	Store   *storage.Store     // nil disables replay saving
	Logger  *log.Logger
	Watcher *config.Watcher // optional live config reload
	// Preset is reapplied to every reloaded configuration.
	Preset config.DifficultyPreset
	// ScreenshotDir defaults to ~/.cubefall/screenshots.
	ScreenshotDir string
	// Player labels log lines, e.g. the SSH user.
	Player string
}

// configMsg carries a reloaded configuration from the watcher.
type configMsg struct {
	cfg config.CubefallConfig
}

// configErrMsg reports a config reload failure.
type configErrMsg struct {
	err error
}

// Model is the Bubble Tea model hosting one game.
type Model struct {
	cfg     config.CubefallConfig
	pending *config.CubefallConfig // applied at the next start

	game   *engine.Game
	timer  *teaTimer
	rec    *replay.Recorder
	played bool // a start was accepted on game

	keys    KeyMap
	help    help.Model
	layout  Layout
	screen  *core.Screen
	runtime core.RuntimeConfig

	store   *storage.Store
	logger  *log.Logger
	watcher *config.Watcher
	preset  config.DifficultyPreset
	shotDir string
	player  string

	status   string
	quitting bool
}

// screenshotRoot returns ~/.cubefall/screenshots, rooted in the temp
// directory when the home directory is unknown.
func screenshotRoot(logger *log.Logger) string {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("no home directory, saving screenshots under temp", "error", err)
		home = os.TempDir()
	}
	return filepath.Join(home, ".cubefall", "screenshots")
}

// NewModel creates a model in the Ready phase.
func NewModel(opts Options) (Model, error) {
	rt := opts.Runtime
	if rt.ScreenW == 0 || rt.ScreenH == 0 {
		def := core.DefaultConfig()
		rt.ScreenW, rt.ScreenH = def.ScreenW, def.ScreenH
	}
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	shotDir := opts.ScreenshotDir
	if shotDir == "" {
		shotDir = screenshotRoot(logger)
	}

	m := Model{
		cfg:     opts.Config,
		keys:    NewKeyMap(opts.Config.Keys),
		help:    help.New(),
		screen:  core.NewScreen(rt.ScreenW, rt.ScreenH),
		runtime: rt,
		store:   opts.Store,
		logger:  logger,
		watcher: opts.Watcher,
		preset:  opts.Preset,
		shotDir: shotDir,
		player:  opts.Player,
	}
	m.help.Width = rt.ScreenW
	if err := m.newGame(rt.Seed); err != nil {
		return Model{}, err
	}
	return m, nil
}

// newGame builds a game and its recorder from the current configuration.
func (m *Model) newGame(seed int64) error {
	timer := &teaTimer{}
	opts := m.cfg.Options(seed)
	opts.Timer = timer

	g, err := engine.New(opts)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	m.game = g
	m.timer = timer
	m.rec = replay.NewRecorder(opts)
	m.played = false
	m.layout = NewLayout(opts.Rows, opts.Cols, opts.Depth)
	return nil
}

// Init starts listening for config reloads.
func (m Model) Init() tea.Cmd {
	return waitForConfig(m.watcher)
}

// waitForConfig blocks on the watcher until the next reload or error.
func waitForConfig(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case cfg, ok := <-w.Changes:
			if !ok {
				return nil
			}
			return configMsg{cfg: cfg}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return configErrMsg{err: err}
		}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case dropTickMsg:
		return m.handleTick(msg)

	case configMsg:
		cfg := msg.cfg
		config.ApplyPreset(&cfg, m.preset)
		m.keys = NewKeyMap(cfg.Keys)
		m.pending = &cfg
		m.status = "config reloaded"
		m.logger.Info("config reloaded", "player", m.player)
		return m, waitForConfig(m.watcher)

	case configErrMsg:
		m.status = "config error, keeping previous"
		m.logger.Warn("config reload failed", "player", m.player, "err", msg.err)
		return m, waitForConfig(m.watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)

	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		if m.rec.Active() {
			m.finish(m.game.Snapshot(), replay.ReasonQuit)
		}
		m.quitting = true
		return m, tea.Quit
	case core.ActionScreenshot:
		m.saveScreenshot()
		return m, nil
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case core.ActionStart:
		if err := m.applyPending(); err != nil {
			m.status = "config not applied"
			m.logger.Error("apply config", "player", m.player, "err", err)
		}
	}

	cmd, ok := CommandFor(action)
	if !ok {
		return m, nil
	}
	_, tick := m.apply(cmd)
	return m, tick
}

// applyPending rebuilds the game with a reloaded configuration. Only done
// between games, so a running game keeps its rules.
func (m *Model) applyPending() error {
	if m.pending == nil {
		return nil
	}
	if p := m.game.Phase(); p == engine.PhasePlaying || p == engine.PhasePaused {
		return nil
	}

	cfg := *m.pending
	m.pending = nil

	seed := m.game.Seed()
	if m.played {
		seed++
	}
	prev := m.cfg
	m.cfg = cfg
	if err := m.newGame(seed); err != nil {
		m.cfg = prev
		return err
	}
	return nil
}

// handleTick applies a gravity tick if it belongs to the live timer.
func (m Model) handleTick(msg dropTickMsg) (tea.Model, tea.Cmd) {
	if !m.timer.current(msg.gen) {
		return m, nil
	}

	_, rearm := m.apply(engine.TickCmd())
	if rearm != nil {
		return m, rearm
	}
	if m.timer.current(msg.gen) {
		return m, m.timer.next()
	}
	return m, nil
}

// apply runs one command through the game and the recorder. The returned
// command is the first tick of a freshly armed timer, if any.
func (m *Model) apply(cmd engine.Command) (engine.StepResult, tea.Cmd) {
	var before engine.Snapshot
	ending := cmd.Kind == engine.CmdEnd && m.rec.Active()
	if ending {
		before = m.game.Snapshot()
	}

	res := m.game.Apply(cmd)
	if ending && res.Accepted {
		m.finish(before, replay.ReasonEnded)
	}
	m.rec.Record(cmd, res)

	if cmd.Kind == engine.CmdStart && res.Accepted {
		m.played = true
		m.status = ""
		m.logger.Debug("game started", "player", m.player, "seed", m.game.Seed())
	}
	if res.GameOver {
		s := m.game.Snapshot()
		m.logger.Info("game over", "player", m.player, "score", s.Score, "level", s.Level, "lines", s.Lines)
		m.finish(s, replay.ReasonGameOver)
	}
	return res, m.timer.take()
}

// finish closes the current recording and saves it.
func (m *Model) finish(s engine.Snapshot, reason string) {
	rep, ok := m.rec.Finish(s, reason)
	if !ok || m.store == nil || !m.cfg.Replays.Enabled {
		return
	}

	id, err := m.store.SaveReplay(rep)
	if err != nil {
		m.logger.Error("save replay", "player", m.player, "err", err)
		m.status = "replay not saved"
		return
	}
	m.status = fmt.Sprintf("replay #%d saved", id)
}

// saveScreenshot saves the current screen to a text file.
func (m *Model) saveScreenshot() {
	m.render()

	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(m.shotDir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.shotDir, fmt.Sprintf("cubefall_%s.txt", timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot", "err", err)
		m.status = "screenshot failed"
		return
	}
	m.status = "saved " + filepath.Base(path)
}

// helpHeight is the number of rows the help view takes.
func (m Model) helpHeight() int {
	if m.help.ShowAll {
		rows := 0
		for _, col := range m.keys.FullHelp() {
			rows = max(rows, len(col))
		}
		return rows
	}
	return 1
}

// render draws the game into the screen buffer.
func (m *Model) render() {
	h := m.runtime.ScreenH - m.helpHeight()
	if !m.layout.Fits(m.runtime.ScreenW, h) {
		m.screen.Resize(m.runtime.ScreenW, max(h, 2))
		m.screen.Clear()
		DrawTooSmall(m.screen, m.layout)
		return
	}
	m.screen.Resize(m.runtime.ScreenW, m.layout.H)
	m.screen.Clear()
	Draw(m.screen, m.layout, m.game.Snapshot(), m.status)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.render()
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Snapshot returns the state of the hosted game.
func (m Model) Snapshot() engine.Snapshot {
	return m.game.Snapshot()
}

// Run starts the Bubble Tea program with a new model.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
