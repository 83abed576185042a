// Package app contains the root application model: the dual-pane layout,
// the context-menu and open-with overlays, and the wiring between panel
// events and the shell-integration services.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/keys"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/pubsub"
	"github.com/kmatyas/twopane/internal/shell"
	"github.com/kmatyas/twopane/internal/shell/launcher"
	"github.com/kmatyas/twopane/internal/ui/contextmenu"
	"github.com/kmatyas/twopane/internal/ui/logview"
	"github.com/kmatyas/twopane/internal/ui/openwith"
	"github.com/kmatyas/twopane/internal/ui/panel"
	"github.com/kmatyas/twopane/internal/ui/styles"
	"github.com/kmatyas/twopane/internal/watcher"
)

// ExtensionSource answers per-file context-menu queries.
type ExtensionSource interface {
	ExtensionsForFile(ctx context.Context, path string) ([]shell.ExtensionEntry, error)
	RefreshCache(ctx context.Context) error
}

// ApplicationIndex supplies the discovered-application records.
type ApplicationIndex interface {
	Applications(ctx context.Context) (map[string]shell.ApplicationInfo, error)
	Refresh(ctx context.Context) error
}

// MenuBuilder assembles the final ordered menu.
type MenuBuilder interface {
	Build(path string, isDir bool, entries []shell.ExtensionEntry) ([]shell.MenuAction, error)
}

// TypeResolver looks up a path's registered file-type description. Optional;
// the status bar shows size only when absent.
type TypeResolver interface {
	FileType(ctx context.Context, path string) (shell.FileType, error)
}

// Services bundles the collaborators handed to the root model by the
// composition root.
type Services struct {
	Extensions ExtensionSource
	Index      ApplicationIndex
	Builder    MenuBuilder
	Launcher   launcher.Launcher
	Types      TypeResolver

	// Broker carries the pipeline's cache-invalidation events. Optional.
	Broker *pubsub.Broker[string]

	Config     *config.Config
	ConfigPath string
}

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayMenu
	overlayOpenWith
	overlayLog
)

// Messages produced by the model's own commands.
type (
	menuReadyMsg struct {
		target  string
		actions []shell.MenuAction
	}
	appsReadyMsg struct {
		target string
		apps   map[string]shell.ApplicationInfo
	}
	refreshDoneMsg struct{ err error }
	propsReadyMsg  struct{ status string }
	invalidatedMsg struct{}
	logLineMsg     struct{ entry string }
	launchedMsg    struct {
		action string
		err    error
	}
)

// Model is the root application state.
type Model struct {
	services Services
	keys     keys.KeyMap
	help     help.Model

	left        panel.Model
	right       panel.Model
	activeRight bool

	overlay overlayKind
	menu    contextmenu.Model
	picker  openwith.Model
	logs    logview.Model

	status string
	width  int
	height int

	watcherHandle *watcher.Watcher
	invalidations <-chan struct{}

	events       <-chan pubsub.Event[string]
	logEntries   <-chan log.LogEvent
	eventsCtx    context.Context
	cancelEvents context.CancelFunc
}

// New creates the root model. The watcher is optional; when present its
// signals flush discovery caches while the application runs. Pipeline
// invalidation events and log entries arrive over pubsub subscriptions
// held for the model's lifetime.
func New(services Services, w *watcher.Watcher, invalidations <-chan struct{}) Model {
	cfg := services.Config
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		services:      services,
		keys:          keys.DefaultKeyMap(),
		help:          help.New(),
		logs:          logview.New(),
		left:          panel.New(cfg.LeftDir, cfg.UI.ShowHidden).SetFocused(true),
		right:         panel.New(cfg.RightDir, cfg.UI.ShowHidden),
		watcherHandle: w,
		invalidations: invalidations,
		eventsCtx:     ctx,
		cancelEvents:  cancel,
	}
	if services.Broker != nil {
		m.events = services.Broker.Subscribe(ctx)
	}
	m.logEntries = log.Subscribe(ctx)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg { return panelsLoadedMsg{} },
	}
	if m.invalidations != nil {
		cmds = append(cmds, m.listenForInvalidation())
	}
	if m.events != nil {
		cmds = append(cmds, m.listenForBrokerEvents())
	}
	if m.logEntries != nil {
		cmds = append(cmds, m.listenForLogEntries())
	}
	return tea.Batch(cmds...)
}

type panelsLoadedMsg struct{}

func (m Model) listenForInvalidation() tea.Cmd {
	ch := m.invalidations
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return invalidatedMsg{}
	}
}

func (m Model) listenForBrokerEvents() tea.Cmd {
	return pubsub.ListenCmd(m.eventsCtx, m.events)
}

// listenForLogEntries wraps the log subscription in its own message type so
// log lines and broker events stay distinguishable in Update.
func (m Model) listenForLogEntries() tea.Cmd {
	inner := pubsub.ListenCmd(m.eventsCtx, m.logEntries)
	return func() tea.Msg {
		if event, ok := inner().(log.LogEvent); ok {
			return logLineMsg{entry: event.Payload}
		}
		return nil
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.layout(), nil

	case panelsLoadedMsg:
		m.left = m.left.Load()
		m.right = m.right.Load()
		return m, nil

	case menuReadyMsg:
		m.menu = contextmenu.New(msg.target, msg.actions).SetSize(m.width, m.height)
		if m.menu.Empty() {
			m.status = "no menu actions for " + msg.target
			return m, nil
		}
		m.overlay = overlayMenu
		return m, nil

	case appsReadyMsg:
		m.picker = openwith.New(msg.target, msg.apps).SetSize(m.width, m.height)
		if m.picker.Empty() {
			m.status = "no applications discovered"
			return m, nil
		}
		m.overlay = overlayOpenWith
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "caches refreshed"
		m.left = m.left.Load()
		m.right = m.right.Load()
		return m, nil

	case propsReadyMsg:
		m.status = msg.status
		return m, nil

	case invalidatedMsg:
		log.Info(log.CatWatcher, "registration change detected, refreshing caches")
		cmds := []tea.Cmd{m.refreshCmd()}
		if m.invalidations != nil {
			cmds = append(cmds, m.listenForInvalidation())
		}
		return m, tea.Batch(cmds...)

	case pubsub.Event[string]:
		// Pipeline cache events are informational only; refreshes are driven
		// by the watcher and the refresh key, never by these events.
		if msg.Type == pubsub.InvalidatedEvent {
			m.status = msg.Payload + " caches invalidated"
		}
		return m, m.listenForBrokerEvents()

	case logLineMsg:
		m.logs = m.logs.Append(msg.entry)
		return m, m.listenForLogEntries()

	case launchedMsg:
		if msg.err != nil {
			m.status = "launch failed: " + msg.err.Error()
		} else {
			m.status = "launched " + msg.action
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayMenu:
		return m.handleMenuKey(msg)
	case overlayOpenWith:
		return m.handleOpenWithKey(msg)
	case overlayLog:
		return m.handleLogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.LogView):
		m.overlay = overlayLog
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.layout(), nil

	case key.Matches(msg, m.keys.SwitchPane):
		return m.focusPane(!m.activeRight), nil
	case key.Matches(msg, m.keys.LeftPane):
		return m.focusPane(false), nil
	case key.Matches(msg, m.keys.RightPane):
		return m.focusPane(true), nil

	case key.Matches(msg, m.keys.Up):
		return m.withActive(panel.Model.MoveUp), nil
	case key.Matches(msg, m.keys.Down):
		return m.withActive(panel.Model.MoveDown), nil
	case key.Matches(msg, m.keys.PageUp):
		return m.withActive(panel.Model.PageUp), nil
	case key.Matches(msg, m.keys.PageDown):
		return m.withActive(panel.Model.PageDown), nil
	case key.Matches(msg, m.keys.Top):
		return m.withActive(panel.Model.MoveTop), nil
	case key.Matches(msg, m.keys.Bottom):
		return m.withActive(panel.Model.MoveBottom), nil

	case key.Matches(msg, m.keys.Parent):
		m = m.withActive(panel.Model.Ascend)
		return m, m.savePanelsCmd()

	case key.Matches(msg, m.keys.Enter):
		return m.openSelection()

	case key.Matches(msg, m.keys.ContextMenu):
		target, isDir, ok := m.currentTarget()
		if !ok {
			return m, nil
		}
		return m, m.buildMenuCmd(target, isDir)

	case key.Matches(msg, m.keys.OpenWith):
		target, isDir, ok := m.currentTarget()
		if !ok || isDir {
			return m, nil
		}
		return m, m.loadAppsCmd(target)

	case key.Matches(msg, m.keys.Refresh):
		m.status = "refreshing..."
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.ToggleHidden):
		show := !m.activePanel().ShowHidden()
		m.left = m.left.SetShowHidden(show).Load()
		m.right = m.right.SetShowHidden(show).Load()
		return m, m.saveShowHiddenCmd(show)
	}

	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.overlay = overlayNone
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		action, ok := m.menu.Selected()
		if !ok {
			return m, nil
		}
		m.overlay = overlayNone
		return m.executeAction(action)
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape),
		key.Matches(msg, m.keys.Quit),
		key.Matches(msg, m.keys.LogView):
		m.overlay = overlayNone
	}
	return m, nil
}

func (m Model) handleOpenWithKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.overlay = overlayNone
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		app, ok := m.picker.Selected()
		if !ok {
			return m, nil
		}
		m.overlay = overlayNone
		target, _, ok := m.currentTarget()
		if !ok {
			return m, nil
		}
		return m, m.launchApplicationCmd(app, target)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// executeAction dispatches one chosen menu action. The built-in defaults
// map to panel navigation and the platform opener; registered verbs run
// their own command string.
func (m Model) executeAction(action shell.MenuAction) (tea.Model, tea.Cmd) {
	target, isDir, ok := m.currentTarget()
	if !ok {
		return m, nil
	}

	switch action.Action {
	case "open":
		if isDir {
			m = m.withActive(panel.Model.Descend)
			return m, m.savePanelsCmd()
		}
		return m, m.openDefaultCmd(target)

	case "open_with":
		return m, m.loadAppsCmd(target)

	case "properties":
		item, _ := m.activePanel().Selected()
		return m, m.propertiesCmd(item)
	}

	return m, m.runCommandCmd(action, target)
}

// openSelection descends into directories and opens files with the
// platform default handler.
func (m Model) openSelection() (tea.Model, tea.Cmd) {
	target, isDir, ok := m.currentTarget()
	if !ok {
		return m, nil
	}
	if isDir {
		m = m.withActive(panel.Model.Descend)
		return m, m.savePanelsCmd()
	}
	return m, m.openDefaultCmd(target)
}

func (m Model) currentTarget() (string, bool, bool) {
	item, ok := m.activePanel().Selected()
	if !ok {
		return "", false, false
	}
	return item.Path, item.IsDir, true
}

func (m Model) activePanel() panel.Model {
	if m.activeRight {
		return m.right
	}
	return m.left
}

func (m Model) withActive(fn func(panel.Model) panel.Model) Model {
	if m.activeRight {
		m.right = fn(m.right)
	} else {
		m.left = fn(m.left)
	}
	return m
}

func (m Model) focusPane(right bool) Model {
	m.activeRight = right
	m.left = m.left.SetFocused(!right)
	m.right = m.right.SetFocused(right)
	return m
}

// Commands

func (m Model) buildMenuCmd(target string, isDir bool) tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		ctx := context.Background()
		entries, err := svc.Extensions.ExtensionsForFile(ctx, target)
		if err != nil {
			// Discovery failure degrades to the default actions.
			log.Warn(log.CatMenu, "extension lookup failed", "path", target, "error", err)
			entries = nil
		}
		actions, err := svc.Builder.Build(target, isDir, entries)
		if err != nil {
			return launchedMsg{action: "menu", err: err}
		}
		return menuReadyMsg{target: target, actions: actions}
	}
}

func (m Model) loadAppsCmd(target string) tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		apps, err := svc.Index.Applications(context.Background())
		if err != nil {
			log.Warn(log.CatDiscovery, "application listing failed", "error", err)
			apps = nil
		}
		return appsReadyMsg{target: target, apps: apps}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		ctx := context.Background()
		if err := svc.Extensions.RefreshCache(ctx); err != nil {
			return refreshDoneMsg{err: err}
		}
		return refreshDoneMsg{err: svc.Index.Refresh(ctx)}
	}
}

func (m Model) openDefaultCmd(target string) tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		return launchedMsg{action: "open", err: svc.Launcher.OpenDefault(context.Background(), target)}
	}
}

func (m Model) runCommandCmd(action shell.MenuAction, target string) tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		return launchedMsg{
			action: action.Text,
			err:    svc.Launcher.RunCommand(context.Background(), action.Command, target),
		}
	}
}

func (m Model) launchApplicationCmd(app shell.ApplicationInfo, target string) tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		return launchedMsg{
			action: app.Name,
			err:    svc.Launcher.RunApplication(context.Background(), app.Executable, target),
		}
	}
}

// propertiesCmd builds the status line for the selected item: path, size,
// and the registered file-type description when a resolver is wired.
func (m Model) propertiesCmd(item panel.Item) tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		status := fmt.Sprintf("%s  %s", item.Path, styles.FormatSize(item.Size))
		if svc.Types != nil && !item.IsDir {
			if ft, err := svc.Types.FileType(context.Background(), item.Path); err == nil && ft.Description != "" {
				status += "  " + ft.Description
			}
		}
		return propsReadyMsg{status: status}
	}
}

func (m Model) savePanelsCmd() tea.Cmd {
	svc := m.services
	left, right := m.left.Path(), m.right.Path()
	return func() tea.Msg {
		if svc.ConfigPath == "" {
			return nil
		}
		if err := config.SavePanels(svc.ConfigPath, left, right); err != nil {
			log.Warn(log.CatConfig, "saving panel paths failed", "error", err)
		}
		return nil
	}
}

func (m Model) saveShowHiddenCmd(show bool) tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		if svc.ConfigPath == "" {
			return nil
		}
		if err := config.SaveShowHidden(svc.ConfigPath, show); err != nil {
			log.Warn(log.CatConfig, "saving hidden-file toggle failed", "error", err)
		}
		return nil
	}
}

// Layout and rendering

func (m Model) layout() Model {
	paneWidth := m.width / 2
	paneHeight := m.height - 2
	m.left = m.left.SetSize(paneWidth, paneHeight)
	m.right = m.right.SetSize(m.width-paneWidth, paneHeight)
	m.help.Width = m.width
	m.menu = m.menu.SetSize(m.width, m.height)
	m.picker = m.picker.SetSize(m.width, m.height)
	m.logs = m.logs.SetSize(m.width, m.height)
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.left.View(), m.right.View())

	statusLine := styles.StatusBarStyle.Render(m.statusText())
	helpLine := styles.HelpStyle.Render(m.help.View(m.keys))
	view := panes + "\n" + statusLine + "\n" + helpLine

	switch m.overlay {
	case overlayMenu:
		return m.menu.Overlay(view)
	case overlayOpenWith:
		return m.picker.Overlay(view)
	case overlayLog:
		return m.logs.Overlay(view)
	}
	return view
}

func (m Model) statusText() string {
	if m.status != "" {
		return m.status
	}
	if item, ok := m.activePanel().Selected(); ok {
		return fmt.Sprintf("%s  %s", item.Name, styles.FormatSize(item.Size))
	}
	return m.activePanel().Path()
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.cancelEvents != nil {
		m.cancelEvents()
	}
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
