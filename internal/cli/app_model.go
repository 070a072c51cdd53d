package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DripjobsJeremy/workorders/internal/cli/formatter"
	"github.com/DripjobsJeremy/workorders/internal/session"
)

// appModel is the root bubbletea Model for the TUI. It manages a view
// stack (editor at the bottom, forms and confirmations above it), runs
// the initial document load, and owns the status line.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	// Transient status line content from the last notice.
	status     string
	statusKind session.NoticeKind
}

func newAppModel(sess *session.Session) appModel {
	state := &SharedState{Session: sess}
	return appModel{
		state:     state,
		viewStack: []View{newEditorView(state)},
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	return effectCmd(m.state.Session.Load())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setActiveView(updated.(View))
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case outcomeMsg:
		// Every gateway completion is reconciled on this loop; any
		// follow-up work (a forced reload, the failure notice) fans
		// back out the same way it was dispatched.
		return m, effectCmd(m.state.Session.Resolve(msg.out))

	case noticeMsg:
		m.status = msg.notice.Message
		m.statusKind = msg.notice.Kind
		return m, nil

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case formCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case quitRequestMsg:
		m.quitting = true
		return m, tea.Quit
	}

	// Forward everything else (cursor blink, form ticks) to the top view.
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always reaches the editor's quit guard, except inside a
	// form where it cancels the form first.
	v := m.activeView()
	if v == nil {
		return m, nil
	}

	// Forms capture all input so field values can contain any rune.
	if v.ID() != ViewEditor {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	m.status = ""
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return m, cmd
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}
	v := m.activeView()
	if v == nil {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		v.View(),
		m.renderStatusBar(),
	}
	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("woedit")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	switch m.state.Session.State() {
	case session.Editing:
		header += "  " + formatter.StyleYellow.Render("[editing]")
	case session.Saving:
		header += "  " + formatter.StyleBlue.Render("[saving…]")
	}
	if m.state.Session.Dirty() {
		header += " " + formatter.StyleRed.Render("●")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var parts []string
	if m.status != "" {
		if m.statusKind == session.NoticeError {
			parts = append(parts, formatter.Err(m.status))
		} else {
			parts = append(parts, formatter.Ok(m.status))
		}
	}
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			parts = append(parts, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	return strings.Join(parts, "  ")
}
