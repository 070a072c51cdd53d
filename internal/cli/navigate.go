package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DripjobsJeremy/workorders/internal/session"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// outcomeMsg carries a completed gateway call back to the event loop,
// where the session reconciles it.
type outcomeMsg struct {
	out session.Outcome
}

// noticeMsg displays a transient confirmation or error in the status bar.
type noticeMsg struct {
	notice session.Notice
}

// formCompleteMsg is sent when a form finishes or is cancelled. The
// appModel pops the form view, then runs nextCmd.
type formCompleteMsg struct {
	nextCmd tea.Cmd
}

// quitRequestMsg asks the appModel to shut the program down after a
// clean final frame.
type quitRequestMsg struct{}

func requestQuit() tea.Msg { return quitRequestMsg{} }

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}
