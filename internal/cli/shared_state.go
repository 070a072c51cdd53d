package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DripjobsJeremy/workorders/internal/session"
)

// SharedState is passed by pointer to every view: the session, terminal
// geometry, and the transient status line.
type SharedState struct {
	Session *session.Session

	Width  int
	Height int
}

// Dispatch executes a session command and turns its effect into tea
// commands: one goroutine per pending gateway call, plus the notice.
// Command errors (validation, wrong state) come back as error notices so
// no failure is silent.
func (s *SharedState) Dispatch(cmd session.Command) tea.Cmd {
	eff, err := s.Session.Execute(cmd)
	if err != nil {
		return showError(err.Error())
	}
	return effectCmd(eff)
}

// effectCmd fans an effect out to the bubbletea runtime.
func effectCmd(eff session.Effect) tea.Cmd {
	var cmds []tea.Cmd
	if eff.Notice != nil {
		n := *eff.Notice
		cmds = append(cmds, func() tea.Msg { return noticeMsg{notice: n} })
	}
	for _, p := range eff.Pending {
		p := p
		cmds = append(cmds, func() tea.Msg {
			return outcomeMsg{out: p.Do(context.Background())}
		})
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func showError(msg string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{notice: session.Notice{Kind: session.NoticeError, Message: msg}}
	}
}
