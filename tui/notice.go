package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Transient status-bar notices, the terminal stand-in for snackbars.

const noticeDuration = 3 * time.Second

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeError
)

type notice struct {
	text  string
	level noticeLevel
}

type showNoticeMsg struct {
	text  string
	level noticeLevel
}

// noticeExpiredMsg clears the notice it was scheduled for; the id keeps
// an old timer from wiping a newer notice.
type noticeExpiredMsg struct {
	id int
}

func showNotice(text string, level noticeLevel) tea.Cmd {
	return func() tea.Msg {
		return showNoticeMsg{text: text, level: level}
	}
}

func noticeTick(id int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func (n notice) render() string {
	if n.text == "" {
		return ""
	}
	switch n.level {
	case noticeSuccess:
		return noticeSuccessStyle.Render(n.text)
	case noticeError:
		return noticeErrorStyle.Render(n.text)
	}
	return noticeInfoStyle.Render(n.text)
}
