package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Yadino/vidextract/api"
)

type view int

const (
	viewUpload view = iota
	viewChat
)

// Model is the top-level program state: which screen is active and the
// filename handed from upload to chat. Nothing else crosses screens.
type Model struct {
	client *api.Client
	logger *zap.Logger

	view     view
	filename string
	upload   uploadModel
	chat     chatModel

	notice   notice
	noticeID int

	width    int
	height   int
	seq      int // generation counter handed to screen instances
	quitting bool
}

func NewModel(client *api.Client, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Model{
		client: client,
		logger: logger,
		width:  100,
		height: 30,
	}
	m.upload = newUploadModel(client, logger, m.nextGen())
	return m
}

func (m *Model) nextGen() int {
	m.seq++
	return m.seq
}

// SetInitialPath pre-fills the upload prompt, for `vidextract <file>`.
func (m *Model) SetInitialPath(path string) {
	m.upload.pathInput.SetValue(path)
	m.upload.pathInput.CursorEnd()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == viewChat {
			m.chat = m.chat.setSize(msg.Width, m.bodyHeight())
		}
		return m, nil

	case showNoticeMsg:
		m.notice = notice{text: msg.text, level: msg.level}
		m.noticeID++
		id := m.noticeID
		return m, noticeTick(id)

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = notice{}
		}
		return m, nil

	case analysisCompleteMsg:
		// upload -> chat handoff; the only cross-screen write
		m.filename = msg.Filename
		m.logger.Info("switching to chat", zap.String("filename", msg.Filename))
		m.chat = newChatModel(m.client, m.logger, msg.Filename, m.nextGen())
		m.chat = m.chat.setSize(m.width, m.bodyHeight())
		m.view = viewChat
		return m, textinput.Blink

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.view == viewChat {
				return m.reset()
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	// everything else belongs to the active screen
	var cmd tea.Cmd
	switch m.view {
	case viewUpload:
		if key, ok := msg.(tea.KeyMsg); ok {
			m.upload, cmd = m.upload.updateKey(key)
		} else {
			m.upload, cmd = m.upload.update(msg)
		}
	case viewChat:
		if key, ok := msg.(tea.KeyMsg); ok {
			m.chat, cmd = m.chat.updateKey(key)
		} else {
			m.chat, cmd = m.chat.update(msg)
		}
	}
	return m, cmd
}

// reset rebuilds both screens in place, the terminal equivalent of the
// web client's full page reload.
func (m Model) reset() (tea.Model, tea.Cmd) {
	m.filename = ""
	m.view = viewUpload
	m.upload = newUploadModel(m.client, m.logger, m.nextGen())
	m.chat = chatModel{}
	m.notice = notice{}
	return m, textinput.Blink
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("VidExtract"))
	b.WriteString(dimStyle.Render("  video analysis"))
	b.WriteString("\n")

	switch m.view {
	case viewUpload:
		b.WriteString(m.upload.view(m.width, m.bodyHeight()))
	case viewChat:
		b.WriteString(m.chat.view())
	}
	b.WriteString("\n")

	if m.notice.text != "" {
		b.WriteString(m.notice.render())
	} else {
		b.WriteString(helpStyle.Render("  Ctrl+C: quit"))
	}

	return b.String()
}

// bodyHeight is the space left for the active screen after the title
// and notice bars.
func (m Model) bodyHeight() int {
	h := m.height - 3
	if h < 5 {
		h = 5
	}
	return h
}
