package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Yadino/vidextract/api"
	"github.com/Yadino/vidextract/model"
)

type chatModel struct {
	client *api.Client
	logger *zap.Logger
	gen    int

	filename string
	messages []model.Message
	input    textinput.Model
	vp       viewport.Model
	spin     spinner.Model
	busy     bool // single-flight: one query at a time
	width    int
	height   int
	ready    bool
}

type chatReplyMsg struct {
	gen          int
	allRequested bool
	resp         *api.ChatResponse
}

type chatFailedMsg struct {
	gen     int
	message string
}

func newChatModel(client *api.Client, logger *zap.Logger, filename string, gen int) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about the video or write a keyword to retrieve relevant highlights."
	ti.CharLimit = 500
	ti.Focus()

	return chatModel{
		client:   client,
		logger:   logger,
		gen:      gen,
		filename: filename,
		messages: []model.Message{{Role: model.RoleAssistant, Content: model.Greeting}},
		input:    ti,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (c chatModel) setSize(width, height int) chatModel {
	c.width = width
	c.height = height
	vpHeight := height - 6 // title, subtitle, blank, input, help, spacing
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !c.ready {
		c.vp = viewport.New(width, vpHeight)
		c.ready = true
	} else {
		c.vp.Width = width
		c.vp.Height = vpHeight
	}
	c.refreshViewport()
	return c
}

func (c chatModel) updateKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return c.submit()
	case "pgup":
		c.vp.LineUp(c.vp.Height)
		return c, nil
	case "pgdown":
		c.vp.LineDown(c.vp.Height)
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c chatModel) submit() (chatModel, tea.Cmd) {
	raw := c.input.Value()
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || c.busy {
		return c, nil
	}

	// optimistic append; a failed send keeps the message in the log
	c.messages = append(c.messages, model.Message{Role: model.RoleUser, Content: raw})

	normalized := strings.ToLower(trimmed)
	allRequested := normalized == "all"
	query := raw
	if allRequested {
		query = api.QueryAllEvents
	}

	c.input.Reset()
	c.busy = true
	c.refreshViewport()

	gen := c.gen
	client, filename := c.client, c.filename
	c.logger.Debug("sending query", zap.String("filename", filename), zap.Bool("all", allRequested))

	run := func() tea.Msg {
		resp, err := client.Query(context.Background(), filename, query)
		if err != nil {
			return chatFailedMsg{gen: gen, message: err.Error()}
		}
		return chatReplyMsg{gen: gen, allRequested: allRequested, resp: resp}
	}
	return c, tea.Batch(run, c.spin.Tick)
}

func (c chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		if msg.gen != c.gen {
			return c, nil
		}
		c.busy = false
		c.messages = append(c.messages, model.Message{
			Role:    model.RoleAssistant,
			Content: model.Intro(msg.allRequested, len(msg.resp.Events)),
			Events:  msg.resp.Events,
		})
		c.refreshViewport()
		return c, nil

	case chatFailedMsg:
		if msg.gen != c.gen {
			return c, nil
		}
		c.busy = false
		return c, showNotice(msg.message, noticeError)

	case spinner.TickMsg:
		if c.busy {
			var cmd tea.Cmd
			c.spin, cmd = c.spin.Update(msg)
			return c, cmd
		}
		return c, nil
	}
	return c, nil
}

func (c *chatModel) refreshViewport() {
	if !c.ready {
		return
	}
	c.vp.SetContent(strings.Join(c.renderMessages(), "\n"))
	c.vp.GotoBottom()
}

func (c chatModel) renderMessages() []string {
	maxWidth := c.width - 2
	if maxWidth < 40 {
		maxWidth = 40
	}

	var lines []string
	for _, msg := range c.messages {
		switch msg.Role {
		case model.RoleUser:
			lines = append(lines, userRoleStyle.Render(" YOU "))
		case model.RoleAssistant:
			lines = append(lines, assistantRoleStyle.Render(" VIDEXTRACT "))
		}

		for _, wl := range wrapText(msg.Content, maxWidth-2) {
			lines = append(lines, " "+wl)
		}
		for _, e := range msg.Events {
			lines = append(lines, "   "+eventStyle.Render(model.FormatEvent(e)))
		}
		lines = append(lines, "")
	}
	return lines
}

func (c chatModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CHAT ABOUT THE VIDEO"))
	b.WriteString("\n")
	b.WriteString(" " + subtitleStyle.Render("Video title: "+c.filename))
	b.WriteString("\n\n")
	b.WriteString(c.vp.View())
	b.WriteString("\n")

	if c.busy {
		b.WriteString(c.spin.View() + " thinking...")
	} else {
		b.WriteString(c.input.View())
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  Enter: send  PgUp/PgDn: scroll  Esc: new video  Ctrl+C: quit"))

	return b.String()
}

// wrapText splits text into lines that fit within maxWidth.
func wrapText(text string, maxWidth int) []string {
	var result []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			result = append(result, "")
			continue
		}
		runes := []rune(line)
		for len(runes) > maxWidth {
			result = append(result, string(runes[:maxWidth]))
			runes = runes[maxWidth:]
		}
		result = append(result, string(runes))
	}
	return result
}
