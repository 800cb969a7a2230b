package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Yadino/vidextract/api"
	"github.com/Yadino/vidextract/model"
)

const (
	// how long the success panel stays up before the chat handoff
	successDisplayDelay = 2 * time.Second
	handoffDelay        = 200 * time.Millisecond
)

var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
}

type uploadModel struct {
	client *api.Client
	logger *zap.Logger
	gen    int // discards async results that outlive a reset

	stage             model.ProcessingStage
	pathInput         textinput.Model
	bar               progress.Model
	spin              spinner.Model
	percent           float64
	errText           string
	completedFilename string
	showSuccess       bool
	progressCh        chan progressMsg
}

// progress updates flow from the transfer goroutine into the tea loop
type progressMsg struct {
	gen         int
	sent, total int64
}

type uploadDoneMsg struct {
	gen    int
	result *api.UploadResult
}

type uploadFailedMsg struct {
	gen     int
	message string
}

// successShownMsg fires after the success panel has been displayed.
type successShownMsg struct {
	gen int
}

// handoffMsg fires after the short transition pause that follows it.
type handoffMsg struct {
	gen      int
	filename string
}

// analysisCompleteMsg is the upload screen's completion callback: the
// parent model flips to the chat view when it arrives.
type analysisCompleteMsg struct {
	Filename string
}

func newUploadModel(client *api.Client, logger *zap.Logger, gen int) uploadModel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/video.mp4"
	ti.CharLimit = 500
	ti.Focus()

	return uploadModel{
		client:    client,
		logger:    logger,
		gen:       gen,
		stage:     model.StageIdle,
		pathInput: ti,
		bar:       progress.New(progress.WithDefaultGradient()),
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (u uploadModel) updateKey(msg tea.KeyMsg) (uploadModel, tea.Cmd) {
	// input is accepted only while idle or showing a previous error;
	// this is what prevents concurrent uploads
	if u.stage != model.StageIdle && u.stage != model.StageError {
		return u, nil
	}

	if msg.String() == "enter" {
		return u.submitPath(strings.TrimSpace(u.pathInput.Value()))
	}

	var cmd tea.Cmd
	u.pathInput, cmd = u.pathInput.Update(msg)
	return u, cmd
}

func (u uploadModel) submitPath(path string) (uploadModel, tea.Cmd) {
	// every attempt starts from a clean slate, clearing any prior error
	u.stage = model.StageIdle
	u.errText = ""
	u.percent = 0
	u.showSuccess = false
	u.completedFilename = ""

	if path == "" {
		return u, nil
	}
	if !isVideoPath(path) {
		return u, showNotice("Please upload a video file", noticeError)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return u, showNotice(fmt.Sprintf("Cannot read file: %s", path), noticeError)
	}

	u.stage = model.StageUploading
	u.logger.Info("starting upload", zap.String("path", path))

	ch := make(chan progressMsg, 16)
	u.progressCh = ch
	gen := u.gen
	client := u.client

	run := func() tea.Msg {
		res, err := client.Upload(context.Background(), path, func(sent, total int64) {
			select {
			case ch <- progressMsg{gen: gen, sent: sent, total: total}:
			default: // drop rather than stall the transfer
			}
		})
		close(ch)
		if err != nil {
			return uploadFailedMsg{gen: gen, message: err.Error()}
		}
		return uploadDoneMsg{gen: gen, result: res}
	}
	return u, tea.Batch(run, u.waitForProgress())
}

// waitForProgress re-arms itself after every delivery; a closed channel
// ends the chain.
func (u uploadModel) waitForProgress() tea.Cmd {
	ch := u.progressCh
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return p
	}
}

func (u uploadModel) update(msg tea.Msg) (uploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if msg.gen != u.gen {
			return u, nil
		}
		cmds := []tea.Cmd{u.waitForProgress()}
		if u.stage == model.StageUploading && msg.total > 0 {
			u.percent = float64(msg.sent) / float64(msg.total)
			if u.percent >= 1 {
				// transfer done; the backend is still analyzing
				u.stage = model.StageAnalyzing
				cmds = append(cmds, u.spin.Tick)
			}
		}
		return u, tea.Batch(cmds...)

	case spinner.TickMsg:
		if u.stage == model.StageAnalyzing || u.stage == model.StageSaving {
			var cmd tea.Cmd
			u.spin, cmd = u.spin.Update(msg)
			return u, cmd
		}
		return u, nil

	case uploadFailedMsg:
		if msg.gen != u.gen {
			return u, nil
		}
		u.stage = model.StageError
		u.errText = msg.message
		u.pathInput.Focus()
		return u, showNotice(msg.message, noticeError)

	case uploadDoneMsg:
		if msg.gen != u.gen {
			return u, nil
		}
		if msg.result == nil || msg.result.Filename == "" {
			// the call succeeded but the contract did not
			u.stage = model.StageError
			u.errText = "Analysis complete, but filename not received."
			u.pathInput.Focus()
			return u, showNotice("Video analysis complete, but missing filename!", noticeError)
		}
		u.stage = model.StageComplete
		u.completedFilename = msg.result.Filename
		u.showSuccess = true
		gen := u.gen
		return u, tea.Batch(
			showNotice("Video analysis complete!", noticeSuccess),
			tea.Tick(successDisplayDelay, func(time.Time) tea.Msg {
				return successShownMsg{gen: gen}
			}),
		)

	case successShownMsg:
		if msg.gen != u.gen || u.stage != model.StageComplete {
			return u, nil
		}
		u.showSuccess = false
		gen, filename := u.gen, u.completedFilename
		return u, tea.Tick(handoffDelay, func(time.Time) tea.Msg {
			return handoffMsg{gen: gen, filename: filename}
		})

	case handoffMsg:
		if msg.gen != u.gen || u.stage != model.StageComplete {
			return u, nil
		}
		u.stage = model.StageIdle
		u.completedFilename = ""
		u.pathInput.Reset()
		filename := msg.filename
		return u, func() tea.Msg {
			return analysisCompleteMsg{Filename: filename}
		}
	}
	return u, nil
}

func (u uploadModel) view(width, height int) string {
	var content string

	if u.showSuccess {
		content = successBoxStyle.Render(
			successTextStyle.Render("✔ Success!") + "\n\n" +
				dimStyle.Render("Opening chat..."))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}

	switch u.stage {
	case model.StageUploading:
		content = boxStyle.Render(fmt.Sprintf("Uploading: %d%%\n\n%s",
			int(u.percent*100), u.bar.ViewAs(u.percent)))

	case model.StageAnalyzing:
		content = boxStyle.Render(u.spin.View() + " Analyzing video...")

	case model.StageSaving:
		content = boxStyle.Render(u.spin.View() + " Saving events...")

	case model.StageComplete:
		content = successBoxStyle.Render(successTextStyle.Render("✔ Success!"))

	case model.StageError:
		content = errorBoxStyle.Render(
			errorTextStyle.Render("Error: "+u.errText) + "\n\n" +
				u.promptView())

	case model.StageIdle:
		content = boxStyle.Render(u.promptView())
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (u uploadModel) promptView() string {
	return "Enter the path of a video file to analyze:\n\n" +
		u.pathInput.View() + "\n\n" +
		dimStyle.Render("Supported formats: MP4, MOV, AVI")
}

func isVideoPath(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}
