package tray

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/petems/voicenotes/internal/app"
	"github.com/petems/voicenotes/internal/config"
)

// UI is the optional system-tray operator surface. It drives the same
// pipeline controller as the console: one menu item toggles start/stop,
// and the tray glyph mirrors the pipeline state.
type UI struct {
	pipe *app.Pipeline
	cfg  *config.Config
	log  zerolog.Logger

	mStartStop *systray.MenuItem
}

func New(cfg *config.Config, log zerolog.Logger) *UI {
	return &UI{
		cfg: cfg,
		log: log,
	}
}

// SetPipeline sets the pipeline reference (for circular dependency resolution:
// the pipeline needs the UI as its StatusUpdater).
func (u *UI) SetPipeline(pipe *app.Pipeline) {
	u.pipe = pipe
}

// Status update methods for the pipeline to call

func (u *UI) SetIdle() {
	u.updateStatus("idle")
}

func (u *UI) SetRecording() {
	u.updateStatus("recording")
}

func (u *UI) SetProcessing() {
	u.updateStatus("processing")
}

func (u *UI) SetError() {
	u.updateStatus("error")
}

// Run starts the tray event loop. MUST run on the main thread.
func (u *UI) Run() error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.updateStatus("idle")
	systray.SetTooltip("Voice notes recorder")

	u.mStartStop = systray.AddMenuItem("Start Recording", "Capture a voice note")
	systray.AddSeparator()
	mNotes := systray.AddMenuItem("Open Notes Folder", "Browse saved notes")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	go u.handleEvents(mNotes, mQuit)
}

func (u *UI) handleEvents(mNotes, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mStartStop.ClickedCh:
			u.toggleRecording()
		case <-mNotes.ClickedCh:
			u.openNotes()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) toggleRecording() {
	if u.pipe.State() == app.StateRecording {
		u.mStartStop.SetTitle("Start Recording")
		u.mStartStop.Disable()
		// Stop blocks through transcription and formatting; keep the
		// menu responsive while the pipeline runs.
		go func() {
			report, err := u.pipe.Stop()
			u.mStartStop.Enable()
			if err != nil {
				u.log.Error().Err(err).Msg("Stop rejected")
				return
			}
			if report.Failed() {
				ev := u.log.Error().Err(report.Err).Stringer("stage", report.FailedStage)
				if report.Transcript != "" {
					ev = ev.Str("transcript", report.Transcript)
				}
				ev.Msg("Session failed")
				return
			}
			u.log.Info().Str("path", report.Path).Msg("Note saved")
		}()
		return
	}

	if err := u.pipe.Start(); err != nil {
		u.log.Error().Err(err).Msg("Start rejected")
		return
	}
	u.mStartStop.SetTitle("Stop Recording")
}

func (u *UI) openNotes() {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u.cfg.NotesDir)
	case "windows":
		cmd = exec.Command("explorer", u.cfg.NotesDir)
	default:
		cmd = exec.Command("xdg-open", u.cfg.NotesDir)
	}
	if err := cmd.Start(); err != nil {
		u.log.Error().Err(err).Msg("Failed to open notes folder")
	}
}

func (u *UI) onExit() {
	// Cleanup
}

// updateStatus sets the tray title with microphone emoji and status indicator
func (u *UI) updateStatus(status string) {
	systray.SetTitle(fmt.Sprintf("🎤 %s", emojiForStatus(status)))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "recording":
		return "🔴" // Red - recording
	case "processing":
		return "🟡" // Yellow - transcribing/formatting
	case "error":
		return "⚪️" // White - error
	default:
		return "🟢" // Green - ready/idle
	}
}
