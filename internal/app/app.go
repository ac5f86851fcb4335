package app

import (
	"context"
	"errors"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/petems/voicenotes/internal/audio"
	"github.com/petems/voicenotes/internal/config"
	"github.com/petems/voicenotes/internal/notes"
	"github.com/petems/voicenotes/internal/ollama"
	"github.com/petems/voicenotes/internal/whisper"
)

// State is the pipeline's position in the capture-to-write cycle.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranscribing
	StateFormatting
	StateWriting
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	case StateFormatting:
		return "formatting"
	case StateWriting:
		return "writing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy means a session is already in flight; a second start is
	// rejected, not queued.
	ErrBusy = errors.New("a recording is already in progress")
	// ErrNotRecording means stop arrived without a prior start.
	ErrNotRecording = errors.New("no recording in progress")
	// ErrNoAudio means the operator stopped before any samples arrived;
	// the network stages are skipped.
	ErrNoAudio = errors.New("no audio captured")
)

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetIdle()
	SetRecording()
	SetProcessing()
	SetError()
}

// Report is the outcome of one session. On failure it carries the
// furthest-completed artifacts so the operator never loses work.
type Report struct {
	Err         error
	FailedStage State

	Transcript string
	Language   string
	Spoken     float64
	Note       string
	Path       string
}

// Failed reports whether the session ended in the error state.
func (r *Report) Failed() bool {
	return r.Err != nil
}

type Config struct {
	Audio         audio.Capture
	Transcriber   whisper.Transcriber
	Formatter     ollama.Formatter
	Writer        notes.Writer
	Config        *config.Config
	Logger        zerolog.Logger
	StatusUpdater StatusUpdater // Optional - can be nil
}

// Pipeline sequences capture, transcription, formatting and persistence.
// One session at a time; the stages run strictly in order.
type Pipeline struct {
	audio  audio.Capture
	stt    whisper.Transcriber
	fmtr   ollama.Formatter
	writer notes.Writer
	cfg    *config.Config
	log    zerolog.Logger
	status StatusUpdater

	mu    sync.Mutex
	state State
}

func New(cfg Config) *Pipeline {
	return &Pipeline{
		audio:  cfg.Audio,
		stt:    cfg.Transcriber,
		fmtr:   cfg.Formatter,
		writer: cfg.Writer,
		cfg:    cfg.Config,
		log:    cfg.Logger,
		status: cfg.StatusUpdater,
	}
}

// State returns the pipeline's current position.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start opens the microphone and begins a session. Only valid from Idle;
// while a session is in flight the request is rejected without touching
// the device again.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateIdle {
		return ErrBusy
	}

	if err := p.audio.Start(); err != nil {
		p.log.Error().Err(err).Msg("Failed to open audio device")
		p.setError()
		p.setStateLocked(StateIdle)
		return err
	}

	p.setStateLocked(StateRecording)
	if p.status != nil {
		p.status.SetRecording()
	}
	p.log.Info().Msg("Recording started")
	return nil
}

// Stop seals the recording and drives it through transcription, formatting
// and persistence, blocking until the session completes. The returned
// Report always holds whatever artifacts were computed before a failure.
func (p *Pipeline) Stop() (*Report, error) {
	p.mu.Lock()
	if p.state != StateRecording {
		p.mu.Unlock()
		return nil, ErrNotRecording
	}
	p.setStateLocked(StateTranscribing)
	p.mu.Unlock()

	if p.status != nil {
		p.status.SetProcessing()
	}

	report := &Report{}

	rec, err := p.audio.Stop()
	if err != nil {
		return p.fail(report, StateTranscribing, err), nil
	}

	if rec.Empty() {
		p.log.Warn().Msg("No audio captured, skipping transcription")
		report.Err = ErrNoAudio
		report.FailedStage = StateRecording
		p.setState(StateIdle)
		if p.status != nil {
			p.status.SetIdle()
		}
		return report, nil
	}

	p.log.Info().Dur("duration", rec.Duration()).Msg("Transcribing")

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.WhisperTimeout)
	result, err := p.stt.Transcribe(ctx, rec)
	cancel()
	if err != nil {
		return p.fail(report, StateTranscribing, err), nil
	}

	report.Transcript = result.Text
	report.Language = result.Language
	report.Spoken = result.Duration

	p.setState(StateFormatting)
	p.log.Info().Int("transcript_len", len(result.Text)).Msg("Formatting notes")

	ctx, cancel = context.WithTimeout(context.Background(), p.cfg.OllamaTimeout)
	note, err := p.fmtr.Format(ctx, result.Text)
	cancel()
	if err != nil {
		return p.fail(report, StateFormatting, err), nil
	}

	report.Note = note

	p.setState(StateWriting)

	path, err := p.writer.Write(notes.Note{
		Formatted:  note,
		Transcript: report.Transcript,
		Spoken:     report.Spoken,
		Model:      p.cfg.OllamaModel,
	})
	if err != nil {
		return p.fail(report, StateWriting, err), nil
	}

	report.Path = path
	p.log.Info().Str("path", path).Msg("Session complete")

	if p.cfg.CopyToClipboard {
		p.toClipboard(note)
	}

	p.setState(StateIdle)
	if p.status != nil {
		p.status.SetIdle()
	}
	return report, nil
}

// fail records the failure, preserves the furthest-completed artifact, and
// returns the controller to Idle so a new session can begin.
func (p *Pipeline) fail(report *Report, stage State, err error) *Report {
	report.Err = err
	report.FailedStage = stage

	p.setState(StateError)
	p.setError()

	ev := p.log.Error().Err(err).Stringer("stage", stage)
	if report.Transcript != "" {
		ev = ev.Str("transcript", report.Transcript)
	}
	ev.Msg("Pipeline stage failed")

	// Copy whatever text survived so the operator can recover it by hand
	if p.cfg.CopyToClipboard {
		if report.Note != "" {
			p.toClipboard(report.Note)
		} else if report.Transcript != "" {
			p.toClipboard(report.Transcript)
		}
	}

	p.setState(StateIdle)
	return report
}

func (p *Pipeline) toClipboard(text string) {
	if err := clipboard.WriteAll(text); err != nil {
		p.log.Warn().Err(err).Msg("Failed to copy to clipboard")
	}
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.setStateLocked(s)
	p.mu.Unlock()
}

func (p *Pipeline) setStateLocked(s State) {
	p.state = s
}

func (p *Pipeline) setError() {
	if p.status != nil {
		p.status.SetError()
	}
}
