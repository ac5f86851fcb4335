package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/petems/voicenotes/internal/app"
	"github.com/petems/voicenotes/internal/config"
)

type scriptedPipeline struct {
	startErr error
	report   *app.Report
	stopErr  error
}

func (s *scriptedPipeline) Start() error {
	return s.startErr
}

func (s *scriptedPipeline) Stop() (*app.Report, error) {
	if s.stopErr != nil {
		return nil, s.stopErr
	}
	return s.report, nil
}

func run(t *testing.T, pipe Controller, input string) string {
	t.Helper()
	out := &bytes.Buffer{}
	cfg := &config.Config{
		WhisperURL:  "http://localhost:8090/transcribe",
		OllamaModel: "llama3.1:latest",
		NotesDir:    "/notes",
	}
	c := New(pipe, cfg, zerolog.Nop(), strings.NewReader(input), out)
	if err := c.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func TestQuitImmediately(t *testing.T) {
	out := run(t, &scriptedPipeline{}, "q\n")
	if !strings.Contains(out, "Voice Notes Recorder") {
		t.Error("banner not printed")
	}
	if !strings.Contains(out, "Bye!") {
		t.Error("quit message not printed")
	}
}

func TestSuccessfulCycleReportsPath(t *testing.T) {
	pipe := &scriptedPipeline{
		report: &app.Report{
			Transcript: "discuss budget",
			Language:   "en",
			Spoken:     2.5,
			Note:       "## Key Points",
			Path:       "/notes/2024-03-15-1430-meeting-notes.md",
		},
	}

	out := run(t, pipe, "\n\nq\n")

	if !strings.Contains(out, "Recording... press Enter to stop.") {
		t.Error("recording prompt not printed")
	}
	if !strings.Contains(out, "discuss budget") {
		t.Error("transcript preview not printed")
	}
	if !strings.Contains(out, "Saved to: /notes/2024-03-15-1430-meeting-notes.md") {
		t.Error("final path not reported")
	}
}

func TestFailureReportShowsRecoveredTranscript(t *testing.T) {
	pipe := &scriptedPipeline{
		report: &app.Report{
			Err:         errors.New("formatting request timed out"),
			FailedStage: app.StateFormatting,
			Transcript:  "discuss budget",
		},
	}

	out := run(t, pipe, "\n\nq\n")

	if !strings.Contains(out, "ERROR (formatting)") {
		t.Error("failed stage not named")
	}
	if !strings.Contains(out, "Recovered transcript:") || !strings.Contains(out, "discuss budget") {
		t.Error("preserved transcript not surfaced to the operator")
	}
}

func TestNoAudioShortCircuitMessage(t *testing.T) {
	pipe := &scriptedPipeline{report: &app.Report{Err: app.ErrNoAudio, FailedStage: app.StateRecording}}

	out := run(t, pipe, "\n\nq\n")

	if !strings.Contains(out, "No audio captured, try again.") {
		t.Error("no-audio message not printed")
	}
}

func TestStartFailureKeepsLoopAlive(t *testing.T) {
	pipe := &scriptedPipeline{startErr: errors.New("audio input device unavailable")}

	out := run(t, pipe, "\nq\n")

	if !strings.Contains(out, "ERROR: audio input device unavailable") {
		t.Error("device error not reported")
	}
	if !strings.Contains(out, "Bye!") {
		t.Error("loop should continue to the quit prompt after a start failure")
	}
}
