package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/petems/voicenotes/internal/app"
	"github.com/petems/voicenotes/internal/config"
)

// Controller is the slice of the pipeline the console drives.
type Controller interface {
	Start() error
	Stop() (*app.Report, error)
}

// Console is the default operator surface: Enter toggles recording, 'q'
// quits. All status and error reporting happens between stages here.
type Console struct {
	pipe Controller
	cfg  *config.Config
	log  zerolog.Logger
	in   io.Reader
	out  io.Writer
}

func New(pipe Controller, cfg *config.Config, log zerolog.Logger, in io.Reader, out io.Writer) *Console {
	return &Console{
		pipe: pipe,
		cfg:  cfg,
		log:  log,
		in:   in,
		out:  out,
	}
}

// Run drives the interactive loop until the operator quits or stdin closes.
func (c *Console) Run() error {
	c.banner()

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprintln(c.out, "\n  Press Enter to start recording (or 'q' to quit):")
		fmt.Fprint(c.out, "  > ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if strings.TrimSpace(strings.ToLower(scanner.Text())) == "q" {
			fmt.Fprintln(c.out, "  Bye!")
			return nil
		}

		if err := c.pipe.Start(); err != nil {
			fmt.Fprintf(c.out, "  ERROR: %v\n", err)
			continue
		}

		fmt.Fprintln(c.out, "\n  Recording... press Enter to stop.")
		if !scanner.Scan() {
			// stdin closed mid-recording; seal and process what we have
			c.report(c.pipe.Stop())
			return scanner.Err()
		}

		fmt.Fprintln(c.out, "  Transcribing...")
		c.report(c.pipe.Stop())
	}
}

func (c *Console) banner() {
	fmt.Fprintln(c.out, strings.Repeat("=", 50))
	fmt.Fprintln(c.out, "  Voice Notes Recorder")
	fmt.Fprintln(c.out, strings.Repeat("=", 50))
	fmt.Fprintf(c.out, "  Whisper: %s\n", c.cfg.WhisperURL)
	fmt.Fprintf(c.out, "  Ollama:  %s\n", c.cfg.OllamaModel)
	fmt.Fprintf(c.out, "  Output:  %s\n", c.cfg.NotesDir)
}

func (c *Console) report(report *app.Report, err error) {
	if err != nil {
		fmt.Fprintf(c.out, "  ERROR: %v\n", err)
		return
	}

	if errors.Is(report.Err, app.ErrNoAudio) {
		fmt.Fprintln(c.out, "  No audio captured, try again.")
		return
	}

	if report.Failed() {
		fmt.Fprintf(c.out, "  ERROR (%s): %v\n", report.FailedStage, report.Err)
		if report.Transcript != "" {
			fmt.Fprintln(c.out, "  Recovered transcript:")
			fmt.Fprintf(c.out, "  %s\n", report.Transcript)
		}
		if report.Note != "" {
			fmt.Fprintln(c.out, "  Recovered notes:")
			fmt.Fprintf(c.out, "  %s\n", report.Note)
		}
		return
	}

	fmt.Fprintf(c.out, "\n  Transcript (%s, %.1fs):\n", report.Language, report.Spoken)
	fmt.Fprintf(c.out, "  %s\n", preview(report.Transcript, 200))
	fmt.Fprintf(c.out, "\n  Saved to: %s\n", report.Path)
}

func preview(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
