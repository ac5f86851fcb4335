package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petems/voicenotes/internal/config"
)

// timestampLayout names files by local wall clock, minute resolution.
const timestampLayout = "2006-01-02-1504"

// headerLayout is the human-readable timestamp in the document header.
const headerLayout = "2006-01-02 15:04"

// FileWriter writes notes into a flat directory, one timestamped markdown
// file per note.
type FileWriter struct {
	dir               string
	includeTranscript bool
	log               zerolog.Logger

	// now is swappable so tests can pin the clock
	now func() time.Time
}

// NewWriter creates a writer for the configured notes directory.
func NewWriter(cfg *config.Config, log zerolog.Logger) *FileWriter {
	return &FileWriter{
		dir:               cfg.NotesDir,
		includeTranscript: cfg.IncludeTranscript,
		log:               log,
		now:               time.Now,
	}
}

// Write persists the note under a timestamp-derived name. A name collision
// gets an incrementing suffix; the content lands via a temp file and rename
// so a crash mid-write never leaves a partial file at the final name.
func (w *FileWriter) Write(note Note) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	now := w.now()
	base := now.Format(timestampLayout) + "-meeting-notes"

	path := filepath.Join(w.dir, base+".md")
	for n := 2; exists(path); n++ {
		path = filepath.Join(w.dir, fmt.Sprintf("%s-%d.md", base, n))
	}

	content := w.render(note, now)

	tmp := filepath.Join(w.dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	w.log.Info().Str("path", path).Msg("Note written")
	return path, nil
}

// render produces the document body. By default that is exactly the
// formatted text; with the transcript appendix enabled the note gets a
// header and a collapsible raw-transcript section.
func (w *FileWriter) render(note Note, now time.Time) string {
	if !w.includeTranscript {
		return note.Formatted
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Meeting Notes - %s\n\n", now.Format(headerLayout))
	fmt.Fprintf(&b, "> Duration: %.1fs | Transcribed with Whisper + %s\n\n", note.Spoken, note.Model)
	b.WriteString(note.Formatted)
	b.WriteString("\n\n---\n\n")
	b.WriteString("<details>\n<summary>Raw Transcript</summary>\n\n")
	b.WriteString(note.Transcript)
	b.WriteString("\n\n</details>\n")
	return b.String()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
