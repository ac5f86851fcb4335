package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process-wide settings. It is built once at startup and
// passed into each component's constructor; components never read the
// environment themselves.
type Config struct {
	// Transcription service
	WhisperURL     string
	WhisperTimeout time.Duration

	// Formatting service
	OllamaURL     string
	OllamaModel   string
	OllamaTimeout time.Duration

	// Output
	NotesDir          string
	IncludeTranscript bool

	// Audio
	SampleRate  int
	AudioDevice string

	// Operator conveniences
	CopyToClipboard bool

	LogLevel string
}

// Load builds the configuration from built-in defaults overridden by
// environment variables. A .env file in the working directory is applied
// first, so VOICENOTES_* entries there behave like exported variables.
func Load() (*Config, error) {
	// Missing .env is fine; variables may be set system-wide.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	cfg := &Config{
		WhisperURL:     "http://localhost:8090/transcribe",
		WhisperTimeout: 300 * time.Second,
		OllamaURL:      "http://localhost:11434/api/generate",
		OllamaModel:    "llama3.1:latest",
		OllamaTimeout:  120 * time.Second,
		NotesDir:       filepath.Join(home, "VoiceNotes"),
		SampleRate:     16000, // 16kHz is what the Whisper server expects
		LogLevel:       "info",
	}

	envString("VOICENOTES_WHISPER_URL", &cfg.WhisperURL)
	envString("VOICENOTES_OLLAMA_URL", &cfg.OllamaURL)
	envString("VOICENOTES_OLLAMA_MODEL", &cfg.OllamaModel)
	envString("VOICENOTES_NOTES_DIR", &cfg.NotesDir)
	envString("VOICENOTES_AUDIO_DEVICE", &cfg.AudioDevice)
	envString("VOICENOTES_LOG_LEVEL", &cfg.LogLevel)

	if err := envSeconds("VOICENOTES_WHISPER_TIMEOUT", &cfg.WhisperTimeout); err != nil {
		return nil, err
	}
	if err := envSeconds("VOICENOTES_OLLAMA_TIMEOUT", &cfg.OllamaTimeout); err != nil {
		return nil, err
	}
	if err := envInt("VOICENOTES_SAMPLE_RATE", &cfg.SampleRate); err != nil {
		return nil, err
	}
	if err := envBool("VOICENOTES_INCLUDE_TRANSCRIPT", &cfg.IncludeTranscript); err != nil {
		return nil, err
	}
	if err := envBool("VOICENOTES_COPY_TO_CLIPBOARD", &cfg.CopyToClipboard); err != nil {
		return nil, err
	}

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", cfg.SampleRate)
	}

	return cfg, nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

// envSeconds reads a whole number of seconds.
func envSeconds(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = time.Duration(n) * time.Second
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}
