package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petems/voicenotes/internal/app"
	"github.com/petems/voicenotes/internal/audio"
	"github.com/petems/voicenotes/internal/config"
	"github.com/petems/voicenotes/internal/console"
	"github.com/petems/voicenotes/internal/logging"
	"github.com/petems/voicenotes/internal/notes"
	"github.com/petems/voicenotes/internal/ollama"
	"github.com/petems/voicenotes/internal/tray"
	"github.com/petems/voicenotes/internal/whisper"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	trayMode := flag.Bool("tray", false, "run with the system tray instead of the console")
	listDevices := flag.Bool("list-devices", false, "list audio input devices and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("voicenotes %s (%s)\n", Version, Commit)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log := logging.New("info")
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logging.New(cfg.LogLevel)

	capture, err := audio.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer capture.Close()

	if *listDevices {
		devices, err := capture.ListDevices()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list devices")
		}
		for _, d := range devices {
			marker := " "
			if d.Default {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, d.Name)
		}
		return
	}

	transcriber := whisper.NewClient(cfg, log)
	formatter := ollama.NewClient(cfg, log)
	writer := notes.NewWriter(cfg, log)

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		capture.Close()
		os.Exit(0)
	}()

	log.Info().Str("version", Version).Msg("voicenotes starting")

	if *trayMode {
		// Tray is the StatusUpdater, so wire it before the pipeline
		ui := tray.New(cfg, log)
		pipeline := app.New(app.Config{
			Audio:         capture,
			Transcriber:   transcriber,
			Formatter:     formatter,
			Writer:        writer,
			Config:        cfg,
			Logger:        log,
			StatusUpdater: ui,
		})
		ui.SetPipeline(pipeline)

		// MUST run on the main thread
		if err := ui.Run(); err != nil {
			log.Fatal().Err(err).Msg("Tray error")
		}
		return
	}

	pipeline := app.New(app.Config{
		Audio:       capture,
		Transcriber: transcriber,
		Formatter:   formatter,
		Writer:      writer,
		Config:      cfg,
		Logger:      log,
	})

	ui := console.New(pipeline, cfg, log, os.Stdin, os.Stdout)
	if err := ui.Run(); err != nil {
		log.Fatal().Err(err).Msg("Console error")
	}
}
