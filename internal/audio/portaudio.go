package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"

	"github.com/petems/voicenotes/internal/config"
)

type portAudioCapture struct {
	deviceID   string
	sampleRate int
	log        zerolog.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	buffer  []int16
	samples []int16
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a new PortAudio-based audio capture
func New(cfg *config.Config, log zerolog.Logger) (Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioCapture{
		deviceID:   cfg.AudioDevice,
		sampleRate: cfg.SampleRate,
		log:        log,
	}, nil
}

func (p *portAudioCapture) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		return ErrAlreadyRecording
	}

	device, err := p.findDevice()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	// Mono, int16, 512-frame blocks (~32ms at 16kHz)
	p.buffer = make([]int16, 512)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(p.sampleRate),
		FramesPerBuffer: len(p.buffer),
	}, p.buffer)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	p.stream = stream
	p.samples = nil
	p.done = make(chan struct{})
	p.wg.Add(1)
	go p.readLoop(stream, p.done)

	p.log.Debug().Str("device", device.Name).Int("sample_rate", p.sampleRate).Msg("Capture started")
	return nil
}

func (p *portAudioCapture) readLoop(stream *portaudio.Stream, done chan struct{}) {
	defer p.wg.Done()
	for {
		select {
		case <-done:
			return
		default:
			if err := stream.Read(); err != nil {
				p.log.Error().Err(err).Msg("Audio read error")
				return
			}
			p.mu.Lock()
			p.samples = append(p.samples, p.buffer...)
			p.mu.Unlock()
		}
	}
}

func (p *portAudioCapture) Stop() (*Recording, error) {
	p.mu.Lock()
	if p.stream == nil {
		p.mu.Unlock()
		return nil, ErrNotRecording
	}
	stream := p.stream
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
	stream.Stop()
	stream.Close()

	p.mu.Lock()
	rec := &Recording{
		Samples:    p.samples,
		SampleRate: p.sampleRate,
		Channels:   1,
	}
	p.samples = nil
	p.stream = nil
	p.mu.Unlock()

	p.log.Debug().Dur("duration", rec.Duration()).Int("samples", len(rec.Samples)).Msg("Capture stopped")
	return rec, nil
}

func (p *portAudioCapture) findDevice() (*portaudio.DeviceInfo, error) {
	if p.deviceID == "" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == p.deviceID {
			return d, nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", p.deviceID)
}

func (p *portAudioCapture) ListDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]Device, 0, len(devices))
	defaultDevice, _ := portaudio.DefaultInputDevice()

	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, Device{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}

	return result, nil
}

func (p *portAudioCapture) Close() error {
	p.mu.Lock()
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
	p.mu.Unlock()
	portaudio.Terminate()
	return nil
}
