// Package audio plays the countdown completion sound.
package audio

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/countdown/internal/logger"
)

// Player handles playback of 16-bit PCM WAV data via oto. The device is
// opened once with the format of the sound it is created for.
type Player struct {
	ctx    *oto.Context
	format Format
	log    *logger.Logger
	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewPlayer opens the system audio device for the given format.
// Returns an error if the audio device is unavailable.
func NewPlayer(format Format, log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", format.SampleRate, format.ChannelCount)
	return &Player{ctx: ctx, format: format, log: log}, nil
}

// Play plays WAV audio data synchronously. Blocks until playback finishes
// or Stop is called. The WAV must match the format the player was opened with.
func (p *Player) Play(wavData []byte) error {
	format, pcm, err := decodeWAV(wavData)
	if err != nil {
		return err
	}
	if format != p.format {
		return fmt.Errorf("wav format %+v does not match device %+v", format, p.format)
	}

	player := p.ctx.NewPlayer(bytes.NewReader(pcm))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	player.Play()
	p.log.Debug("audio player: playing %d bytes of PCM", len(pcm))

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()

	return player.Close()
}

// Stop interrupts the currently playing audio, if any. Safe to call
// concurrently and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("audio player: interrupted")
	}
}
