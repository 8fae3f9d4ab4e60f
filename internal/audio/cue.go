package audio

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hammamikhairi/countdown/internal/domain"
	"github.com/hammamikhairi/countdown/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.CuePlayer = (*Cue)(nil)
	_ domain.CuePlayer = (*BellCue)(nil)
	_ domain.CuePlayer = (*NoOp)(nil)
)

// wavPlayer is the part of Player a Cue needs.
type wavPlayer interface {
	Play(wavData []byte) error
	Stop()
}

// Cue plays a WAV clip on completion. A new cue interrupts one that is
// still playing.
type Cue struct {
	player wavPlayer
	sound  []byte
	log    *logger.Logger
	wg     sync.WaitGroup
}

// NewCue opens the audio device for sound and returns a cue for it.
func NewCue(sound []byte, log *logger.Logger) (*Cue, error) {
	format, _, err := decodeWAV(sound)
	if err != nil {
		return nil, err
	}
	player, err := NewPlayer(format, log)
	if err != nil {
		return nil, err
	}
	return &Cue{player: player, sound: sound, log: log}, nil
}

// LoadSound reads a WAV file, or returns the synthesized bell when path is empty.
func LoadSound(path string) ([]byte, error) {
	if path == "" {
		return SynthBell(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sound file: %w", err)
	}
	if _, _, err := decodeWAV(data); err != nil {
		return nil, fmt.Errorf("sound file %s: %w", path, err)
	}
	return data, nil
}

// PlayCompletion starts playback in the background.
func (c *Cue) PlayCompletion() {
	c.player.Stop()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.player.Play(c.sound); err != nil {
			c.log.Error("playing completion sound: %v", err)
		}
	}()
}

// Wait blocks until every started playback has finished.
func (c *Cue) Wait() { c.wg.Wait() }

// Close interrupts playback and waits for it to end.
func (c *Cue) Close() error {
	c.player.Stop()
	c.wg.Wait()
	return nil
}

// BellCue rings the terminal bell. Used when no audio device is available.
type BellCue struct {
	w   io.Writer
	log *logger.Logger
}

// NewBellCue creates a cue that writes BEL to w.
func NewBellCue(w io.Writer, log *logger.Logger) *BellCue {
	return &BellCue{w: w, log: log}
}

// PlayCompletion writes the bell character.
func (b *BellCue) PlayCompletion() {
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		b.log.Error("ringing terminal bell: %v", err)
	}
}

// NoOp is a cue that does nothing. Used when sound is disabled.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a silent cue.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// PlayCompletion only logs.
func (n *NoOp) PlayCompletion() {
	n.log.Debug("sound disabled: skipping completion cue")
}
