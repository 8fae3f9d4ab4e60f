package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/countdown/internal/domain"
	"github.com/hammamikhairi/countdown/internal/logger"
)

func TestSynthBellDecodes(t *testing.T) {
	wav := SynthBell()

	format, pcm, err := decodeWAV(wav)
	require.NoError(t, err)
	assert.Equal(t, Format{SampleRate: BellSampleRate, ChannelCount: 1}, format)
	assert.Equal(t, int(bellLength.Seconds()*BellSampleRate)*2, len(pcm))

	// First sample is silent (attack ramp starts at zero).
	assert.Equal(t, int16(0), int16(binary.LittleEndian.Uint16(pcm[0:2])))
}

func TestDecodeWAVSkipsOddChunks(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	base := encodeWAV(Format{SampleRate: 8000, ChannelCount: 2}, pcm)

	// Insert an odd-sized LIST chunk (plus pad byte) between fmt and data.
	var b bytes.Buffer
	b.Write(base[:36])
	b.WriteString("LIST")
	_ = binary.Write(&b, binary.LittleEndian, uint32(3))
	b.Write([]byte{'a', 'b', 'c', 0})
	b.Write(base[36:])

	format, got, err := decodeWAV(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Format{SampleRate: 8000, ChannelCount: 2}, format)
	assert.Equal(t, pcm, got)
}

func TestDecodeWAVRejects(t *testing.T) {
	eightBit := encodeWAV(Format{SampleRate: 8000, ChannelCount: 1}, []byte{0, 0})
	binary.LittleEndian.PutUint16(eightBit[34:36], 8)

	noData := encodeWAV(Format{SampleRate: 8000, ChannelCount: 1}, nil)[:36]

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not riff", []byte("RIFX0000WAVEfmt ")},
		{"8-bit", eightBit},
		{"missing data", noData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := decodeWAV(tt.data)
			assert.ErrorIs(t, err, domain.ErrUnsupportedAudio)
		})
	}
}

func TestLoadSound(t *testing.T) {
	bell, err := LoadSound("")
	require.NoError(t, err)
	assert.Equal(t, SynthBell(), bell)

	dir := t.TempDir()
	good := filepath.Join(dir, "ding.wav")
	require.NoError(t, os.WriteFile(good, encodeWAV(Format{SampleRate: 44100, ChannelCount: 2}, []byte{0, 0, 0, 0}), 0o644))
	data, err := LoadSound(good)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	bad := filepath.Join(dir, "ding.mp3")
	require.NoError(t, os.WriteFile(bad, []byte("ID3"), 0o644))
	_, err = LoadSound(bad)
	assert.ErrorIs(t, err, domain.ErrUnsupportedAudio)

	_, err = LoadSound(filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)
}

// fakePlayer records plays and stops.
type fakePlayer struct {
	mu    sync.Mutex
	plays int
	stops int
}

func (p *fakePlayer) Play([]byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays++
	return nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
}

func TestCuePlaysInBackground(t *testing.T) {
	fp := &fakePlayer{}
	c := &Cue{player: fp, sound: SynthBell(), log: logger.New(logger.LevelOff, nil)}

	c.PlayCompletion()
	c.PlayCompletion()
	c.Wait()

	fp.mu.Lock()
	defer fp.mu.Unlock()
	assert.Equal(t, 2, fp.plays)
	assert.Equal(t, 2, fp.stops, "each cue interrupts the previous one")
}

func TestBellCue(t *testing.T) {
	var buf bytes.Buffer
	NewBellCue(&buf, logger.New(logger.LevelOff, nil)).PlayCompletion()
	assert.Equal(t, "\a", buf.String())
}

func TestNoOpReturnsImmediately(t *testing.T) {
	done := make(chan struct{})
	go func() {
		NewNoOp(logger.New(logger.LevelOff, nil)).PlayCompletion()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("no-op cue blocked")
	}
}
