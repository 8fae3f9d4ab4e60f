package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Bell synthesis parameters.
const (
	BellSampleRate = 24000
	bellLength     = 1500 * time.Millisecond
	bellFundHz     = 880.0
	bellDecay      = 3.5 // exponential decay rate per second
)

// bell partials relative to the fundamental, with their gains.
var bellPartials = []struct {
	ratio float64
	gain  float64
}{
	{1.0, 0.6},
	{2.76, 0.25},
	{5.4, 0.1},
}

// SynthBell returns a mono 16-bit WAV of a short decaying bell strike.
func SynthBell() []byte {
	n := int(bellLength.Seconds() * BellSampleRate)
	pcm := make([]byte, n*2)

	for i := 0; i < n; i++ {
		t := float64(i) / BellSampleRate
		env := math.Exp(-bellDecay * t)
		// 5ms attack avoids a click at the start.
		if attack := t / 0.005; attack < 1 {
			env *= attack
		}

		var v float64
		for _, p := range bellPartials {
			v += p.gain * math.Sin(2*math.Pi*bellFundHz*p.ratio*t)
		}
		sample := int16(math.MaxInt16 * 0.8 * env * v)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}

	return encodeWAV(Format{SampleRate: BellSampleRate, ChannelCount: 1}, pcm)
}
