package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/hammamikhairi/countdown/internal/domain"
)

// Format describes 16-bit PCM audio.
type Format struct {
	SampleRate   int
	ChannelCount int
}

// decodeWAV walks the RIFF chunks and returns the fmt parameters and the
// raw PCM payload. Only 16-bit integer PCM is accepted.
func decodeWAV(wav []byte) (Format, []byte, error) {
	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return Format{}, nil, fmt.Errorf("%w: not a RIFF/WAVE file", domain.ErrUnsupportedAudio)
	}

	var (
		format  Format
		haveFmt bool
	)
	pos := 12
	for pos+8 <= len(wav) {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		start := pos + 8
		end := start + chunkSize
		if end > len(wav) {
			end = len(wav)
		}

		switch chunkID {
		case "fmt ":
			if end-start < 16 {
				return Format{}, nil, fmt.Errorf("%w: short fmt chunk", domain.ErrUnsupportedAudio)
			}
			body := wav[start:end]
			audioFormat := binary.LittleEndian.Uint16(body[0:2])
			bits := binary.LittleEndian.Uint16(body[14:16])
			if audioFormat != 1 || bits != 16 {
				return Format{}, nil, fmt.Errorf("%w: format=%d bits=%d, want 16-bit PCM",
					domain.ErrUnsupportedAudio, audioFormat, bits)
			}
			format.ChannelCount = int(binary.LittleEndian.Uint16(body[2:4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return Format{}, nil, fmt.Errorf("%w: data before fmt chunk", domain.ErrUnsupportedAudio)
			}
			return format, wav[start:end], nil
		}

		pos = end
		// Chunks are word-aligned.
		if chunkSize%2 != 0 {
			pos++
		}
	}

	return Format{}, nil, fmt.Errorf("%w: data chunk not found", domain.ErrUnsupportedAudio)
}

// encodeWAV wraps 16-bit PCM samples in a canonical 44-byte RIFF header.
func encodeWAV(f Format, pcm []byte) []byte {
	const bits = 16
	blockAlign := f.ChannelCount * bits / 8
	out := make([]byte, 44+len(pcm))

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1)
	binary.LittleEndian.PutUint16(out[22:24], uint16(f.ChannelCount))
	binary.LittleEndian.PutUint32(out[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(f.SampleRate*blockAlign))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bits)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[44:], pcm)
	return out
}
