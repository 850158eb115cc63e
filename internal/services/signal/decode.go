package signal

import (
	"encoding/binary"
	"fmt"
)

// DecodeWAV extracts normalized mono samples in [-1,1] from a 16-bit
// PCM WAV payload. Multi-channel audio is averaged down to mono, which
// is all the gate's amplitude heuristics need.
func DecodeWAV(data []byte) ([]float64, error) {
	if len(data) < 44 {
		return nil, fmt.Errorf("wav payload too short: %d bytes", len(data))
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE payload")
	}

	var numChannels, bitsPerSample uint16
	var dataChunk []byte

	// Walk the chunk list; fmt and data may appear after optional chunks.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("fmt chunk too short: %d bytes", chunkSize)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return nil, fmt.Errorf("unsupported audio format %d (want PCM)", audioFormat)
			}
			numChannels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
		case "data":
			dataChunk = data[body : body+chunkSize]
		}

		// Chunks are word-aligned
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if numChannels == 0 {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d", bitsPerSample)
	}
	if len(dataChunk) == 0 {
		return nil, fmt.Errorf("missing data chunk")
	}

	frameSize := int(numChannels) * 2
	frames := len(dataChunk) / frameSize
	samples := make([]float64, 0, frames)

	for f := 0; f < frames; f++ {
		var sum float64
		for ch := 0; ch < int(numChannels); ch++ {
			idx := f*frameSize + ch*2
			raw := int16(binary.LittleEndian.Uint16(dataChunk[idx : idx+2]))
			sum += float64(raw) / 32768.0
		}
		samples = append(samples, sum/float64(numChannels))
	}

	return samples, nil
}
