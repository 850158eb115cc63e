package signal

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWAV assembles a minimal 16-bit PCM mono WAV payload from
// normalized samples.
func buildWAV(t *testing.T, samples []float64) []byte {
	t.Helper()

	var pcm bytes.Buffer
	for _, s := range samples {
		v := int16(math.Round(s * 32767))
		require.NoError(t, binary.Write(&pcm, binary.LittleEndian, v))
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(36+pcm.Len())))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(16)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(1))) // PCM
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(1))) // mono
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(16000)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(32000)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(2)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(16)))

	buf.WriteString("data")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(pcm.Len())))
	buf.Write(pcm.Bytes())

	return buf.Bytes()
}

func TestGate_PeakAlonePasses(t *testing.T) {
	// Any sample above the peak threshold passes regardless of mean.
	gate := NewGate(DefaultThresholds())

	samples := make([]float64, 48000)
	samples[100] = 0.02 // single spike, mean stays tiny

	assert.True(t, gate.EvaluateSamples(samples))
}

func TestGate_MeanAlonePasses(t *testing.T) {
	gate := NewGate(DefaultThresholds())

	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = 0.002 // below peak and active thresholds, above mean
	}

	assert.True(t, gate.EvaluateSamples(samples))
}

func TestGate_ActiveRatioAlonePasses(t *testing.T) {
	gate := NewGate(Thresholds{Peak: 0.5, Mean: 0.5, Active: 0.005, ActiveRatio: 0.01})

	samples := make([]float64, 1000)
	for i := 0; i < 20; i++ { // 2% active
		samples[i] = 0.006
	}

	assert.True(t, gate.EvaluateSamples(samples))
}

func TestGate_RejectsSilence(t *testing.T) {
	gate := NewGate(DefaultThresholds())

	samples := make([]float64, 48000)
	for i := range samples {
		samples[i] = 0.0001
	}

	assert.False(t, gate.EvaluateSamples(samples))
}

func TestGate_FailOpenOnDecodeError(t *testing.T) {
	gate := NewGate(DefaultThresholds())

	assert.True(t, gate.ShouldTranscribe([]byte("definitely not a wav file")))
	assert.True(t, gate.ShouldTranscribe(nil))
}

func TestGate_WAVRoundTrip(t *testing.T) {
	gate := NewGate(DefaultThresholds())

	speech := make([]float64, 16000)
	for i := range speech {
		speech[i] = 0.3 * math.Sin(2*math.Pi*float64(i)*220/16000)
	}
	assert.True(t, gate.ShouldTranscribe(buildWAV(t, speech)))

	silence := make([]float64, 16000)
	assert.False(t, gate.ShouldTranscribe(buildWAV(t, silence)))
}

func TestDecodeWAV_RejectsNonPCM(t *testing.T) {
	data := buildWAV(t, []float64{0.1, -0.1})
	// Flip the audio format field to 3 (IEEE float)
	data[20] = 3

	_, err := DecodeWAV(data)
	assert.Error(t, err)
}

func TestAnalyze_Statistics(t *testing.T) {
	samples := []float64{0.5, -0.5, 0, 0}
	analysis := Analyze(samples, 0.1)

	assert.InDelta(t, 0.5, analysis.Peak, 1e-9)
	assert.InDelta(t, 0.25, analysis.Mean, 1e-9)
	assert.InDelta(t, 0.5, analysis.ActiveRatio, 1e-9)
	assert.Equal(t, 4, analysis.SampleCount)
}

func TestAnalyze_Empty(t *testing.T) {
	analysis := Analyze(nil, 0.1)
	assert.Zero(t, analysis.SampleCount)
	assert.Zero(t, analysis.Peak)
}
