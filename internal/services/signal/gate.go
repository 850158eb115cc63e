package signal

import (
	"log"
	"math"
)

// Thresholds holds the gate's tuning knobs on a [-1,1] sample scale.
type Thresholds struct {
	Peak        float64 // any single sample above this passes
	Mean        float64 // mean absolute amplitude above this passes
	Active      float64 // samples above this count as "active"
	ActiveRatio float64 // fraction of active samples that passes
}

// DefaultThresholds returns the tuned production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Peak:        0.01,
		Mean:        0.001,
		Active:      0.005,
		ActiveRatio: 0.01,
	}
}

// Analysis holds the amplitude statistics computed for one chunk.
type Analysis struct {
	Peak        float64 `json:"peak"`
	Mean        float64 `json:"mean"`
	ActiveRatio float64 `json:"active_ratio"`
	SampleCount int     `json:"sample_count"`
}

// Gate decides whether a captured chunk carries meaningful signal
// before a transcription call is spent on it. It is a pure decision
// function; passing silence is cheap, dropping speech is not, so every
// check is an OR and every failure mode defaults to pass.
type Gate struct {
	thresholds Thresholds
}

// NewGate creates a gate with the given thresholds.
func NewGate(thresholds Thresholds) *Gate {
	return &Gate{thresholds: thresholds}
}

// ShouldTranscribe decodes one chunk of WAV audio and reports whether
// it is worth transcribing. Decode failures pass: gate breakage must
// never silently drop real audio.
func (g *Gate) ShouldTranscribe(chunk []byte) bool {
	samples, err := DecodeWAV(chunk)
	if err != nil {
		log.Printf("[WARN] Signal gate could not decode chunk, passing through: %v", err)
		return true
	}

	return g.EvaluateSamples(samples)
}

// EvaluateSamples applies the amplitude heuristics to already-decoded
// mono samples.
func (g *Gate) EvaluateSamples(samples []float64) bool {
	analysis := Analyze(samples, g.thresholds.Active)

	if analysis.SampleCount == 0 {
		// An empty chunk has nothing to transcribe either way; pass and
		// let the transcription backend return an empty result.
		return true
	}

	pass := analysis.Peak > g.thresholds.Peak ||
		analysis.Mean > g.thresholds.Mean ||
		analysis.ActiveRatio > g.thresholds.ActiveRatio

	if !pass {
		log.Printf("[INFO] Signal gate rejected chunk: peak=%.5f mean=%.5f active=%.4f",
			analysis.Peak, analysis.Mean, analysis.ActiveRatio)
	}

	return pass
}

// Analyze computes peak amplitude, mean absolute amplitude, and the
// fraction of samples whose amplitude exceeds activeThreshold.
func Analyze(samples []float64, activeThreshold float64) Analysis {
	if len(samples) == 0 {
		return Analysis{}
	}

	var peak, sum float64
	active := 0

	for _, s := range samples {
		abs := math.Abs(s)
		if abs > peak {
			peak = abs
		}
		sum += abs
		if abs > activeThreshold {
			active++
		}
	}

	return Analysis{
		Peak:        peak,
		Mean:        sum / float64(len(samples)),
		ActiveRatio: float64(active) / float64(len(samples)),
		SampleCount: len(samples),
	}
}
