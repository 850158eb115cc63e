// Package recorder runs the capture loop that slices a continuous
// audio stream into fixed-length chunks and feeds each one through the
// gate, transcription and storage pipeline.
package recorder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/internal/services/chunks"
)

// State is the recorder lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// AudioSource is a capture device that accumulates audio between
// reads. ReadChunk drains and returns whatever has been captured since
// the previous call.
type AudioSource interface {
	Start(ctx context.Context) error
	ReadChunk() ([]byte, error)
	MimeType() string
	Close() error
}

// Gate decides whether a chunk is worth a transcription call.
type Gate interface {
	ShouldTranscribe(audio []byte) bool
}

// Recorder owns one session's capture loop. Each tick emits the
// current buffer with a synchronously assigned monotonic index, then
// hands it to the pipeline on its own goroutine so a slow network call
// never delays the next capture interval.
type Recorder struct {
	session  *models.Session
	source   AudioSource
	gate     Gate
	pipeline chunks.Pipeline
	interval time.Duration

	mu        sync.Mutex
	state     State
	nextIndex int
	cancel    context.CancelFunc
	loopDone  chan struct{}
	inflight  sync.WaitGroup
}

// New creates a recorder for one session.
func New(session *models.Session, source AudioSource, gate Gate, pipeline chunks.Pipeline, interval time.Duration) *Recorder {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Recorder{
		session:  session,
		source:   source,
		gate:     gate,
		pipeline: pipeline,
		interval: interval,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start opens the capture device and begins the chunk interval.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return fmt.Errorf("recorder is %s, expected idle", r.state)
	}

	if err := r.source.Start(ctx); err != nil {
		return fmt.Errorf("starting audio source: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.loopDone = make(chan struct{})
	r.state = StateRecording

	go r.loop(loopCtx)

	log.Printf("[INFO] Recorder started for session %s (interval=%s)", r.session.UUID, r.interval)
	return nil
}

// Stop cancels the interval, flushes the last partial buffer through
// the pipeline, waits for in-flight chunks, and releases the device.
// In-flight pipeline calls are never aborted: captured audio that is
// already on its way matters more than a prompt teardown.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return fmt.Errorf("recorder is %s, expected recording", r.state)
	}
	r.state = StateStopped
	cancel := r.cancel
	done := r.loopDone
	r.mu.Unlock()

	cancel()
	<-done

	// Final flush of whatever the source buffered since the last tick
	r.emit()

	r.inflight.Wait()

	if err := r.source.Close(); err != nil {
		log.Printf("[WARN] Closing audio source for session %s: %v", r.session.UUID, err)
	}

	log.Printf("[INFO] Recorder stopped for session %s after %d emitted chunk(s)", r.session.UUID, r.emittedCount())
	return nil
}

func (r *Recorder) loop(ctx context.Context) {
	defer close(r.loopDone)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.emit()
		}
	}
}

// emit drains the source buffer, assigns the next index synchronously,
// and dispatches the chunk. The index counter only advances for chunks
// that pass the gate, but gaps would be harmless either way since
// downstream ordering sorts rather than assuming contiguity.
func (r *Recorder) emit() {
	audio, err := r.source.ReadChunk()
	if err != nil {
		log.Printf("[WARN] Reading audio chunk for session %s: %v", r.session.UUID, err)
		return
	}
	if len(audio) == 0 {
		return
	}

	if !r.gate.ShouldTranscribe(audio) {
		log.Printf("[DEBUG] Gate rejected chunk for session %s (%d bytes)", r.session.UUID, len(audio))
		return
	}

	r.mu.Lock()
	index := r.nextIndex
	r.nextIndex++
	r.mu.Unlock()

	input := chunks.ChunkInput{
		Index:      index,
		CapturedAt: time.Now().UTC(),
		Audio:      audio,
		MimeType:   r.source.MimeType(),
	}

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		if _, err := r.pipeline.ProcessChunk(context.Background(), r.session, input); err != nil {
			log.Printf("[WARN] Chunk %d of session %s failed in pipeline: %v", input.Index, r.session.UUID, err)
		}
	}()
}

func (r *Recorder) emittedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextIndex
}
