package recorder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/internal/services/chunks"
)

// stubSource returns a fixed payload on every read.
type stubSource struct {
	mu      sync.Mutex
	payload []byte
	reads   int
	started bool
	closed  bool
}

func (s *stubSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *stubSource) ReadChunk() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.payload, nil
}

func (s *stubSource) MimeType() string { return "audio/webm" }

func (s *stubSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// passGate accepts everything; rejectGate drops everything.
type passGate struct{}

func (passGate) ShouldTranscribe([]byte) bool { return true }

type rejectGate struct{}

func (rejectGate) ShouldTranscribe([]byte) bool { return false }

// capturePipeline records inputs; optionally stalls to simulate slow
// network responses resolving out of order.
type capturePipeline struct {
	mu     sync.Mutex
	inputs []chunks.ChunkInput
	delay  func(index int) time.Duration
}

func (p *capturePipeline) ProcessChunk(ctx context.Context, session *models.Session, input chunks.ChunkInput) (*models.Chunk, error) {
	if p.delay != nil {
		time.Sleep(p.delay(input.Index))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, input)
	return &models.Chunk{SessionID: session.ID, ChunkIndex: input.Index}, nil
}

func (p *capturePipeline) indices() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, len(p.inputs))
	for i, in := range p.inputs {
		out[i] = in.Index
	}
	return out
}

func testSession() *models.Session {
	return &models.Session{UUID: "sess-rec", OwnerID: "user-1", Status: models.SessionStatusActive}
}

func TestRecorder_Lifecycle(t *testing.T) {
	source := &stubSource{payload: []byte("audio")}
	pipeline := &capturePipeline{}

	rec := New(testSession(), source, passGate{}, pipeline, 10*time.Millisecond)
	assert.Equal(t, StateIdle, rec.State())

	require.NoError(t, rec.Start(context.Background()))
	assert.Equal(t, StateRecording, rec.State())

	time.Sleep(35 * time.Millisecond)
	require.NoError(t, rec.Stop())
	assert.Equal(t, StateStopped, rec.State())
	assert.True(t, source.closed)

	// Ticks plus the final flush all reached the pipeline
	indices := pipeline.indices()
	assert.NotEmpty(t, indices)
}

func TestRecorder_MonotonicIndicesUnderSlowResponses(t *testing.T) {
	source := &stubSource{payload: []byte("audio")}

	// The first chunk's network call resolves after later ones
	pipeline := &capturePipeline{delay: func(index int) time.Duration {
		if index == 0 {
			return 60 * time.Millisecond
		}
		return 0
	}}

	rec := New(testSession(), source, passGate{}, pipeline, 10*time.Millisecond)
	require.NoError(t, rec.Start(context.Background()))
	time.Sleep(45 * time.Millisecond)
	require.NoError(t, rec.Stop())

	indices := pipeline.indices()
	require.GreaterOrEqual(t, len(indices), 2)

	// Completion order differs from emission order, but the assigned
	// indices are still the strictly increasing sequence 0..n-1
	seen := make(map[int]bool)
	max := -1
	for _, idx := range indices {
		assert.False(t, seen[idx], "index %d assigned twice", idx)
		seen[idx] = true
		if idx > max {
			max = idx
		}
	}
	assert.Equal(t, len(indices)-1, max)
}

func TestRecorder_FinalFlushOnStop(t *testing.T) {
	source := &stubSource{payload: []byte("tail-audio")}
	pipeline := &capturePipeline{}

	// Interval far longer than the test: only the stop flush can emit
	rec := New(testSession(), source, passGate{}, pipeline, time.Hour)
	require.NoError(t, rec.Start(context.Background()))
	require.NoError(t, rec.Stop())

	require.Len(t, pipeline.indices(), 1)
	assert.Equal(t, 0, pipeline.inputs[0].Index)
	assert.Equal(t, []byte("tail-audio"), pipeline.inputs[0].Audio)
}

func TestRecorder_GateRejectedChunksDropped(t *testing.T) {
	source := &stubSource{payload: []byte("silence")}
	pipeline := &capturePipeline{}

	rec := New(testSession(), source, rejectGate{}, pipeline, 10*time.Millisecond)
	require.NoError(t, rec.Start(context.Background()))
	time.Sleep(35 * time.Millisecond)
	require.NoError(t, rec.Stop())

	assert.Empty(t, pipeline.indices())
}

func TestRecorder_EmptyBufferSkipped(t *testing.T) {
	source := &stubSource{payload: nil}
	pipeline := &capturePipeline{}

	rec := New(testSession(), source, passGate{}, pipeline, time.Hour)
	require.NoError(t, rec.Start(context.Background()))
	require.NoError(t, rec.Stop())

	assert.Empty(t, pipeline.indices())
}

func TestRecorder_DoubleStartRejected(t *testing.T) {
	source := &stubSource{payload: []byte("audio")}
	rec := New(testSession(), source, passGate{}, &capturePipeline{}, time.Hour)

	require.NoError(t, rec.Start(context.Background()))
	assert.Error(t, rec.Start(context.Background()))
	require.NoError(t, rec.Stop())
	assert.Error(t, rec.Stop())
}
