package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/MelanieChenMC/meliora/pkg/errors"
)

// Transcriber converts one audio chunk into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (*Result, error)
}

// Result is the transcript of a single audio chunk.
type Result struct {
	Text        string
	Confidence  float64
	DurationSec float64
	Language    string
	Words       []Word
}

// Word is a word-level timestamp when the upstream model provides them.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Config holds configuration for the Whisper client
type Config struct {
	APIKey            string
	APIURL            string
	Model             string
	Language          string
	Temperature       float64
	Timeout           time.Duration
	MaxFileSize       int64
	DefaultConfidence float64
}

// Client calls a Whisper-compatible speech-to-text API over HTTP.
type Client struct {
	httpClient        *http.Client
	apiURL            string
	apiKey            string
	model             string
	language          string
	temperature       float64
	maxFileSize       int64
	defaultConfidence float64
}

// NewClient creates a new Whisper API client
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.openai.com/v1/audio/transcriptions"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = 25 * 1024 * 1024
	}
	if cfg.DefaultConfidence == 0 {
		cfg.DefaultConfidence = 0.9
	}

	return &Client{
		httpClient:        &http.Client{Timeout: cfg.Timeout},
		apiURL:            cfg.APIURL,
		apiKey:            cfg.APIKey,
		model:             cfg.Model,
		language:          cfg.Language,
		temperature:       cfg.Temperature,
		maxFileSize:       cfg.MaxFileSize,
		defaultConfidence: cfg.DefaultConfidence,
	}
}

// whisperResponse mirrors the verbose_json response shape.
type whisperResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Words    []Word  `json:"words"`
	Segments []struct {
		AvgLogprob float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// Transcribe sends one audio chunk to the speech-to-text API and returns
// its transcript. Callers treat errors as transient: the chunk simply
// gets no transcript and the rest of the session is unaffected.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (*Result, error) {
	if int64(len(audio)) > c.maxFileSize {
		return nil, errors.Newf(errors.ErrCodeValidation,
			"audio chunk of %d bytes exceeds the %d byte limit", len(audio), c.maxFileSize)
	}

	body, contentType, err := c.buildForm(audio, mimeType)
	if err != nil {
		return nil, fmt.Errorf("building request form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.TimeoutError("transcription", c.httpClient.Timeout.String())
		}
		return nil, errors.TransientIOError("transcription request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[ERROR] Transcription API returned status %d: %s", resp.StatusCode, string(payload))
		return nil, errors.ExternalServiceError(
			fmt.Sprintf("transcription API returned status %d", resp.StatusCode), nil)
	}

	var parsed whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamFormat, "decoding transcription response")
	}

	return &Result{
		Text:        parsed.Text,
		Confidence:  c.confidence(parsed),
		DurationSec: parsed.Duration,
		Language:    parsed.Language,
		Words:       parsed.Words,
	}, nil
}

// buildForm assembles the multipart body for one transcription call.
func (c *Client) buildForm(audio []byte, mimeType string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	filename := "chunk.webm"
	if mimeType == "audio/wav" || mimeType == "audio/x-wav" {
		filename = "chunk.wav"
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"model":           c.model,
		"response_format": "verbose_json",
		"temperature":     fmt.Sprintf("%g", c.temperature),
	}
	if c.language != "" {
		fields["language"] = c.language
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

// confidence derives a usable confidence score. Whisper reports
// per-segment average log probabilities rather than a direct score, so
// fall back to the configured default when segments are missing.
func (c *Client) confidence(resp whisperResponse) float64 {
	if len(resp.Segments) == 0 {
		return c.defaultConfidence
	}

	var sum float64
	for _, seg := range resp.Segments {
		sum += seg.AvgLogprob
	}
	avg := sum / float64(len(resp.Segments))

	// avg_logprob near 0 means high confidence, around -1 very low
	score := 1.0 + avg
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
