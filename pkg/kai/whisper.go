package kai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultWhisperURL = "http://localhost:8080"
	healthTimeout     = 2 * time.Second
)

// TranscriptionUnavailable is shown when the transcription service fails.
const TranscriptionUnavailable = "Voice transcription failed. Make sure whisper.cpp is running locally."

// Whisper talks to a whisper.cpp server.
type Whisper struct {
	baseURL string
	client  *http.Client
}

func NewWhisper(baseURL string, client *http.Client) *Whisper {
	if baseURL == "" {
		baseURL = DefaultWhisperURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Whisper{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type inferenceResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads audio and returns the trimmed transcript.
func (w *Whisper) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "audio.wav"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeInferenceForm(mw, audio, filename))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/inference", pr)
	if err != nil {
		pr.Close()
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper returned %s", resp.Status)
	}

	var out inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode whisper response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}

func writeInferenceForm(mw *multipart.Writer, audio io.Reader, filename string) error {
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return err
	}
	for k, v := range map[string]string{"model": "base", "language": "en", "response_format": "json"} {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	return mw.Close()
}

// Available checks the health endpoint with a short bound.
func (w *Whisper) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// TranscribeOrFallback returns TranscriptionUnavailable and false when the
// service cannot produce a transcript.
func (w *Whisper) TranscribeOrFallback(ctx context.Context, audio io.Reader, filename string) (string, bool) {
	text, err := w.Transcribe(ctx, audio, filename)
	if err != nil || text == "" {
		return TranscriptionUnavailable, false
	}
	return text, true
}
