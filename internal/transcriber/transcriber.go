// Package transcriber adapts the external speech-to-text engine.
package transcriber

import (
	"context"

	"cutai-stt/internal/model"
)

// Request describes one transcription invocation.
type Request struct {
	FilePath       string
	Language       string
	Prompt         string
	WordTimestamps bool
}

// Result is the structured output of the engine.
type Result struct {
	Text     string
	Segments []model.Segment
}

// Transcriber converts an audio file to text with time-aligned segments.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
}
