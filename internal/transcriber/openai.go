package transcriber

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"cutai-stt/internal/model"
)

// Whisper implements Transcriber against the OpenAI audio API.
type Whisper struct {
	client *openai.Client
	model  string
}

// NewWhisper creates a whisper-backed transcriber. baseURL may point at a
// self-hosted OpenAI-compatible server; empty means api.openai.com.
func NewWhisper(apiKey, baseURL, modelName string) *Whisper {
	if modelName == "" {
		modelName = openai.Whisper1
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Whisper{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}
}

func (w *Whisper) Transcribe(ctx context.Context, req Request) (*Result, error) {
	audioReq := openai.AudioRequest{
		Model:    w.model,
		FilePath: req.FilePath,
		Language: req.Language,
		Prompt:   req.Prompt,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if req.WordTimestamps {
		audioReq.TimestampGranularities = []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
			openai.TranscriptionTimestampGranularityWord,
		}
	}

	resp, err := w.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return nil, fmt.Errorf("createTranscription failed: %w", err)
	}

	segments := make([]model.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, model.Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	words := make([]model.Word, 0, len(resp.Words))
	for _, word := range resp.Words {
		words = append(words, model.Word{Word: word.Word, Start: word.Start, End: word.End})
	}
	attachWords(segments, words)

	return &Result{Text: resp.Text, Segments: segments}, nil
}

// attachWords distributes the flat word list onto segments by start time.
// The API returns words in order, so a single pass suffices; words past
// the last segment boundary land on the last segment.
func attachWords(segments []model.Segment, words []model.Word) {
	if len(segments) == 0 {
		return
	}

	i := 0
	for _, word := range words {
		for i < len(segments)-1 && word.Start >= segments[i].End {
			i++
		}
		segments[i].Words = append(segments[i].Words, word)
	}
}
