package model

import (
	"strings"

	"github.com/samber/lo"
)

// TaskState is the authoritative lifecycle state of a transcription task.
type TaskState string

const (
	StateProgress TaskState = "PROGRESS"
	StateSuccess  TaskState = "SUCCESS"
	StateFailure  TaskState = "FAILURE"
)

// Phase is the sub-step label while a task is in StateProgress.
// Phases are sequential; PhaseTranscode only occurs for video input.
type Phase string

const (
	PhaseInit         Phase = "init"
	PhaseTranscode    Phase = "file_transcode"
	PhaseLoadingModel Phase = "loading_model"
	PhaseProcessing   Phase = "processing_file"
	PhaseSubtitle     Phase = "generating_subtitle"
	PhaseCompleted    Phase = "completed"
	PhaseFailed       Phase = "failed"
)

// Word is a single word with timing information.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a time-aligned piece of the transcript.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// RebuildText recomputes the segment display text from its word entries.
func (s *Segment) RebuildText() {
	s.Text = strings.Join(lo.Map(s.Words, func(w Word, _ int) string {
		return w.Word
	}), "")
}

// TaskRecord is the full lifecycle state of one transcription task.
// Phase-transition writes overwrite the record wholesale; only the
// transcript edit operation merges into an existing record.
type TaskRecord struct {
	FileID  string    `json:"file_id"`
	State   TaskState `json:"state"`
	Process Phase     `json:"process"`

	// Result payload, present once State is StateSuccess.
	FileName       string    `json:"file_name,omitempty"`
	FilePath       string    `json:"file_path,omitempty"`
	FileType       string    `json:"file_type,omitempty"`
	Duration       float64   `json:"duration,omitempty"`
	SrtPath        string    `json:"srt_path,omitempty"`
	Text           string    `json:"text,omitempty"`
	Segments       []Segment `json:"segments,omitempty"`
	CostTime       float64   `json:"cost_time,omitempty"`
	CompletionTime string    `json:"completion_time,omitempty"`
}

// Terminal reports whether the task has reached a final state.
func (t *TaskRecord) Terminal() bool {
	return t.State == StateSuccess || t.State == StateFailure
}

// JoinSegmentTexts builds the full transcript text, segment texts joined
// by a blank line.
func JoinSegmentTexts(segments []Segment) string {
	return strings.Join(lo.Map(segments, func(s Segment, _ int) string {
		return s.Text
	}), "\n\n")
}
