package model

// FileRecord describes one uploaded media asset. It is created at upload
// time and updated once by the pipeline after the audio track has been
// probed (and, for video input, extracted).
type FileRecord struct {
	FileID   string  `json:"file_id"`
	FileName string  `json:"file_name"`
	FilePath string  `json:"file_path"`
	FileSize int64   `json:"file_size"`
	FileType string  `json:"file_type"`
	Duration float64 `json:"duration"`

	// Derived fields, filled in by the pipeline.
	SttTaskID      string `json:"stt_task_id,omitempty"`
	SttFileName    string `json:"stt_file_name,omitempty"`
	AudioLength    int64  `json:"audio_length,omitempty"`
	AudioChannels  int    `json:"audio_channels,omitempty"`
	AudioWidth     int    `json:"audio_width,omitempty"`
	AudioFramerate int    `json:"audio_framerate,omitempty"`
}
