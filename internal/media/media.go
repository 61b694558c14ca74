// Package media probes and transcodes uploaded files via ffprobe/ffmpeg.
package media

import "context"

// AudioInfo holds the parameters of a playable audio file.
type AudioInfo struct {
	Frames      int64
	Channels    int
	SampleWidth int
	FrameRate   int
	Duration    float64
}

// Prober inspects media files.
type Prober interface {
	// Duration returns the media duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// AudioInfo returns the audio parameters of path.
	AudioInfo(ctx context.Context, path string) (*AudioInfo, error)
}

// Transcoder extracts a playable audio track from a video container.
type Transcoder interface {
	// ExtractAudio writes the audio track of videoPath to a derived wav
	// file and returns its path.
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
}
