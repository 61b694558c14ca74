package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg implements Prober and Transcoder by shelling out to the
// ffprobe/ffmpeg binaries on PATH.
type FFmpeg struct{}

// NewFFmpeg returns an exec-based media adapter.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{}
}

func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", output, err)
	}
	return duration, nil
}

func (f *FFmpeg) AudioInfo(ctx context.Context, path string) (*AudioInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseAudioInfo(output)
}

func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	outputPath := videoPath + ".wav"

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		outputPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg error: %v, stderr: %s", err, stderr.String())
	}

	return outputPath, nil
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType     string `json:"codec_type"`
		Channels      int    `json:"channels"`
		SampleRate    int    `json:"sample_rate,string"`
		BitsPerSample int    `json:"bits_per_sample"`
		DurationTS    int64  `json:"duration_ts"`
	} `json:"streams"`
	Format struct {
		Duration float64 `json:"duration,string"`
	} `json:"format"`
}

func parseAudioInfo(output []byte) (*AudioInfo, error) {
	var probed ffprobeOutput
	if err := json.Unmarshal(output, &probed); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, stream := range probed.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		return &AudioInfo{
			Frames:      stream.DurationTS,
			Channels:    stream.Channels,
			SampleWidth: stream.BitsPerSample / 8,
			FrameRate:   stream.SampleRate,
			Duration:    probed.Format.Duration,
		}, nil
	}

	return nil, fmt.Errorf("no audio stream found")
}
