// Package subtitle serializes transcript segments to SRT files.
package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cutai-stt/internal/model"
)

// Write renders segments as an SRT file at path, creating parent
// directories as needed.
func Write(path string, segments []model.Segment) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create subtitle directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(Render(segments)), 0644); err != nil {
		return fmt.Errorf("write subtitle file: %w", err)
	}
	return nil
}

// Render produces the SRT document body for segments.
func Render(segments []model.Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(seg.Start), formatTimestamp(seg.End))
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// formatTimestamp renders seconds as the SRT HH:MM:SS,mmm form.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(seconds*1000 + 0.5)
	h := millis / 3600000
	m := millis % 3600000 / 60000
	s := millis % 60000 / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
