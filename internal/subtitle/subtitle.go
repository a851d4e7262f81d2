package subtitle

import (
	"fmt"
	"math"
	"strings"

	"subweld/internal/services"
)

// Entry is one subtitle cue: a timed span and its display text.
type Entry struct {
	Start float64
	End   float64
	Text  string
}

// zeroTime is the timestamp used for values SRT cannot represent.
const zeroTime = "00:00:00,000"

// FormatTime renders seconds as an SRT timestamp (HH:MM:SS,mmm), truncating
// to the millisecond. Negative or non-finite input renders as zero.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return zeroTime
	}
	totalMillis := int64(seconds * 1000)
	hours := totalMillis / 3_600_000
	minutes := (totalMillis % 3_600_000) / 60_000
	secs := (totalMillis % 60_000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// Compose renders entries as an SRT document. Entries with empty text are
// skipped; the remaining cues are numbered contiguously from 1. Composing
// zero usable entries is an error.
func Compose(entries []Entry) (string, error) {
	var b strings.Builder
	index := 0
	for _, entry := range entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		index++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", index, FormatTime(entry.Start), FormatTime(entry.End), text)
	}
	if index == 0 {
		return "", services.Wrap(services.ErrValidation, "compose", "srt", "no subtitle entries to compose", nil)
	}
	return b.String(), nil
}
