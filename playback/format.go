package playback

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as M:SS. Minutes are not padded and grow past 59.
// Negative and non-finite values render as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}

	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
