package analyzer

import (
	"time"

	"github.com/chatlens/chatlens/internal/parser"
)

const (
	// MaxPromptChars bounds the rendered conversation handed to the model.
	MaxPromptChars = 100_000

	sittingGap      = 6 * time.Hour
	gapScanMessages = 20
)

// WindowMessages caps an over-long transcript to its most recent messages,
// cutting on message boundaries so the rendered text stays under maxChars.
// When a long time gap falls near the cut point, the window starts after
// the gap instead, so the model sees whole sittings rather than a
// conversation sliced mid-thread.
func WindowMessages(msgs []parser.Message, maxChars int) []parser.Message {
	start := len(msgs)
	budget := maxChars
	for i := len(msgs) - 1; i >= 0; i-- {
		// Approximate rendered line cost: timestamp prefix + sender + text.
		cost := len(msgs[i].Text) + len(msgs[i].Sender) + 24
		if cost > budget {
			break
		}
		budget -= cost
		start = i
	}
	if start == 0 {
		return msgs
	}
	if start == len(msgs) && len(msgs) > 0 {
		start = len(msgs) - 1 // a single oversized message still goes through
	}

	for i := start + 1; i < len(msgs) && i <= start+gapScanMessages; i++ {
		if msgs[i].Timestamp.Sub(msgs[i-1].Timestamp) >= sittingGap {
			start = i
			break
		}
	}
	return msgs[start:]
}
