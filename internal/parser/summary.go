package parser

import (
	"fmt"
	"strings"
	"time"
)

// Summary is the metadata reduced from a finalized message sequence.
type Summary struct {
	// Participants holds distinct senders of non-system messages, in order
	// of first appearance.
	Participants []string
	// MessageCount counts non-system messages only. System notifications
	// carry valid timestamps and feed the date range, but are neither
	// participants nor counted messages.
	MessageCount int
	// First and Last span all messages including system notifications.
	// Both are zero when the transcript is empty.
	First time.Time
	Last  time.Time
}

// Summarize reduces a message sequence to its Summary. It is a pure
// function: summarizing the same sequence twice yields identical metadata.
func Summarize(msgs []Message) Summary {
	var s Summary
	seen := make(map[string]bool)
	for _, m := range msgs {
		if !m.IsSystem {
			s.MessageCount++
			if !seen[m.Sender] {
				seen[m.Sender] = true
				s.Participants = append(s.Participants, m.Sender)
			}
		}
		if s.First.IsZero() || m.Timestamp.Before(s.First) {
			s.First = m.Timestamp
		}
		if s.Last.IsZero() || m.Timestamp.After(s.Last) {
			s.Last = m.Timestamp
		}
	}
	return s
}

// ChatText flattens the transcript into the chronological text block handed
// to the downstream analysis service, one "date - sender: text" line per
// message.
func (t *Transcript) ChatText(includeSystem bool) string {
	var sb strings.Builder
	for _, m := range t.Messages {
		if m.IsSystem {
			if includeSystem {
				fmt.Fprintf(&sb, "%s - %s\n", m.Timestamp.Format("01/02/06, 03:04 PM"), m.Text)
			}
			continue
		}
		fmt.Fprintf(&sb, "%s - %s: %s\n", m.Timestamp.Format("01/02/06, 03:04 PM"), m.Sender, m.Text)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
