// Package parser converts exported chat transcripts (loosely structured,
// timestamped text logs) into an ordered sequence of structured message
// records. It recognizes the common WhatsApp export layouts (bracketed and
// unbracketed timestamps, 12- and 24-hour clocks, US and European date
// order), folds continuation lines into multi-line messages, and tags
// system notifications.
//
// Parsing is a pure transformation: no I/O, no shared state, safe to run
// concurrently for independent inputs.
package parser

import (
	"errors"
	"strings"
	"time"
)

// Message is a single finalized transcript entry. Messages are emitted in
// input order and never mutated after finalization.
type Message struct {
	Timestamp time.Time
	Sender    string // empty for system notifications
	Text      string // continuation lines joined by newlines
	IsSystem  bool
}

// Transcript is the parser's output: the ordered message sequence plus the
// metadata reduced from it. It lives for one analysis request and is handed
// to collaborators as a read-only value.
type Transcript struct {
	Messages []Message
	Summary  Summary
}

// ErrUnrecognizedFormat is returned when non-blank input contains no line
// matching any known header layout. A formatting mismatch is surfaced
// rather than silently returning an empty transcript, so callers can tell
// it apart from a genuinely empty chat.
var ErrUnrecognizedFormat = errors.New("no recognized chat format in input")

// Parse converts raw transcript text into a Transcript.
//
// Blank input yields an empty transcript and no error. Non-blank input from
// which no message can be extracted yields ErrUnrecognizedFormat.
func Parse(content string) (*Transcript, error) {
	lines := strings.Split(normalize(content), "\n")
	order := sampleOrder(lines)

	var msgs []Message

	// The in-progress message is a single-owned accumulator: opened by a
	// header line, grown by continuation lines, finalized on the next
	// header or at end of input.
	var cur *Message
	var curLines []string

	finalize := func() {
		if cur == nil {
			return
		}
		// Blank lines are preserved mid-message but trimmed from the tail.
		for len(curLines) > 0 && curLines[len(curLines)-1] == "" {
			curLines = curLines[:len(curLines)-1]
		}
		cur.Text = strings.Join(curLines, "\n")
		msgs = append(msgs, *cur)
		cur, curLines = nil, nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if h, ok := matchHeader(line); ok {
			ts, sender, text, isSystem, err := decodeHeader(h, order)
			if err == nil {
				finalize()
				cur = &Message{Timestamp: ts, Sender: sender, IsSystem: isSystem}
				curLines = []string{text}
				continue
			}
			// Header-shaped but with impossible date/time values: a message
			// body that merely resembled a header. Treat as continuation.
		}

		if cur == nil {
			continue // export preamble before the first valid header
		}
		curLines = append(curLines, line)
	}
	finalize()

	if len(msgs) == 0 {
		if strings.TrimSpace(content) == "" {
			return &Transcript{}, nil
		}
		return nil, ErrUnrecognizedFormat
	}

	return &Transcript{Messages: msgs, Summary: Summarize(msgs)}, nil
}

// sampleOrder decides the transcript-wide day/month convention from the
// first line that matches any header family.
func sampleOrder(lines []string) dateOrder {
	for _, raw := range lines {
		if h, ok := matchHeader(strings.TrimSpace(raw)); ok {
			return detectOrder(h)
		}
	}
	return orderDayFirst
}

// normalize folds the invisible characters WhatsApp sprinkles into exports:
// narrow and regular no-break spaces around the meridiem, left-to-right
// marks before system lines, and carriage returns.
func normalize(content string) string {
	r := strings.NewReplacer(" ", " ", " ", " ", "‎", "", "\r", "")
	return r.Replace(content)
}
