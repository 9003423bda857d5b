package analyzer

import (
	"strings"
	"testing"
	"time"

	"github.com/chatlens/chatlens/internal/parser"
)

func msgAt(t time.Time, text string) parser.Message {
	return parser.Message{Timestamp: t, Sender: "A", Text: text}
}

func TestWindowMessages_UnderCapUnchanged(t *testing.T) {
	base := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	msgs := []parser.Message{
		msgAt(base, "one"),
		msgAt(base.Add(time.Minute), "two"),
	}
	got := WindowMessages(msgs, MaxPromptChars)
	if len(got) != 2 {
		t.Fatalf("expected all messages kept, got %d", len(got))
	}
}

func TestWindowMessages_KeepsMostRecent(t *testing.T) {
	base := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	long := strings.Repeat("x", 200)
	var msgs []parser.Message
	for i := 0; i < 50; i++ {
		msgs = append(msgs, msgAt(base.Add(time.Duration(i)*time.Minute), long))
	}

	got := WindowMessages(msgs, 2000)
	if len(got) == 0 || len(got) >= 50 {
		t.Fatalf("expected a strict suffix, got %d messages", len(got))
	}
	if !got[len(got)-1].Timestamp.Equal(msgs[49].Timestamp) {
		t.Error("window must end at the most recent message")
	}
}

func TestWindowMessages_StartsAfterLongGap(t *testing.T) {
	base := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	long := strings.Repeat("x", 200)
	var msgs []parser.Message
	for i := 0; i < 30; i++ {
		msgs = append(msgs, msgAt(base.Add(time.Duration(i)*time.Minute), long))
	}
	// A new sitting starts the next day.
	next := base.Add(24 * time.Hour)
	for i := 0; i < 10; i++ {
		msgs = append(msgs, msgAt(next.Add(time.Duration(i)*time.Minute), long))
	}

	// Budget covers roughly 14 messages, so the raw cut lands shortly
	// before the gap; the window should snap to the sitting boundary.
	got := WindowMessages(msgs, 3200)
	if len(got) != 10 {
		t.Fatalf("expected the last sitting (10 messages), got %d", len(got))
	}
	if !got[0].Timestamp.Equal(next) {
		t.Errorf("window starts at %v, want %v", got[0].Timestamp, next)
	}
}

func TestWindowMessages_SingleOversizedMessage(t *testing.T) {
	msgs := []parser.Message{msgAt(time.Now(), strings.Repeat("x", 5000))}
	got := WindowMessages(msgs, 1000)
	if len(got) != 1 {
		t.Fatalf("expected the oversized message kept, got %d", len(got))
	}
}
