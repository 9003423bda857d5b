package processor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/chatlens/chatlens/internal/analyzer"
	"github.com/chatlens/chatlens/internal/anthropic"
	"github.com/chatlens/chatlens/internal/parser"
)

const sampleReport = `{
	"summary": "Two friends made dinner plans.",
	"overall_sentiment": {"sentiment": "positive", "confidence": 0.9, "explanation": "Friendly back-and-forth."},
	"participant_sentiments": [],
	"key_topics": ["dinner"],
	"actionables": [],
	"conversation_insights": {"tone": "casual", "engagement_level": "high", "key_points": []}
}`

const sampleChat = `2/20/25, 2:25 PM - Sarah: Want to grab dinner tonight? I was thinking about that new place downtown.
2/20/25, 2:26 PM - Mike: Sure, how about seven? I should be done with work by then and the traffic will have calmed down.
2/20/25, 2:27 PM - Sarah: Works for me, see you then. Looking forward to it after such a long week.`

func newTestProcessor(t *testing.T, reply string) *Processor {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"content": []map[string]any{{"type": "text", "text": reply}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	client := anthropic.NewClient("test-key", "test-model")
	client.SetTestTransport(srv.URL)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(analyzer.New(client, logger), nil, nil, nil, logger)
}

func TestAnalyze_Success(t *testing.T) {
	p := newTestProcessor(t, sampleReport)

	res, err := p.Analyze(context.Background(), "dinner.txt", sampleChat)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.ID == uuid.Nil {
		t.Error("expected a generated analysis ID")
	}
	if res.Analysis == nil || res.Analysis.Summary != "Two friends made dinner plans." {
		t.Errorf("unexpected analysis: %+v", res.Analysis)
	}
	if res.Transcript.Summary.MessageCount != 3 {
		t.Errorf("MessageCount = %d, want 3", res.Transcript.Summary.MessageCount)
	}
	if res.Language != "en" {
		t.Errorf("Language = %q, want en", res.Language)
	}
}

func TestAnalyze_SystemOnlyTranscript(t *testing.T) {
	p := newTestProcessor(t, sampleReport)

	content := "2/20/25, 2:25 PM - Messages and calls are end-to-end encrypted.\n" +
		"2/20/25, 2:26 PM - Sarah added Mike"
	_, err := p.Analyze(context.Background(), "empty.txt", content)
	if !errors.Is(err, ErrNoUserMessages) {
		t.Fatalf("err = %v, want ErrNoUserMessages", err)
	}
}

func TestAnalyze_UnrecognizedInput(t *testing.T) {
	p := newTestProcessor(t, sampleReport)

	_, err := p.Analyze(context.Background(), "notes.txt", "just some notes\nwithout any timestamps")
	if !errors.Is(err, parser.ErrUnrecognizedFormat) {
		t.Fatalf("err = %v, want ErrUnrecognizedFormat", err)
	}
}

func TestParse_NoLLMNeeded(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(nil, nil, nil, nil, logger)

	res, err := p.Parse(sampleChat)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Transcript.Messages) != 3 {
		t.Errorf("got %d messages, want 3", len(res.Transcript.Messages))
	}
	if res.Analysis != nil {
		t.Error("Parse should not produce an analysis")
	}
}

func TestDetectLanguage(t *testing.T) {
	text := "Hello there, how are you doing today? I was thinking about the plans we made for the weekend."
	if got := DetectLanguage(text); got != "en" {
		t.Errorf("DetectLanguage = %q, want en", got)
	}
	if got := DetectLanguage(""); got != "" {
		t.Errorf("DetectLanguage(empty) = %q, want empty", got)
	}
}
