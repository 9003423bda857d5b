// Package processor runs the analysis pipeline: parse a raw transcript,
// detect its language, window it to the prompt budget, analyze it with the
// LLM, then fan the finished report out to the optional collaborators
// (history table, event bus, Slack digest).
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chatlens/chatlens/internal/analyzer"
	"github.com/chatlens/chatlens/internal/events"
	"github.com/chatlens/chatlens/internal/notify"
	"github.com/chatlens/chatlens/internal/parser"
	"github.com/chatlens/chatlens/internal/store"
)

// ErrNoUserMessages is returned when a transcript parses but contains only
// system notifications, leaving nothing to analyze.
var ErrNoUserMessages = errors.New("transcript contains no user messages")

// Processor owns one analysis pipeline. Store, events, and notify are
// optional: a nil collaborator is skipped.
type Processor struct {
	llm    *analyzer.Analyzer
	store  *store.Store
	events *events.Publisher
	notify *notify.Notifier
	logger *slog.Logger
}

func New(llm *analyzer.Analyzer, st *store.Store, ev *events.Publisher, nt *notify.Notifier, logger *slog.Logger) *Processor {
	return &Processor{llm: llm, store: st, events: ev, notify: nt, logger: logger}
}

// Result is the outcome of one pipeline run.
type Result struct {
	ID         uuid.UUID
	Transcript *parser.Transcript
	Language   string // ISO 639-1 code, empty when detection is unreliable
	Analysis   *analyzer.Analysis
}

// Analyze runs the full pipeline for one uploaded transcript.
func (p *Processor) Analyze(ctx context.Context, filename, content string) (*Result, error) {
	res, err := p.Parse(content)
	if err != nil {
		return nil, err
	}
	if res.Transcript.Summary.MessageCount == 0 {
		return nil, ErrNoUserMessages
	}

	windowed := analyzer.WindowMessages(res.Transcript.Messages, analyzer.MaxPromptChars)
	chatText := (&parser.Transcript{Messages: windowed}).ChatText(false)

	a, err := p.llm.Analyze(ctx, chatText, res.Transcript.Summary.Participants)
	if err != nil {
		return nil, err
	}

	res.ID = uuid.New()
	res.Analysis = a
	p.record(ctx, filename, res)
	return res, nil
}

// Parse runs the local half of the pipeline only: no LLM call, nothing
// persisted or published.
func (p *Processor) Parse(content string) (*Result, error) {
	t, err := parser.Parse(content)
	if err != nil {
		return nil, err
	}
	return &Result{
		Transcript: t,
		Language:   DetectLanguage(t.ChatText(false)),
	}, nil
}

// record fans the finished report out to the configured collaborators.
// Failures here are logged, never surfaced: the caller already has the
// report, and history or notification gaps should not fail the request.
func (p *Processor) record(ctx context.Context, filename string, res *Result) {
	sum := res.Transcript.Summary

	if p.store != nil {
		rec := store.AnalysisRecord{
			ID:           res.ID,
			Filename:     filename,
			Participants: sum.Participants,
			MessageCount: sum.MessageCount,
			Language:     res.Language,
		}
		if !sum.First.IsZero() {
			first, last := sum.First, sum.Last
			rec.FirstMessageAt, rec.LastMessageAt = &first, &last
		}
		if raw, err := json.Marshal(res.Analysis); err == nil {
			rec.Analysis = raw
		}
		if err := p.store.SaveAnalysis(ctx, rec); err != nil {
			p.logger.Error("failed to save analysis history", "error", err, "id", res.ID)
		}
	}

	if p.events != nil {
		evt := events.AnalysisCompleted{
			ID:           res.ID.String(),
			Filename:     filename,
			Participants: sum.Participants,
			MessageCount: sum.MessageCount,
			Language:     res.Language,
			Sentiment:    res.Analysis.OverallSentiment.Sentiment,
			Topics:       res.Analysis.KeyTopics,
			CompletedAt:  time.Now().UTC(),
		}
		if err := p.events.Publish(events.SubjectAnalysisCompleted, evt); err != nil {
			p.logger.Error("failed to publish analysis event", "error", err, "id", res.ID)
		}
	}

	if p.notify != nil {
		if err := p.notify.PostAnalysisDigest(ctx, filename, sum, res.Analysis); err != nil {
			p.logger.Error("failed to post slack digest", "error", err, "id", res.ID)
		}
	}
}
