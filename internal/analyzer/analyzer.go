package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/chatlens/chatlens/internal/anthropic"
)

const (
	analysisMaxTokens     = 4000
	analysisTemperature   = 0.3
	quickSummaryMaxTokens = 300
	quickSummaryMaxChars  = 3000
)

type Analyzer struct {
	llm    *anthropic.Client
	logger *slog.Logger
}

func New(llm *anthropic.Client, logger *slog.Logger) *Analyzer {
	return &Analyzer{llm: llm, logger: logger}
}

// Analyze sends the rendered conversation to the model and decodes the
// structured report.
func (a *Analyzer) Analyze(ctx context.Context, chatText string, participants []string) (*Analysis, error) {
	prompt := fmt.Sprintf(analysisUserPrompt, strings.Join(participants, ", "), chatText)

	a.logger.Info("analyzing conversation",
		"participants", len(participants),
		"chat_len", len(chatText),
	)

	raw, err := a.llm.Complete(ctx, systemPrompt, []anthropic.Message{
		{Role: "user", Content: prompt},
	}, analysisMaxTokens, analysisTemperature)
	if err != nil {
		return nil, fmt.Errorf("llm analysis: %w", err)
	}

	var res Analysis
	if err := json.Unmarshal(extractJSON(raw), &res); err != nil {
		a.logger.Error("failed to parse analysis response",
			"error", err,
			"raw", raw,
		)
		return nil, fmt.Errorf("parse analysis: %w", err)
	}

	a.logger.Info("analysis complete",
		"topics", len(res.KeyTopics),
		"actionables", len(res.Actionables),
		"sentiment", res.OverallSentiment.Sentiment,
	)

	return &res, nil
}

// QuickSummary produces a 2-3 sentence summary without a full analysis.
// Input is capped; only the head of the conversation is considered.
func (a *Analyzer) QuickSummary(ctx context.Context, chatText string) (string, error) {
	chatText = truncate(chatText, quickSummaryMaxChars)
	prompt := fmt.Sprintf(quickSummaryPrompt, chatText)

	raw, err := a.llm.Complete(ctx, "", []anthropic.Message{
		{Role: "user", Content: prompt},
	}, quickSummaryMaxTokens, 0)
	if err != nil {
		return "", fmt.Errorf("llm summary: %w", err)
	}
	return strings.TrimSpace(raw), nil
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// extractJSON recovers the JSON object from a model reply that may wrap it
// in prose or a markdown code fence.
func extractJSON(raw string) []byte {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
		return []byte(raw)
	}
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return []byte(m[1])
	}
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			return []byte(raw[i : j+1])
		}
	}
	return []byte(raw)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
