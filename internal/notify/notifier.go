package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chatlens/chatlens/internal/analyzer"
	"github.com/chatlens/chatlens/internal/parser"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// Notifier posts analysis digests to a Slack channel.
type Notifier struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewNotifier(token, channel string, logger *slog.Logger) *Notifier {
	return &Notifier{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostAnalysisDigest posts a short report digest for one analyzed chat.
func (n *Notifier) PostAnalysisDigest(ctx context.Context, filename string, sum parser.Summary, a *analyzer.Analysis) error {
	text := formatDigest(filename, sum, a)

	body, err := json.Marshal(map[string]any{
		"channel": n.channel,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return fmt.Errorf("slack error: %s", slackResp.Error)
	}

	n.logger.Info("posted analysis digest to slack", "ts", slackResp.TS, "filename", filename)
	return nil
}

func formatDigest(filename string, sum parser.Summary, a *analyzer.Analysis) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*Chat:* %s (%d messages, %s)\n", filename, sum.MessageCount, strings.Join(sum.Participants, ", "))
	fmt.Fprintf(&sb, "*Sentiment:* %s (%.2f) - %s\n", a.OverallSentiment.Sentiment, a.OverallSentiment.Confidence, a.OverallSentiment.Explanation)

	if len(a.KeyTopics) > 0 {
		fmt.Fprintf(&sb, "*Topics:* %s\n", strings.Join(a.KeyTopics, ", "))
	}

	if len(a.Actionables) > 0 {
		fmt.Fprintf(&sb, "*Action items: %d*\n", len(a.Actionables))
		for i, item := range a.Actionables {
			fmt.Fprintf(&sb, "%d. %s - %s (%s)\n", i+1, item.Action, item.Assignee, item.Deadline)
		}
	} else {
		sb.WriteString("_No action items surfaced._\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
