package analyzer

// Analysis is the structured report produced from one conversation.
type Analysis struct {
	Summary               string                 `json:"summary"`
	OverallSentiment      Sentiment              `json:"overall_sentiment"`
	ParticipantSentiments []ParticipantSentiment `json:"participant_sentiments"`
	KeyTopics             []string               `json:"key_topics"`
	Actionables           []Actionable           `json:"actionables"`
	Insights              Insights               `json:"conversation_insights"`
}

// Sentiment is an overall mood verdict with a confidence score.
type Sentiment struct {
	Sentiment   string  `json:"sentiment"` // positive | negative | neutral | mixed
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// ParticipantSentiment is the per-person mood verdict.
type ParticipantSentiment struct {
	Participant string `json:"participant"`
	Sentiment   string `json:"sentiment"`
	Explanation string `json:"explanation"`
}

// Actionable is a task, commitment, or follow-up surfaced from the chat.
type Actionable struct {
	Action      string `json:"action"`
	Assignee    string `json:"assignee"`
	Deadline    string `json:"deadline"`
	Priority    string `json:"priority"` // high | medium | low | not specified
	Context     string `json:"context"`
	MentionedAt string `json:"mentioned_at"`
}

// Insights captures tone and engagement observations.
type Insights struct {
	Tone            string   `json:"tone"`             // formal | informal | casual | professional
	EngagementLevel string   `json:"engagement_level"` // high | medium | low
	KeyPoints       []string `json:"key_points"`
}
