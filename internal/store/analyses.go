package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisRecord is one row of analysis history. It marshals directly into
// the history endpoint's response.
type AnalysisRecord struct {
	ID             uuid.UUID       `json:"id"`
	Filename       string          `json:"filename"`
	Participants   []string        `json:"participants"`
	MessageCount   int             `json:"message_count"`
	FirstMessageAt *time.Time      `json:"first_message_at"`
	LastMessageAt  *time.Time      `json:"last_message_at"`
	Language       string          `json:"language,omitempty"`
	Analysis       json.RawMessage `json:"analysis"` // report JSON as returned to the caller
	CreatedAt      time.Time       `json:"created_at"`
}

// SaveAnalysis writes one analysis run to the analyses table.
func (s *Store) SaveAnalysis(ctx context.Context, rec AnalysisRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analyses (id, filename, participants, message_count, first_message_at, last_message_at, language, analysis, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
		rec.ID, rec.Filename, rec.Participants, rec.MessageCount,
		rec.FirstMessageAt, rec.LastMessageAt, rec.Language, rec.Analysis,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// ListRecentAnalyses returns the newest analysis rows, most recent first.
func (s *Store) ListRecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, filename, participants, message_count, first_message_at, last_message_at, language, analysis, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var recs []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		if err := rows.Scan(
			&rec.ID, &rec.Filename, &rec.Participants, &rec.MessageCount,
			&rec.FirstMessageAt, &rec.LastMessageAt, &rec.Language, &rec.Analysis, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return recs, nil
}
