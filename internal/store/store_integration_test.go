//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_SaveAndListAnalyses(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := time.Date(2025, 2, 20, 14, 25, 0, 0, time.UTC)
	last := time.Date(2025, 2, 20, 18, 40, 0, 0, time.UTC)
	rec := AnalysisRecord{
		ID:             uuid.New(),
		Filename:       "integration-test-" + uuid.New().String()[:8] + ".txt",
		Participants:   []string{"Sarah", "Mike"},
		MessageCount:   42,
		FirstMessageAt: &first,
		LastMessageAt:  &last,
		Language:       "en",
		Analysis:       []byte(`{"summary":"integration run"}`),
	}

	if err := s.SaveAnalysis(ctx, rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	recs, err := s.ListRecentAnalyses(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	found := false
	for _, r := range recs {
		if r.ID == rec.ID {
			found = true
			if r.MessageCount != 42 || len(r.Participants) != 2 {
				t.Errorf("unexpected row: %+v", r)
			}
		}
	}
	if !found {
		t.Error("saved analysis not returned by ListRecentAnalyses")
	}
}
