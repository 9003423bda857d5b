package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chatlens/chatlens/internal/parser"
	"github.com/chatlens/chatlens/internal/processor"
)

type dateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type metadata struct {
	Participants []string  `json:"participants"`
	MessageCount int       `json:"message_count"`
	DateRange    dateRange `json:"date_range"`
	Language     string    `json:"language,omitempty"`
}

type messageDTO struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    *string   `json:"sender"` // null for system notifications
	Content   string    `json:"content"`
	IsSystem  bool      `json:"is_system"`
}

func buildMetadata(res *processor.Result) metadata {
	sum := res.Transcript.Summary

	m := metadata{
		Participants: sum.Participants,
		MessageCount: sum.MessageCount,
		Language:     res.Language,
	}
	if m.Participants == nil {
		m.Participants = []string{}
	}
	if !sum.First.IsZero() {
		first, last := sum.First, sum.Last
		m.DateRange = dateRange{Start: &first, End: &last}
	}
	return m
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	filename, content, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	res, err := s.proc.Analyze(r.Context(), filename, content)
	if err != nil {
		writeProcessError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"id":       res.ID,
		"metadata": buildMetadata(res),
		"analysis": res.Analysis,
	})
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	_, content, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	res, err := s.proc.Parse(content)
	if err != nil {
		writeProcessError(w, err)
		return
	}

	msgs := make([]messageDTO, 0, len(res.Transcript.Messages))
	for _, m := range res.Transcript.Messages {
		dto := messageDTO{
			Timestamp: m.Timestamp,
			Content:   m.Text,
			IsSystem:  m.IsSystem,
		}
		if !m.IsSystem {
			sender := m.Sender
			dto.Sender = &sender
		}
		msgs = append(msgs, dto)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"metadata": buildMetadata(res),
		"messages": msgs,
		"text":     res.Transcript.ChatText(true),
	})
}

func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	recs, err := s.db.ListRecentAnalyses(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list analyses", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load analysis history.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analyses": recs,
	})
}

func writeProcessError(w http.ResponseWriter, err error) {
	if errors.Is(err, parser.ErrUnrecognizedFormat) || errors.Is(err, processor.ErrNoUserMessages) {
		writeError(w, http.StatusBadRequest, "No valid messages found in the file. Please ensure this is a supported chat export.")
		return
	}
	slog.Error("analysis request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Analysis failed. Please try again.")
}

// readUpload pulls the chat_file part out of a multipart request and
// returns its decoded text. On failure it writes the error response and
// returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (filename, content string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("chat_file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, s.tooLargeMsg())
			return "", "", false
		}
		writeError(w, http.StatusBadRequest, "No file uploaded. Send the transcript as the chat_file field.")
		return "", "", false
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".txt") {
		writeError(w, http.StatusBadRequest, "Only .txt files are supported.")
		return "", "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, s.tooLargeMsg())
			return "", "", false
		}
		writeError(w, http.StatusInternalServerError, "Failed to read uploaded file.")
		return "", "", false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "File is empty.")
		return "", "", false
	}

	return header.Filename, decodeText(data), true
}

func (s *Server) tooLargeMsg() string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", s.maxUpload>>20)
}

// decodeText interprets the upload as UTF-8, falling back to Latin-1 for
// exports saved with a legacy encoding.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
