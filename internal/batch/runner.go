// Package batch analyzes a directory of exported chat files in one run,
// with resumable state so an interrupted run picks up where it stopped.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chatlens/chatlens/internal/processor"
)

// Config holds the batch command configuration.
type Config struct {
	Dir       string
	DryRun    bool   // parse only, no LLM calls
	StatePath string // empty selects the default location
}

// Runner walks a directory of .txt exports and feeds each through the
// pipeline.
type Runner struct {
	cfg    Config
	proc   *processor.Processor
	logger *slog.Logger
}

func NewRunner(cfg Config, proc *processor.Processor, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, proc: proc, logger: logger}
}

// Run executes the batch over every unprocessed .txt file in the directory.
func (r *Runner) Run(ctx context.Context) error {
	state, err := LoadState(r.cfg.StatePath)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	files, err := discoverFiles(r.cfg.Dir)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}

	var pending []string
	for _, path := range files {
		if !state.IsProcessed(path) {
			pending = append(pending, path)
		}
	}
	state.FilesRemaining = len(pending)

	r.logger.Info("batch starting",
		"dir", r.cfg.Dir,
		"total", len(files),
		"pending", len(pending),
		"dry_run", r.cfg.DryRun,
	)

	for _, path := range pending {
		select {
		case <-ctx.Done():
			r.logger.Info("batch interrupted, saving state")
			_ = state.Save()
			return ctx.Err()
		default:
		}

		if err := r.processFile(ctx, path); err != nil {
			r.logger.Error("file failed", "path", path, "error", err)
			state.AddError(fmt.Sprintf("%s: %v", path, err))
			continue
		}

		state.MarkProcessed(path)
		state.AnalysesDone++
		state.FilesRemaining--
		if err := state.Save(); err != nil {
			r.logger.Warn("failed to save state", "error", err)
		}
	}

	r.logger.Info("batch complete",
		"analyzed", state.AnalysesDone,
		"errors", len(state.Errors),
	)
	return state.Save()
}

func (r *Runner) processFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	if r.cfg.DryRun {
		res, err := r.proc.Parse(string(data))
		if err != nil {
			return err
		}
		r.logger.Info("parsed file",
			"path", path,
			"messages", res.Transcript.Summary.MessageCount,
			"participants", len(res.Transcript.Summary.Participants),
			"language", res.Language,
		)
		return nil
	}

	res, err := r.proc.Analyze(ctx, filepath.Base(path), string(data))
	if err != nil {
		return err
	}
	r.logger.Info("analyzed file",
		"path", path,
		"id", res.ID,
		"messages", res.Transcript.Summary.MessageCount,
		"sentiment", res.Analysis.OverallSentiment.Sentiment,
	)
	return nil
}

// discoverFiles lists the .txt files in dir, sorted for a stable order.
func discoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
