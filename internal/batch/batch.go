// Package batch applies the tagger to every JSON file in one directory.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"idstamp/internal/tagger"
)

// StampFunc is the per-file operation a run applies. Production callers use
// tagger.Stamp; tests may substitute their own.
type StampFunc func(inputPath string) (string, error)

// Result records the outcome for one candidate file.
type Result struct {
	Input  string
	Output string
	Err    error
}

// Summary aggregates one directory run.
type Summary struct {
	RunID    string
	Dir      string
	Results  []Result
	Stamped  int
	Failed   int
	Duration time.Duration
}

// Empty reports whether the directory held no candidate files.
func (s Summary) Empty() bool {
	return len(s.Results) == 0
}

// Run stamps every regular file in dir whose name ends in .json
// (case-insensitive), one at a time in listing order. A failure on one file
// is recorded in the summary and never stops the remaining files. Run errors
// only when the directory itself cannot be listed.
func Run(dir string) (Summary, error) {
	return RunWith(dir, tagger.Stamp)
}

// RunWith is Run with an explicit per-file operation.
func RunWith(dir string, stamp StampFunc) (Summary, error) {
	start := time.Now()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("list directory %s: %w", dir, err)
	}

	summary := Summary{
		RunID: uuid.NewString(),
		Dir:   dir,
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		output, err := stamp(path)
		if err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, Result{Input: path, Err: err})
			continue
		}
		summary.Stamped++
		summary.Results = append(summary.Results, Result{Input: path, Output: output})
	}

	summary.Duration = time.Since(start)
	return summary, nil
}
