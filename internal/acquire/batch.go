package acquire

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vidgrab/vidgrab/internal/model"
)

// TitlesFileName is the per-host summary written after a clean run.
const TitlesFileName = "titles.txt"

// Batch runs a list of URLs through the orchestrator sequentially and
// writes per-host title summaries for hosts with a clean record.
type Batch struct {
	orchestrator *Orchestrator
	baseDir      string
}

// NewBatch returns a Batch saving under baseDir.
func NewBatch(orchestrator *Orchestrator, baseDir string) *Batch {
	return &Batch{orchestrator: orchestrator, baseDir: baseDir}
}

// Run processes every URL in order and returns the per-host statistics
// of the run. Failures are recorded, logged, and skipped past.
func (b *Batch) Run(ctx context.Context, urls []string) model.DomainStats {
	runID := uuid.NewString()
	log.Printf("START batch run=%s urls=%d", runID, len(urls))

	stats := model.DomainStats{}
	stems := make(map[string][]string)
	var hostOrder []string

	for _, rawURL := range urls {
		rawURL = strings.TrimSpace(rawURL)
		if rawURL == "" {
			continue
		}
		outcome := b.orchestrator.Acquire(ctx, rawURL, b.baseDir, stats)
		if outcome.Host == "" {
			continue
		}
		if _, seen := stems[outcome.Host]; !seen {
			hostOrder = append(hostOrder, outcome.Host)
			stems[outcome.Host] = nil
		}
		if outcome.Saved() {
			stems[outcome.Host] = append(stems[outcome.Host], stem(outcome.SavedPath))
		}
	}

	b.writeSummaries(hostOrder, stems, stats)
	log.Printf("DONE batch run=%s", runID)
	return stats
}

// writeSummaries writes titles.txt into each host directory whose run
// was clean: at least one attempt, zero failures. Existing summaries
// are overwritten.
func (b *Batch) writeSummaries(hostOrder []string, stems map[string][]string, stats model.DomainStats) {
	for _, host := range hostOrder {
		if !stats.Clean(host) {
			log.Printf("skipping titles summary host=%s (run not clean)", host)
			continue
		}
		dir := filepath.Join(b.baseDir, host)
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			log.Printf("FAIL titles summary host=%s err=%v", host, err)
			continue
		}
		content := strings.Join(stems[host], "\n") + "\n"
		path := filepath.Join(dir, TitlesFileName)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			log.Printf("FAIL titles summary host=%s err=%v", host, err)
			continue
		}
		log.Printf("wrote titles summary host=%s titles=%d", host, len(stems[host]))
	}
}

// stem is the saved filename without its extension, the form the
// titles summary records.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
