package capture

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// skipExtensions are in-progress or sidecar files the watcher must not
// report as finished downloads.
var skipExtensions = []string{".part", ".ytdl", ".crdownload", ".tmp"}

// stablePollInterval is the size-polling cadence for candidate files.
// Variable for tests.
var stablePollInterval = 2 * time.Second

// stableTicks is how many consecutive polls a candidate's size must
// hold non-zero and unchanged before it counts as settled. One quiet
// interval is not enough: large downloads routinely stall mid-write.
const stableTicks = 3

// WatchForMediaFile watches dir until ctx is done and returns the path
// of the first newly created file whose size settles. This is the
// fallback signal for captures where the browser never surfaces a
// download-begin event. Files whose base name matches ignore are never
// reported; nil means no filter. Empty result means nothing settled
// before the deadline.
func WatchForMediaFile(ctx context.Context, dir string, ignore func(name string) bool) string {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("FAIL download watcher err=%v", err)
		return ""
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		log.Printf("FAIL download watcher dir=%s err=%v", dir, err)
		return ""
	}

	type candidate struct {
		size   int64 // size at last poll, -1 until first poll
		stable int   // consecutive quiet polls at that size
	}
	candidates := make(map[string]*candidate)
	ticker := time.NewTicker(stablePollInterval)
	defer ticker.Stop()

	skip := func(path string) bool {
		if isInProgressArtifact(path) {
			return true
		}
		return ignore != nil && ignore(filepath.Base(path))
	}

	for {
		select {
		case <-ctx.Done():
			return ""

		case event, ok := <-watcher.Events:
			if !ok {
				return ""
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if skip(event.Name) {
				continue
			}
			if _, tracked := candidates[event.Name]; !tracked {
				candidates[event.Name] = &candidate{size: -1}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return ""
			}
			log.Printf("download watcher error err=%v", err)

		case <-ticker.C:
			for path, c := range candidates {
				// The filter is re-applied here: a tracked file may
				// only later be identified as a browser-owned download.
				if skip(path) {
					delete(candidates, path)
					continue
				}
				info, err := os.Stat(path)
				if err != nil || info.IsDir() {
					delete(candidates, path)
					continue
				}
				if info.Size() > 0 && info.Size() == c.size {
					c.stable++
					if c.stable >= stableTicks {
						return path
					}
					continue
				}
				c.size = info.Size()
				c.stable = 0
			}
		}
	}
}

// isInProgressArtifact reports whether name is an in-progress marker
// rather than a finished download.
func isInProgressArtifact(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
