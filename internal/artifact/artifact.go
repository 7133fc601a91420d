// Package artifact keeps destination directories free of stale partial
// and sidecar files left behind by interrupted downloads, and decides
// when an existing file lets a download be skipped entirely.
package artifact

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Partial and sidecar markers used by the primary engine.
const (
	PartialSuffix = ".part"
	SidecarSuffix = ".ytdl"
)

// Manager derives artifact names for final paths and removes leftovers.
// Every filesystem failure is logged and swallowed: cleanup must never
// abort an acquisition.
type Manager struct{}

// New returns a Manager.
func New() *Manager {
	return &Manager{}
}

// PartialCandidates returns the conventional partial and sidecar paths
// for a final path: the ".part" and ".ytdl" suffix variants plus the
// truncated-extension ".part" variant. Pure computation, no filesystem
// access.
func (m *Manager) PartialCandidates(finalPath string) []string {
	ext := filepath.Ext(finalPath)
	stem := strings.TrimSuffix(finalPath, ext)
	return []string{
		finalPath + PartialSuffix,
		finalPath + SidecarSuffix,
		stem + PartialSuffix,
	}
}

// ShouldSkip reports whether finalPath is already fully downloaded. A
// partial candidate next to an existing final file means an interrupted
// run that must resume, not skip. Skipping triggers opportunistic
// cleanup of stray artifacts around the final file.
func (m *Manager) ShouldSkip(finalPath string) bool {
	if !exists(finalPath) {
		return false
	}
	for _, candidate := range m.PartialCandidates(finalPath) {
		if exists(candidate) {
			log.Printf("found partial files, will resume download file=%s", finalPath)
			return false
		}
	}
	log.Printf("file already exists, skipping file=%s", finalPath)
	m.cleanupArtifacts(finalPath)
	return true
}

// Sweep removes leftovers in dir whose base file already exists: ".ytdl"
// sidecars and any file carrying a ".part" marker in its name. Files
// whose base file is absent may belong to an in-progress or orphaned
// download and are left untouched. Non-recursive.
func (m *Manager) Sweep(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("FAIL sweep dir=%s err=%v", dir, err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()

		if strings.HasSuffix(name, SidecarSuffix) {
			base := strings.TrimSuffix(name, SidecarSuffix)
			if exists(filepath.Join(dir, base)) {
				m.remove(filepath.Join(dir, name))
			}
			continue
		}

		if idx := strings.Index(name, PartialSuffix); idx > 0 {
			base := name[:idx]
			if exists(filepath.Join(dir, base)) {
				m.remove(filepath.Join(dir, name))
			}
		}
	}
}

// cleanupArtifacts removes same-prefix ".part" strays and the sidecar
// file next to an already-complete final file. Reclaims disk space
// without ever touching the final file itself.
func (m *Manager) cleanupArtifacts(finalPath string) {
	dir := filepath.Dir(finalPath)
	finalName := filepath.Base(finalPath)
	prefix := finalName + PartialSuffix

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("FAIL artifact cleanup dir=%s err=%v", dir, err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == finalName {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			m.remove(filepath.Join(dir, name))
		}
	}

	m.remove(finalPath + SidecarSuffix)
}

// remove deletes path if it exists. Best-effort: failures are logged,
// never raised.
func (m *Manager) remove(path string) {
	if !exists(path) {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove artifact path=%s err=%v", path, err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
