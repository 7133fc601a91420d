package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "movie.mp4", "movie.mp4"},
		{"slashes", "a/b\\c.mp4", "a-b-c.mp4"},
		{"whitespace", "  trimmed.mkv  ", "trimmed.mkv"},
		{"empty", "", fallbackFilename},
		{"dot", ".", fallbackFilename},
		{"dotdot", "..", fallbackFilename},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFilename(tc.in); got != tc.want {
				t.Errorf("SanitizeFilename(%q) = %q, expected %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsInProgressArtifact(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"movie.mp4.part", true},
		{"movie.mp4.ytdl", true},
		{"movie.mp4.crdownload", true},
		{"movie.tmp", true},
		{"MOVIE.MP4.PART", true},
		{"movie.mp4", false},
		{"partial.mkv", false},
	}
	for _, tc := range cases {
		if got := isInProgressArtifact(filepath.Join("dir", tc.name)); got != tc.want {
			t.Errorf("isInProgressArtifact(%q) = %v, expected %v", tc.name, got, tc.want)
		}
	}
}

func TestWatchForMediaFile_ReturnsSettledFile(t *testing.T) {
	orig := stablePollInterval
	stablePollInterval = 20 * time.Millisecond
	defer func() { stablePollInterval = orig }()

	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan string, 1)
	go func() { done <- WatchForMediaFile(ctx, dir, nil) }()

	// Let the watcher attach before producing events.
	time.Sleep(50 * time.Millisecond)
	want := filepath.Join(dir, "movie.mp4")
	if err := os.WriteFile(filepath.Join(dir, "movie.mp4.part"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}
	if err := os.WriteFile(want, []byte("media bytes"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}

	got := <-done
	if got != want {
		t.Errorf("WatchForMediaFile = %q, expected %q", got, want)
	}
}

func TestWatchForMediaFile_TimesOutEmpty(t *testing.T) {
	orig := stablePollInterval
	stablePollInterval = 20 * time.Millisecond
	defer func() { stablePollInterval = orig }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if got := WatchForMediaFile(ctx, t.TempDir(), nil); got != "" {
		t.Errorf("WatchForMediaFile = %q, expected empty on timeout", got)
	}
}

func TestWatchForMediaFile_StalledWriteNotReported(t *testing.T) {
	orig := stablePollInterval
	stablePollInterval = 30 * time.Millisecond
	defer func() { stablePollInterval = orig }()

	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan string, 1)
	go func() { done <- WatchForMediaFile(ctx, dir, nil) }()
	time.Sleep(50 * time.Millisecond)

	// A download that writes, stalls for more than one poll interval,
	// then resumes. The stall must not be mistaken for completion.
	path := filepath.Join(dir, "movie.mp4")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.WriteString("first half of the file"); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	select {
	case got := <-done:
		t.Fatalf("watcher reported %q while the download was still writing", got)
	default:
	}

	if _, err := f.WriteString(" and the second half"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := <-done
	if got != path {
		t.Fatalf("WatchForMediaFile = %q, expected %q", got, path)
	}
	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if want := int64(len("first half of the file and the second half")); info.Size() != want {
		t.Errorf("reported file size = %d, expected the full %d bytes", info.Size(), want)
	}
}

func TestWatchForMediaFile_IgnoredNamesNeverReported(t *testing.T) {
	orig := stablePollInterval
	stablePollInterval = 20 * time.Millisecond
	defer func() { stablePollInterval = orig }()

	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	guid := "8b6c2f47-5f0e-4c13-9d6a-2a6f0c3f9b21"
	ignore := func(name string) bool { return name == guid }

	done := make(chan string, 1)
	go func() { done <- WatchForMediaFile(ctx, dir, ignore) }()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, guid), []byte("browser-owned download"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := <-done; got != "" {
		t.Errorf("WatchForMediaFile = %q, expected browser-owned file to be ignored", got)
	}
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(nil, nil, true)
	if len(e.playSelectors) == 0 || len(e.downloadSelectors) == 0 {
		t.Fatal("expected default selector lists to apply")
	}
	e = NewEngine([]string{".custom"}, nil, true)
	if e.playSelectors[0] != ".custom" {
		t.Errorf("play selectors = %v, expected custom list to win", e.playSelectors)
	}
}

func TestIsManifestURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/master.m3u8?tok=1", true},
		{"https://cdn.example.com/stream.MPD", true},
		{"https://api.example.com/play?format=m3u8-aapl", true},
		{"https://cdn.example.com/movie.mp4", false},
	}
	for _, tc := range cases {
		if got := isManifestURL(tc.url); got != tc.want {
			t.Errorf("isManifestURL(%q) = %v, expected %v", tc.url, got, tc.want)
		}
	}
}
