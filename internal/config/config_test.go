package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputRoot != DefaultOutputRoot {
		t.Errorf("OutputRoot = %q, expected %q", cfg.OutputRoot, DefaultOutputRoot)
	}
	if cfg.Browser != DefaultBrowser {
		t.Errorf("Browser = %q, expected %q", cfg.Browser, DefaultBrowser)
	}
	if cfg.BrowserWait() != DefaultBrowserWaitSec*time.Second {
		t.Errorf("BrowserWait = %s, expected %ds", cfg.BrowserWait(), DefaultBrowserWaitSec)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
output_root = "archive"
browser = "brave"
browser_profile = "Work"
browser_wait_sec = 60
drm_precheck = true

[selectors]
play = ["video", ".start"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputRoot != "archive" {
		t.Errorf("OutputRoot = %q, expected %q", cfg.OutputRoot, "archive")
	}
	if cfg.Browser != "brave" || cfg.BrowserProfile != "Work" {
		t.Errorf("browser settings = %q/%q, expected brave/Work", cfg.Browser, cfg.BrowserProfile)
	}
	if cfg.BrowserWait() != 60*time.Second {
		t.Errorf("BrowserWait = %s, expected 60s", cfg.BrowserWait())
	}
	if !cfg.DRMPrecheck {
		t.Error("DRMPrecheck should be true")
	}
	if len(cfg.Selectors.Play) != 2 || cfg.Selectors.Play[1] != ".start" {
		t.Errorf("Selectors.Play = %v, expected overridden list", cfg.Selectors.Play)
	}

	// Values the file does not mention keep their defaults.
	if cfg.ManifestWaitSec != DefaultManifestWaitSec {
		t.Errorf("ManifestWaitSec = %d, expected default %d", cfg.ManifestWaitSec, DefaultManifestWaitSec)
	}
	if cfg.ConcurrentFragments != DefaultConcurrentFragments {
		t.Errorf("ConcurrentFragments = %d, expected default %d", cfg.ConcurrentFragments, DefaultConcurrentFragments)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("output_root = ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should reject malformed TOML")
	}
}

func TestResolveLinksFile(t *testing.T) {
	cfg := Default()
	cfg.LinksFile = "links.txt"
	if got := cfg.ResolveLinksFile("/project"); got != filepath.Join("/project", "links.txt") {
		t.Errorf("ResolveLinksFile = %q", got)
	}

	cfg.LinksFile = "/abs/links.txt"
	if got := cfg.ResolveLinksFile("/project"); got != "/abs/links.txt" {
		t.Errorf("ResolveLinksFile = %q, expected absolute path untouched", got)
	}
}
