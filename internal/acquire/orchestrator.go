package acquire

import (
	"context"
	"errors"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vidgrab/vidgrab/internal/artifact"
	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/model"
)

// dirPermissions is the mode for created destination directories.
const dirPermissions = 0o755

// Capturer is the browser fallback: it drives a real browser to either
// collect a file download or observe a manifest request.
type Capturer interface {
	CaptureDownload(ctx context.Context, pageURL, destDir string, timeout time.Duration) string
	CaptureManifest(ctx context.Context, pageURL string, timeout time.Duration) *model.ManifestCapture
}

// Classifier inspects a captured manifest for DRM markers.
type Classifier interface {
	Classify(ctx context.Context, manifestURL string, headers map[string]string) model.Classification
}

// Options carries the orchestrator knobs that come from configuration.
type Options struct {
	BrowserWait  time.Duration
	ManifestWait time.Duration
	Classifier   Classifier
	PreflightDRM bool
}

// Orchestrator acquires one URL at a time: primary engine first,
// browser capture when the engine reports an unsupported URL or fails.
type Orchestrator struct {
	primary   engine.Primary
	capturer  Capturer
	artifacts *artifact.Manager
	opts      Options
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(primary engine.Primary, capturer Capturer, artifacts *artifact.Manager, opts Options) *Orchestrator {
	if opts.BrowserWait <= 0 {
		opts.BrowserWait = 180 * time.Second
	}
	if opts.ManifestWait <= 0 {
		opts.ManifestWait = 45 * time.Second
	}
	return &Orchestrator{primary: primary, capturer: capturer, artifacts: artifacts, opts: opts}
}

// Acquire processes a single URL end to end and records the attempt in
// stats. It never panics out: any failure yields an unsaved Outcome.
func (o *Orchestrator) Acquire(ctx context.Context, rawURL, baseDir string, stats model.DomainStats) (outcome model.Outcome) {
	outcome = model.Outcome{URL: rawURL}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("FAIL acquire url=%s panic=%v", rawURL, r)
			outcome.SavedPath = ""
		}
	}()

	log.Printf("START acquire url=%s", rawURL)

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		log.Printf("invalid URL format url=%s", rawURL)
		return outcome
	}

	target := model.Target{
		URL:  rawURL,
		Host: model.HostOf(parsed),
	}
	target.DestDir = filepath.Join(baseDir, target.Host)
	outcome.Host = target.Host
	if err := os.MkdirAll(target.DestDir, dirPermissions); err != nil {
		log.Printf("FAIL acquire url=%s mkdir err=%v", rawURL, err)
		return outcome
	}

	stats.Attempt(target.Host)
	o.artifacts.Sweep(target.DestDir)

	saved := o.tryPrimary(ctx, target.URL, target.DestDir)
	if saved == "" {
		log.Printf("trying browser capture fallback url=%s", rawURL)
		saved = o.tryBrowser(ctx, target.URL, target.DestDir)
	}

	if saved != "" && fileExists(saved) {
		stats.Succeed(target.Host)
		outcome.SavedPath = saved
		log.Printf("DONE acquire url=%s file=%s", rawURL, saved)
	} else {
		log.Printf("FAIL acquire url=%s", rawURL)
	}
	return outcome
}

// tryPrimary runs the primary engine. Empty result means escalate to
// the browser, whatever the reason.
func (o *Orchestrator) tryPrimary(ctx context.Context, rawURL, destDir string) string {
	expected, err := o.primary.Probe(ctx, rawURL, destDir)
	if err != nil {
		if errors.Is(err, engine.ErrUnsupportedURL) {
			log.Printf("primary engine has no extractor url=%s", rawURL)
		} else {
			log.Printf("FAIL primary probe url=%s err=%v", rawURL, err)
		}
		return ""
	}
	// A relative probe result is anchored onto destDir unless it
	// already points inside it, so existence checks never depend on
	// the process working directory.
	if !filepath.IsAbs(expected) {
		if rel, err := filepath.Rel(destDir, expected); err != nil || strings.HasPrefix(rel, "..") {
			expected = filepath.Join(destDir, expected)
		}
	}

	if o.artifacts.ShouldSkip(expected) {
		return expected
	}

	if err := o.primary.Download(ctx, rawURL, destDir); err != nil {
		if errors.Is(err, engine.ErrUnsupportedURL) {
			log.Printf("primary engine has no extractor url=%s", rawURL)
		} else {
			log.Printf("FAIL primary download url=%s err=%v", rawURL, err)
		}
		return ""
	}
	return expected
}

// tryBrowser runs the browser-capture fallback, optionally classifying
// the page's manifest for DRM first. The classification is advisory
// and never blocks the download attempt.
func (o *Orchestrator) tryBrowser(ctx context.Context, rawURL, destDir string) string {
	if o.capturer == nil {
		return ""
	}

	if o.opts.PreflightDRM && o.opts.Classifier != nil {
		if capture := o.capturer.CaptureManifest(ctx, rawURL, o.opts.ManifestWait); capture != nil {
			verdict := o.opts.Classifier.Classify(ctx, capture.ManifestURL, capture.RequestHeaders)
			if verdict.Protected {
				log.Printf("manifest is DRM protected url=%s scheme=%s", rawURL, verdict.Scheme)
			}
		}
	}

	return o.capturer.CaptureDownload(ctx, rawURL, destDir, o.opts.BrowserWait)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
