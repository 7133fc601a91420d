// Command vidgrab downloads authenticated videos: a yt-dlp primary
// pass with browser cookies, escalating to real-browser capture for
// pages yt-dlp has no extractor for.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lrstanley/go-ytdlp"

	"github.com/vidgrab/vidgrab/internal/acquire"
	"github.com/vidgrab/vidgrab/internal/artifact"
	"github.com/vidgrab/vidgrab/internal/capture"
	"github.com/vidgrab/vidgrab/internal/config"
	"github.com/vidgrab/vidgrab/internal/drm"
	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/input"
	"github.com/vidgrab/vidgrab/internal/profile"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Printf("FAIL vidgrab err=%v", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath     = flag.String("config", "config.toml", "path to the TOML configuration file")
		browser        = flag.String("browser", "", "browser vendor to read cookies from (chrome, brave, edge, chromium)")
		browserProfile = flag.String("browser-profile", "", "browser profile name or directory for cookies")
		cookiesFile    = flag.String("cookies", "", "Netscape cookies.txt file, takes precedence over browser cookies")
		outputRoot     = flag.String("output-root", "", "directory to save downloads under")
		headless       = flag.Bool("headless", false, "run the capture browser without a window")
		verbose        = flag.Bool("verbose", false, "log with timestamps and source locations")
		showVersion    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *verbose {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}

	if *showVersion {
		fmt.Println("vidgrab " + version)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *browser != "" {
		cfg.Browser = *browser
	}
	if *browserProfile != "" {
		cfg.BrowserProfile = *browserProfile
	}
	if *cookiesFile != "" {
		cfg.CookiesFile = *cookiesFile
	}
	if *outputRoot != "" {
		cfg.OutputRoot = *outputRoot
	}

	urls := input.ResolveArgs(flag.Args())
	if len(urls) == 0 {
		urls = input.ReadLinksFile(cfg.ResolveLinksFile("."))
	}
	urls = input.ValidateURLs(urls)
	if len(urls) == 0 {
		log.Printf("no URLs to process: pass URLs or a links file, or populate %s", cfg.LinksFile)
		return nil
	}
	urls = input.ExpandPlaylists(ctx, urls)

	// Make sure a yt-dlp binary is around; a failed install still lets
	// the browser fallback carry the run.
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		log.Printf("yt-dlp install failed, relying on browser capture err=%v", err)
	}

	resolvedProfile := profile.NewResolver(cfg.Browser).Resolve(cfg.BrowserProfile)
	if cfg.BrowserProfile != "" && resolvedProfile == "" {
		log.Printf("requested browser profile %q not found, continuing without profile cookies", cfg.BrowserProfile)
	}

	primary := engine.NewYTDLP(engine.CookieSource{
		Browser: cfg.Browser,
		Profile: resolvedProfile,
		File:    cfg.CookiesFile,
	}, cfg.ConcurrentFragments)

	capturer := capture.NewEngine(cfg.Selectors.Play, cfg.Selectors.Download, *headless)
	classifier := drm.New(&http.Client{Timeout: cfg.HTTPTimeout()})

	orchestrator := acquire.NewOrchestrator(primary, capturer, artifact.New(), acquire.Options{
		BrowserWait:  cfg.BrowserWait(),
		ManifestWait: cfg.ManifestWait(),
		Classifier:   classifier,
		PreflightDRM: cfg.DRMPrecheck,
	})

	log.Printf("START vidgrab version=%s urls=%d output=%s", version, len(urls), cfg.OutputRoot)
	stats := acquire.NewBatch(orchestrator, cfg.OutputRoot).Run(ctx, urls)

	for host, hs := range stats {
		log.Printf("host=%s attempted=%d succeeded=%d", host, hs.Attempted, hs.Succeeded)
	}
	log.Printf("DONE vidgrab")
	return nil
}
