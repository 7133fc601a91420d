package capture

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/vidgrab/vidgrab/internal/model"
)

const (
	// DefaultDownloadWait bounds a full browser download attempt.
	DefaultDownloadWait = 180 * time.Second
	// DefaultManifestWait bounds waiting for a manifest request.
	DefaultManifestWait = 45 * time.Second

	// clickTimeout bounds each individual selector attempt.
	clickTimeout = 2 * time.Second
	// manualWait gives the user a moment to click when no download
	// selector matched.
	manualWait = 1500 * time.Millisecond
	// loginWait bounds waiting for the player to appear, which covers
	// pages that first redirect through a login wall.
	loginWait = 60 * time.Second
)

// manifestMarkers identify streaming-manifest requests by URL shape.
var manifestMarkers = []string{".m3u8", ".mpd", "format=m3u8"}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// initScript runs before any page script and hides the usual
// automation fingerprints.
const initScript = `
Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3]});
Object.defineProperty(navigator, 'languages', {get: () => ['en-US', 'en']});
Object.defineProperty(document, 'visibilityState', {get: () => 'visible'});
`

// playScript nudges every video element on the page into playback.
const playScript = `
document.querySelectorAll('video').forEach(v => { v.muted = true; v.play().catch(() => {}); });
`

// Engine drives a Chrome instance to capture manifests and downloads
// from pages the primary extraction engine cannot handle.
type Engine struct {
	playSelectors     []string
	downloadSelectors []string
	headless          bool
}

// NewEngine returns an Engine using the given selector lists; empty
// lists keep the defaults.
func NewEngine(play, download []string, headless bool) *Engine {
	if len(play) == 0 {
		play = DefaultPlaySelectors
	}
	if len(download) == 0 {
		download = DefaultDownloadSelectors
	}
	return &Engine{playSelectors: play, downloadSelectors: download, headless: headless}
}

// allocator builds an exec allocator with a throwaway profile and
// returns it with a cleanup that also removes the profile directory.
func (e *Engine) allocator(ctx context.Context) (context.Context, func()) {
	profileDir := filepath.Join(os.TempDir(), "vidgrab-capture-"+uuid.NewString())

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoSandbox,
		chromedp.UserDataDir(profileDir),
		chromedp.UserAgent(userAgent),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-gpu", true),
	}
	if e.headless {
		opts = append(opts, chromedp.Headless)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	cleanup := func() {
		cancel()
		if err := os.RemoveAll(profileDir); err != nil {
			log.Printf("leaving capture profile dir=%s err=%v", profileDir, err)
		}
	}
	return allocCtx, cleanup
}

// CaptureManifest loads pageURL, starts playback, and returns the
// first streaming-manifest request it observes, with the request
// headers needed to replay it. Nil means no manifest appeared before
// timeout.
func (e *Engine) CaptureManifest(ctx context.Context, pageURL string, timeout time.Duration) *model.ManifestCapture {
	if timeout <= 0 {
		timeout = DefaultManifestWait
	}
	allocCtx, cleanup := e.allocator(ctx)
	defer cleanup()
	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	found := make(chan *model.ManifestCapture, 1)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		req, ok := ev.(*network.EventRequestWillBeSent)
		if !ok || !isManifestURL(req.Request.URL) {
			return
		}
		capture := &model.ManifestCapture{
			ManifestURL:    req.Request.URL,
			RequestHeaders: flattenHeaders(req.Request.Headers),
		}
		select {
		case found <- capture:
		default:
		}
	})

	var title string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(initScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(pageURL),
		chromedp.Title(&title),
	)
	if err != nil {
		log.Printf("FAIL manifest capture url=%s err=%v", pageURL, err)
		return nil
	}

	if !e.clickAny(tabCtx, e.playSelectors) {
		// Playback may start on its own; force it for good measure.
		_ = chromedp.Run(tabCtx, chromedp.Evaluate(playScript, nil))
	}

	select {
	case capture := <-found:
		capture.PageTitle = title
		return capture
	case <-tabCtx.Done():
		return nil
	}
}

// CaptureDownload loads pageURL, triggers a file download, and returns
// the saved path under destDir. Empty result means no download
// completed before timeout.
func (e *Engine) CaptureDownload(ctx context.Context, pageURL, destDir string, timeout time.Duration) string {
	if timeout <= 0 {
		timeout = DefaultDownloadWait
	}
	allocCtx, cleanup := e.allocator(ctx)
	defer cleanup()
	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	var (
		mu        sync.Mutex
		suggested = make(map[string]string) // download GUID → filename
	)
	completed := make(chan string, 1)
	chromedp.ListenBrowser(tabCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *browser.EventDownloadWillBegin:
			mu.Lock()
			suggested[ev.GUID] = ev.SuggestedFilename
			mu.Unlock()
		case *browser.EventDownloadProgress:
			if ev.State == browser.DownloadProgressStateCompleted {
				select {
				case completed <- ev.GUID:
				default:
				}
			}
		}
	})

	err := chromedp.Run(tabCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(destDir).
			WithEventsEnabled(true),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(initScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(pageURL),
	)
	if err != nil {
		log.Printf("FAIL browser download url=%s err=%v", pageURL, err)
		return ""
	}

	// Wait for the player so login redirects get a chance to settle.
	loginCtx, cancelLogin := context.WithTimeout(tabCtx, loginWait)
	if err := chromedp.Run(loginCtx, chromedp.WaitVisible("video", chromedp.ByQuery)); err != nil {
		log.Printf("no player appeared url=%s err=%v", pageURL, err)
	}
	cancelLogin()

	if !e.clickAny(tabCtx, e.downloadSelectors) {
		log.Printf("no download control matched url=%s, waiting for manual click", pageURL)
		time.Sleep(manualWait)
	}

	isTrackedDownload := func(name string) bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := suggested[name]
		return ok
	}
	mu.Lock()
	browserDownloading := len(suggested) > 0
	mu.Unlock()

	// Filesystem fallback for downloads the browser never reports on.
	// Once a download-begin event arrived the event path owns
	// completion: the watcher must not report the browser's
	// still-growing file, so it only runs when no download was
	// observed, and GUID-named files stay filtered out in case one
	// begins later.
	watched := make(chan string, 1)
	if !browserDownloading {
		go func() { watched <- WatchForMediaFile(tabCtx, destDir, isTrackedDownload) }()
	}

	select {
	case guid := <-completed:
		mu.Lock()
		name := suggested[guid]
		mu.Unlock()
		saved := filepath.Join(destDir, guid)
		renamed := filepath.Join(destDir, SanitizeFilename(name))
		if err := os.Rename(saved, renamed); err != nil {
			log.Printf("keeping download under guid name=%s err=%v", guid, err)
			return saved
		}
		return renamed
	case path := <-watched:
		return path
	case <-tabCtx.Done():
		return ""
	}
}

// clickAny tries each selector in order and reports whether one was
// clicked. Selectors that never appear are skipped after a short
// per-selector timeout.
func (e *Engine) clickAny(ctx context.Context, selectors []string) bool {
	for _, sel := range selectors {
		clickCtx, cancel := context.WithTimeout(ctx, clickTimeout)
		err := chromedp.Run(clickCtx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible))
		cancel()
		if err == nil {
			log.Printf("clicked selector=%q", sel)
			return true
		}
	}
	return false
}

func isManifestURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, marker := range manifestMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// flattenHeaders converts DevTools request headers into the plain
// string map the manifest classifier replays.
func flattenHeaders(headers network.Headers) map[string]string {
	out := make(map[string]string, len(headers))
	for key, value := range headers {
		out[key] = fmt.Sprint(value)
	}
	return out
}
