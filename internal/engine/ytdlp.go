package engine

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"
)

// outputTemplate mirrors yt-dlp's title naming, capped so the host
// filesystem never sees an oversized name.
const outputTemplate = "%(title).100B.%(ext)s"

// defaultConcurrentFragments is the fragment-transfer hint passed to
// yt-dlp. Internal to the engine and opaque to the orchestration layer.
const defaultConcurrentFragments = 8

// CookieSource tells the engine where authenticated cookies come from:
// a browser/profile pair, or a Netscape cookies file which takes
// precedence when set.
type CookieSource struct {
	Browser string // browser vendor key, e.g. "chrome"
	Profile string // resolved profile directory name, may be empty
	File    string // cookies.txt path
}

// YTDLP is the production Primary backed by the yt-dlp binary.
type YTDLP struct {
	cookies   CookieSource
	fragments int
}

// NewYTDLP returns a configured engine. A non-positive fragments hint
// selects the default.
func NewYTDLP(cookies CookieSource, fragments int) *YTDLP {
	if fragments <= 0 {
		fragments = defaultConcurrentFragments
	}
	return &YTDLP{cookies: cookies, fragments: fragments}
}

// Probe runs a metadata-only pass and returns the expected final path
// for the URL without downloading anything.
func (y *YTDLP) Probe(ctx context.Context, rawURL, destDir string) (string, error) {
	res, err := y.command(rawURL, destDir).DumpJSON().Run(ctx, rawURL)
	if err != nil {
		return "", classifyErr(err, resultOutput(res))
	}
	return extractedFilename(res)
}

// Download fetches the media into destDir. Partial downloads resume;
// existing complete files are not overwritten.
func (y *YTDLP) Download(ctx context.Context, rawURL, destDir string) error {
	log.Printf("START ytdlp_download url=%s dir=%s", rawURL, destDir)
	res, err := y.command(rawURL, destDir).Run(ctx, rawURL)
	if err != nil {
		return classifyErr(err, resultOutput(res))
	}
	log.Printf("DONE ytdlp_download url=%s", rawURL)
	return nil
}

// command builds the flag set shared by probe and download runs.
func (y *YTDLP) command(rawURL, destDir string) *ytdlp.Command {
	dl := ytdlp.New().
		Output(filepath.Join(destDir, outputTemplate)).
		NoOverwrites().
		ConcurrentFragments(y.fragments).
		Referer(rawURL)

	if origin := originOf(rawURL); origin != "" {
		dl = dl.AddHeaders("Origin:" + origin)
	}

	switch {
	case y.cookies.File != "":
		dl = dl.Cookies(y.cookies.File)
	case y.cookies.Profile != "":
		dl = dl.CookiesFromBrowser(y.cookies.Browser + ":" + y.cookies.Profile)
	case y.cookies.Browser != "":
		dl = dl.CookiesFromBrowser(y.cookies.Browser)
	}
	return dl
}

// extractedFilename pulls the predicted filename out of a probe result.
func extractedFilename(res *ytdlp.Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("probe returned no result")
	}
	info, err := res.GetExtractedInfo()
	if err != nil {
		return "", fmt.Errorf("parse probe info: %w", err)
	}
	if len(info) == 0 || info[0].Filename == nil || *info[0].Filename == "" {
		return "", fmt.Errorf("probe info carries no filename")
	}
	return *info[0].Filename, nil
}

// resultOutput collects the diagnostic text of a failed run, if any.
func resultOutput(res *ytdlp.Result) string {
	if res == nil {
		return ""
	}
	return res.Stdout + "\n" + res.Stderr
}

// originOf derives the scheme://host origin header value for a URL.
func originOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
