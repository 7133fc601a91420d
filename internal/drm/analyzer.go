// Package drm classifies HLS streaming manifests by encryption scheme,
// so callers can tell undecryptable DRM apart from plain or AES-128
// segment encryption before spending a browser-capture attempt on it.
package drm

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vidgrab/vidgrab/internal/model"
)

// Scheme labels reported in classifications.
const (
	SchemeSampleAESSession = "SAMPLE-AES(session)"
	SchemeSampleAES        = "SAMPLE-AES"
	SchemeFairPlay         = "FairPlay"
	SchemeWidevine         = "Widevine"
	SchemeAES128           = "AES-128"
)

// DefaultTimeout bounds each manifest fetch.
const DefaultTimeout = 30 * time.Second

// variantExtension marks a sub-manifest reference inside a master
// manifest.
const variantExtension = ".m3u8"

// Manifest tag and scheme markers, matched case-insensitively.
const (
	sessionKeyTag = "#ext-x-session-key"
	keyTag        = "#ext-x-key"

	sampleAESMarker = "sample-aes"
	fairPlayMarker  = "fairplay"
	fpsMarker       = "com.apple.fps"
	widevineMarker  = "widevine"
	widevineUUID    = "com.widevine.alpha"
	aes128Marker    = "aes-128"
)

// Analyzer fetches streaming manifests and pattern-matches their
// encryption tags. The verdict is a heuristic, not a guarantee: schemes
// that are not pattern-matched classify as "not protected", so callers
// must treat that as "proceed, may still fail".
type Analyzer struct {
	client *http.Client
}

// New returns an Analyzer using client, or a client with the default
// timeout when client is nil.
func New(client *http.Client) *Analyzer {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Analyzer{client: client}
}

// Classify fetches manifestURL replaying headers and classifies its
// encryption. A master manifest is followed into its first variant, one
// hop at most. Any fetch problem fails open to "not protected, unknown"
// rather than blocking a capture attempt.
func (a *Analyzer) Classify(ctx context.Context, manifestURL string, headers map[string]string) model.Classification {
	root := a.fetchText(ctx, manifestURL, headers)
	if root == "" {
		return model.Classification{}
	}
	lower := strings.ToLower(root)

	if strings.Contains(lower, sessionKeyTag) && strings.Contains(lower, sampleAESMarker) {
		return model.Classification{Protected: true, Scheme: SchemeSampleAESSession}
	}
	if strings.Contains(lower, fpsMarker) || strings.Contains(lower, fairPlayMarker) {
		return model.Classification{Protected: true, Scheme: SchemeFairPlay}
	}
	if strings.Contains(lower, widevineUUID) || strings.Contains(lower, widevineMarker) {
		return model.Classification{Protected: true, Scheme: SchemeWidevine}
	}

	variantURL := findVariantURL(manifestURL, root)
	if variantURL == "" {
		// Single-level manifest: AES-128 segment encryption is
		// defeatable, so it is reported but not treated as DRM.
		if strings.Contains(lower, keyTag) {
			if strings.Contains(lower, sampleAESMarker) {
				return model.Classification{Protected: true, Scheme: SchemeSampleAES}
			}
			if strings.Contains(lower, aes128Marker) {
				return model.Classification{Scheme: SchemeAES128}
			}
		}
		return model.Classification{}
	}

	variant := a.fetchText(ctx, variantURL, headers)
	if variant == "" {
		return model.Classification{}
	}
	vlower := strings.ToLower(variant)
	if strings.Contains(vlower, keyTag) {
		switch {
		case strings.Contains(vlower, sampleAESMarker):
			return model.Classification{Protected: true, Scheme: SchemeSampleAES}
		case strings.Contains(vlower, fpsMarker), strings.Contains(vlower, fairPlayMarker):
			return model.Classification{Protected: true, Scheme: SchemeFairPlay}
		case strings.Contains(vlower, widevineUUID), strings.Contains(vlower, widevineMarker):
			return model.Classification{Protected: true, Scheme: SchemeWidevine}
		case strings.Contains(vlower, aes128Marker):
			return model.Classification{Scheme: SchemeAES128}
		}
	}
	return model.Classification{}
}

// findVariantURL returns the first non-comment line ending in the
// sub-manifest extension, resolved against base. Empty when the body is
// a single-level manifest.
func findVariantURL(base, body string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasSuffix(line, variantExtension) {
			continue
		}
		ref, err := url.Parse(line)
		if err != nil {
			continue
		}
		return baseURL.ResolveReference(ref).String()
	}
	return ""
}

// fetchText GETs rawURL with the caller's headers replayed. Empty on
// any transport failure or non-success status.
func (a *Analyzer) fetchText(ctx context.Context, rawURL string, headers map[string]string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		log.Printf("FAIL manifest fetch url=%s err=%v", rawURL, err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return ""
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(body)
}
