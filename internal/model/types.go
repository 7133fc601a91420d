package model

import "net/url"

// FallbackHost labels targets whose URL carries no usable host.
const FallbackHost = "unknown-domain"

// HostOf returns the host label used for directory partitioning and
// per-domain statistics.
func HostOf(u *url.URL) string {
	if u == nil || u.Host == "" {
		return FallbackHost
	}
	return u.Host
}

// Target is a single acquisition target: the page URL plus the
// host-derived destination directory it resolves to. Created per input
// URL, consumed once, never persisted.
type Target struct {
	URL     string
	Host    string
	DestDir string
}

// Classification is the DRM analyzer verdict for one manifest. It is a
// heuristic: Protected=false means "proceed, may still fail".
type Classification struct {
	Protected bool
	Scheme    string // scheme label, empty when unknown
}

// ManifestCapture is a streaming manifest request observed in the
// browser, with the request headers needed to replay it.
type ManifestCapture struct {
	ManifestURL    string
	RequestHeaders map[string]string
	PageTitle      string
}

// Outcome is the per-URL acquisition result.
type Outcome struct {
	URL       string
	Host      string
	SavedPath string // empty when the URL produced no file
}

// Saved reports whether the acquisition produced a file on disk.
func (o Outcome) Saved() bool {
	return o.SavedPath != ""
}
