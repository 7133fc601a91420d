package capture

// Default candidate selector lists. Order matters: earlier selectors
// are tried first. Both lists can be overridden from configuration.
var (
	// DefaultPlaySelectors start playback so the player requests its
	// manifest.
	DefaultPlaySelectors = []string{
		"video",
		"button[aria-label='Play']",
		"[data-testid='play']",
		".play",
		".video-play",
	}

	// DefaultDownloadSelectors trigger a native file download.
	DefaultDownloadSelectors = []string{
		"button[aria-label*='Download']",
		"button[aria-label*='download']",
		"[data-testid='downloadsButton']",
		"[data-testid='downloadButton']",
		".kin-pl-downloadsButton",
		"[class*='downloads'] button",
		"a[download]",
		"a[href*='.mp4']",
	}
)
