package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedURL reports that the primary engine has no extractor
// for the given URL. It is the defined trigger for browser-capture
// escalation, not an error condition worth alarming about.
var ErrUnsupportedURL = errors.New("unsupported URL")

// Primary resolves a URL to a media file on disk. Probe predicts the
// expected final filename without downloading; Download fetches the
// media into destDir.
type Primary interface {
	Probe(ctx context.Context, rawURL, destDir string) (string, error)
	Download(ctx context.Context, rawURL, destDir string) error
}

// unsupportedMarkers are the yt-dlp messages that mean "no extractor
// handles this URL" rather than a transient failure.
var unsupportedMarkers = []string{"Unsupported URL", "does not pass URL"}

// classifyErr maps a yt-dlp failure plus its captured output onto the
// engine taxonomy.
func classifyErr(err error, output string) error {
	text := err.Error() + "\n" + output
	for _, marker := range unsupportedMarkers {
		if strings.Contains(text, marker) {
			return fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
		}
	}
	return err
}
