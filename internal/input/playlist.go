package input

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
)

// Playlist handling constants.
const (
	// playlistParam is the query parameter naming a playlist.
	playlistParam = "list"

	watchURLTemplate = "https://www.youtube.com/watch?v=%s"

	playlistTimeout = 60 * time.Second
)

// youtubeHosts are the hosts whose list= parameter denotes a playlist.
var youtubeHosts = []string{"youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be"}

// ExpandPlaylists replaces YouTube playlist URLs in urls with the watch
// URLs of their entries, preserving order. Expansion is best-effort: a
// playlist that cannot be listed stays in the result unchanged so the
// downstream engines still get a shot at it.
func ExpandPlaylists(ctx context.Context, urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, raw := range urls {
		id := extractPlaylistID(raw)
		if id == "" {
			out = append(out, raw)
			continue
		}
		expanded, err := listPlaylist(ctx, id)
		if err != nil || len(expanded) == 0 {
			log.Printf("FAIL playlist expansion url=%s err=%v", raw, err)
			out = append(out, raw)
			continue
		}
		log.Printf("expanded playlist id=%s count=%d", id, len(expanded))
		out = append(out, expanded...)
	}
	return out
}

// listPlaylist fetches the playlist entries and returns their watch
// URLs.
func listPlaylist(ctx context.Context, playlistID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, playlistTimeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("get playlist items: %w", err)
	}

	urls := make([]string, 0, len(items))
	for _, it := range items {
		urls = append(urls, fmt.Sprintf(watchURLTemplate, it.VideoID))
	}
	return urls, nil
}

// extractPlaylistID returns the playlist ID when rawURL is a YouTube
// URL carrying a list parameter, empty otherwise. Parameters whose
// name merely ends in "list" do not qualify.
func extractPlaylistID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || !isYouTubeHost(parsed.Host) {
		return ""
	}
	return parsed.Query().Get(playlistParam)
}

func isYouTubeHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range youtubeHosts {
		if host == h {
			return true
		}
	}
	return false
}
