package engine

// Package engine wraps the primary extraction engine: yt-dlp driven
// through github.com/lrstanley/go-ytdlp. It exposes the probe/download
// contract the orchestrator consumes and maps yt-dlp's unsupported-URL
// report onto the error taxonomy that triggers browser-capture
// escalation.
