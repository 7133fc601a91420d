package capture

// Package capture implements the browser automation engine used when
// the primary extraction engine cannot handle a URL. It drives a real
// Chrome via the DevTools protocol (github.com/chromedp/chromedp) to
// either observe a streaming-manifest network request or trigger and
// collect a native file download. Clicking is driven by ordered,
// overridable selector lists; "no selector matched" is a normal
// outcome that falls through to a bounded wait for manual interaction.
