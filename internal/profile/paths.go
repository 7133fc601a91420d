// Package profile resolves human-readable browser profile names to the
// on-disk profile directories that hold authenticated cookie stores.
package profile

import (
	"os"
	"path/filepath"
	"runtime"
)

// Vendor keys accepted by the resolver.
const (
	VendorChrome   = "chrome"
	VendorBrave    = "brave"
	VendorEdge     = "edge"
	VendorChromium = "chromium"
)

// baseDirs maps {GOOS, vendor} to the chrome-like profile base
// directory relative to the user home. Adding a browser or OS is a data
// change, not a code change.
var baseDirs = map[string]map[string]string{
	"darwin": {
		VendorChrome:   "Library/Application Support/Google/Chrome",
		VendorBrave:    "Library/Application Support/BraveSoftware/Brave-Browser",
		VendorEdge:     "Library/Application Support/Microsoft Edge",
		VendorChromium: "Library/Application Support/Chromium",
	},
	"linux": {
		VendorChrome:   ".config/google-chrome",
		VendorBrave:    ".config/BraveSoftware/Brave-Browser",
		VendorEdge:     ".config/microsoft-edge",
		VendorChromium: ".config/chromium",
	},
}

// BaseDir resolves the existing profile base directory for vendor on
// the current OS. Empty when the {OS, vendor} pair is unknown or the
// directory is absent.
func BaseDir(vendor string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return baseDirFor(runtime.GOOS, vendor, home)
}

func baseDirFor(goos, vendor, home string) string {
	table, ok := baseDirs[goos]
	if !ok || home == "" {
		return ""
	}
	rel, ok := table[vendor]
	if !ok {
		return ""
	}
	dir := filepath.Join(home, rel)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	return dir
}
