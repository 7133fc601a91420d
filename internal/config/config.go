// Package config loads the TOML application configuration and fills in
// defaults for anything the file leaves out.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values used when the config file is absent or silent.
const (
	DefaultOutputRoot = "downloads"
	DefaultLinksFile  = "links.txt"
	DefaultBrowser    = "chrome"

	DefaultBrowserWaitSec  = 180
	DefaultManifestWaitSec = 45
	DefaultHTTPTimeoutSec  = 30

	DefaultConcurrentFragments = 8
)

// Config is the application configuration. Values come from a TOML file
// and may be overridden by CLI flags afterwards.
type Config struct {
	OutputRoot string `toml:"output_root"`
	LinksFile  string `toml:"links_file"`

	Browser        string `toml:"browser"`
	BrowserProfile string `toml:"browser_profile"`
	CookiesFile    string `toml:"cookies_file"`

	BrowserWaitSec  int `toml:"browser_wait_sec"`
	ManifestWaitSec int `toml:"manifest_wait_sec"`
	HTTPTimeoutSec  int `toml:"http_timeout_sec"`

	ConcurrentFragments int `toml:"concurrent_fragments"`

	// DRMPrecheck enables the advisory manifest-capture and DRM
	// classification pass before each browser download attempt.
	DRMPrecheck bool `toml:"drm_precheck"`

	Selectors SelectorConfig `toml:"selectors"`
}

// SelectorConfig overrides the built-in candidate selector lists used
// by browser capture. Order matters; an empty list keeps the defaults.
type SelectorConfig struct {
	Play     []string `toml:"play"`
	Download []string `toml:"download"`
}

// Default returns a Config populated with the package defaults.
func Default() *Config {
	return &Config{
		OutputRoot:          DefaultOutputRoot,
		LinksFile:           DefaultLinksFile,
		Browser:             DefaultBrowser,
		BrowserWaitSec:      DefaultBrowserWaitSec,
		ManifestWaitSec:     DefaultManifestWaitSec,
		HTTPTimeoutSec:      DefaultHTTPTimeoutSec,
		ConcurrentFragments: DefaultConcurrentFragments,
	}
}

// Load reads a TOML config file. A missing file is not an error: the
// defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("config file not found, using defaults path=%s", path)
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults re-fills any value the file explicitly zeroed out.
func (c *Config) fillDefaults() {
	if c.OutputRoot == "" {
		c.OutputRoot = DefaultOutputRoot
	}
	if c.LinksFile == "" {
		c.LinksFile = DefaultLinksFile
	}
	if c.Browser == "" {
		c.Browser = DefaultBrowser
	}
	if c.BrowserWaitSec <= 0 {
		c.BrowserWaitSec = DefaultBrowserWaitSec
	}
	if c.ManifestWaitSec <= 0 {
		c.ManifestWaitSec = DefaultManifestWaitSec
	}
	if c.HTTPTimeoutSec <= 0 {
		c.HTTPTimeoutSec = DefaultHTTPTimeoutSec
	}
	if c.ConcurrentFragments <= 0 {
		c.ConcurrentFragments = DefaultConcurrentFragments
	}
}

// ResolveLinksFile makes a relative links_file absolute against root.
func (c *Config) ResolveLinksFile(root string) string {
	if filepath.IsAbs(c.LinksFile) {
		return c.LinksFile
	}
	return filepath.Join(root, c.LinksFile)
}

// BrowserWait is the full browser-capture attempt bound.
func (c *Config) BrowserWait() time.Duration {
	return time.Duration(c.BrowserWaitSec) * time.Second
}

// ManifestWait is the manifest-capture-only attempt bound.
func (c *Config) ManifestWait() time.Duration {
	return time.Duration(c.ManifestWaitSec) * time.Second
}

// HTTPTimeout bounds plain HTTP fetches such as manifest downloads.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}
