package profile

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// localStateFile is the vendor metadata file mapping profile directory
// names to display names.
const localStateFile = "Local State"

// fallbackProfiles are the conventional default profile directories
// tried when the requested name resolves to nothing.
var fallbackProfiles = []string{"Default", "Profile 1", "Profile 2", "Profile 3"}

// Resolver maps requested profile names onto on-disk profile
// directories for one browser vendor.
type Resolver struct {
	base string // profile base directory; empty disables lookups
}

// NewResolver builds a Resolver for vendor using the {OS, vendor}
// directory table.
func NewResolver(vendor string) *Resolver {
	return &Resolver{base: BaseDir(vendor)}
}

// NewResolverAt is NewResolver with an explicit base directory, for
// tests and config overrides.
func NewResolverAt(base string) *Resolver {
	return &Resolver{base: base}
}

// Resolve finds the profile directory to read cookies from. Matching
// order: the requested name as a directory, the requested name as a
// display name in the vendor metadata, then the conventional defaults.
// Only profiles that actually hold a cookie store qualify. An empty
// result means no usable profile; with no base directory at all the
// requested name is passed through untouched for the engine to try.
func (r *Resolver) Resolve(requested string) string {
	if r.base == "" {
		return requested
	}

	if requested != "" {
		if r.hasCookies(requested) {
			return requested
		}
		if mapped := r.displayNameToDir(requested); mapped != "" && r.hasCookies(mapped) {
			log.Printf("mapped profile name requested=%q dir=%q", requested, mapped)
			return mapped
		}
	}

	for _, candidate := range fallbackProfiles {
		if r.hasCookies(candidate) {
			return candidate
		}
	}

	log.Printf("no browser profile with cookies under %s", r.base)
	return ""
}

// DisplayName returns the display name recorded for a profile
// directory, empty when unknown.
func (r *Resolver) DisplayName(dirName string) string {
	state, err := r.readLocalState()
	if err != nil {
		return ""
	}
	meta, ok := state.Profile.InfoCache[dirName]
	if !ok {
		return ""
	}
	if name := strings.TrimSpace(meta.Name); name != "" {
		return name
	}
	return strings.TrimSpace(meta.GaiaName)
}

// hasCookies reports whether the profile directory holds a cookie
// store ("Cookies" or "Network/Cookies").
func (r *Resolver) hasCookies(dirName string) bool {
	profileDir := filepath.Join(r.base, dirName)
	for _, rel := range []string{"Cookies", filepath.Join("Network", "Cookies")} {
		if _, err := os.Stat(filepath.Join(profileDir, rel)); err == nil {
			return true
		}
	}
	return false
}

// localState models the slice of the vendor metadata file we read.
type localState struct {
	Profile struct {
		InfoCache map[string]profileMeta `json:"info_cache"`
	} `json:"profile"`
}

type profileMeta struct {
	Name     string `json:"name"`
	GaiaName string `json:"gaia_name"`
}

func (r *Resolver) readLocalState() (*localState, error) {
	data, err := os.ReadFile(filepath.Join(r.base, localStateFile))
	if err != nil {
		return nil, err
	}
	var state localState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("failed to parse %s under %s err=%v", localStateFile, r.base, err)
		return nil, err
	}
	return &state, nil
}

// displayNameToDir maps a display name or account name onto a profile
// directory via the vendor metadata. Case-insensitive.
func (r *Resolver) displayNameToDir(displayName string) string {
	state, err := r.readLocalState()
	if err != nil {
		return ""
	}
	target := strings.ToLower(strings.TrimSpace(displayName))
	if target == "" {
		return ""
	}
	for dirName, meta := range state.Profile.InfoCache {
		if name := strings.ToLower(strings.TrimSpace(meta.Name)); name != "" && name == target {
			return dirName
		}
		if gaia := strings.ToLower(strings.TrimSpace(meta.GaiaName)); gaia != "" && gaia == target {
			return dirName
		}
	}
	return ""
}
