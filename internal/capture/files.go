package capture

import "strings"

// fallbackFilename names a browser download whose suggested filename
// is empty or unusable.
const fallbackFilename = "download.bin"

// SanitizeFilename makes a browser-suggested filename safe to join
// onto the destination directory.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return fallbackFilename
	}
	return name
}
