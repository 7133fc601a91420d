// Package input turns CLI arguments, links files, and playlist URLs
// into the flat, validated URL list the batch controller consumes.
package input

import (
	"bufio"
	"log"
	"net/url"
	"os"
	"strings"
)

// commentPrefix marks skipped lines in links files.
const commentPrefix = "#"

// ReadLinksFile reads a newline-delimited URL list. Blank lines and
// comment lines are skipped. A missing or unreadable file yields an
// empty list, not an error.
func ReadLinksFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("failed to read links file path=%s err=%v", path, err)
		}
		return nil
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("failed to read links file path=%s err=%v", path, err)
	}
	return urls
}

// ResolveArgs turns positional arguments into a URL list: an argument
// naming an existing file is read as a links file, anything else is
// taken as a URL.
func ResolveArgs(args []string) []string {
	var urls []string
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			urls = append(urls, ReadLinksFile(arg)...)
			continue
		}
		urls = append(urls, arg)
	}
	return urls
}

// ValidateURLs filters urls down to well-formed http/https URLs with a
// host. Rejects are logged and dropped.
func ValidateURLs(urls []string) []string {
	var valid []string
	for _, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil {
			log.Printf("URL validation failed url=%s err=%v", raw, err)
			continue
		}
		if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			log.Printf("invalid URL format url=%s", raw)
			continue
		}
		valid = append(valid, raw)
	}
	return valid
}
