package input

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadLinksFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	content := "https://a.example/v1\n\n# a comment\n  https://b.example/v2  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write links: %v", err)
	}

	got := ReadLinksFile(path)
	expected := []string{"https://a.example/v1", "https://b.example/v2"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ReadLinksFile = %v, expected %v", got, expected)
	}
}

func TestReadLinksFile_Missing(t *testing.T) {
	if got := ReadLinksFile(filepath.Join(t.TempDir(), "nope.txt")); got != nil {
		t.Errorf("ReadLinksFile for missing file = %v, expected nil", got)
	}
}

func TestResolveArgs(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "batch.txt")
	if err := os.WriteFile(listPath, []byte("https://a.example/v1\nhttps://a.example/v2\n"), 0o644); err != nil {
		t.Fatalf("write links: %v", err)
	}

	got := ResolveArgs([]string{listPath, "https://c.example/v3"})
	expected := []string{"https://a.example/v1", "https://a.example/v2", "https://c.example/v3"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ResolveArgs = %v, expected %v", got, expected)
	}
}

func TestValidateURLs(t *testing.T) {
	got := ValidateURLs([]string{
		"https://ok.example/v",
		"http://ok2.example/v",
		"ftp://nope.example/v",
		"not a url",
		"https://",
		"/just/a/path",
	})
	expected := []string{"https://ok.example/v", "http://ok2.example/v"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ValidateURLs = %v, expected %v", got, expected)
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		rawURL   string
		expected string
	}{
		{"https://www.youtube.com/watch?v=abc&list=PL123&index=2", "PL123"},
		{"https://www.youtube.com/playlist?list=PLxyz", "PLxyz"},
		{"https://www.youtube.com/watch?v=abc", ""},
		// A parameter whose name merely ends in "list" is not one.
		{"https://www.youtube.com/watch?v=abc&playlist=PL999", ""},
		// list= on a non-YouTube host is an ordinary query parameter.
		{"https://videos.example.com/show?list=all", ""},
		{"not a url", ""},
	}

	for _, test := range tests {
		if got := extractPlaylistID(test.rawURL); got != test.expected {
			t.Errorf("extractPlaylistID(%q) = %q, expected %q", test.rawURL, got, test.expected)
		}
	}
}
