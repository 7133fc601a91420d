package model

import (
	"net/url"
	"testing"
)

func TestDomainStats_Clean(t *testing.T) {
	tests := []struct {
		name      string
		attempted int
		succeeded int
		expected  bool
	}{
		{"no attempts", 0, 0, false},
		{"all succeeded", 3, 3, true},
		{"one failure", 3, 2, false},
		{"single success", 1, 1, true},
	}

	for _, test := range tests {
		ds := DomainStats{}
		for i := 0; i < test.attempted; i++ {
			ds.Attempt("example.com")
		}
		for i := 0; i < test.succeeded; i++ {
			ds.Succeed("example.com")
		}
		if got := ds.Clean("example.com"); got != test.expected {
			t.Errorf("%s: Clean() = %v, expected %v", test.name, got, test.expected)
		}
	}
}

func TestDomainStats_CleanUnknownHost(t *testing.T) {
	ds := DomainStats{}
	if ds.Clean("never-seen.example") {
		t.Error("Clean() for a host with no attempts should be false")
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		rawURL   string
		expected string
	}{
		{"https://videos.example.com/watch/1", "videos.example.com"},
		{"https://example.com:8443/v", "example.com:8443"},
		{"mailto:someone@example.com", FallbackHost},
	}

	for _, test := range tests {
		u, err := url.Parse(test.rawURL)
		if err != nil {
			t.Fatalf("parse %q: %v", test.rawURL, err)
		}
		if got := HostOf(u); got != test.expected {
			t.Errorf("HostOf(%q) = %q, expected %q", test.rawURL, got, test.expected)
		}
	}

	if got := HostOf(nil); got != FallbackHost {
		t.Errorf("HostOf(nil) = %q, expected %q", got, FallbackHost)
	}
}

func TestOutcome_Saved(t *testing.T) {
	if (Outcome{}).Saved() {
		t.Error("empty outcome should not report saved")
	}
	if !(Outcome{SavedPath: "/tmp/a.mp4"}).Saved() {
		t.Error("outcome with path should report saved")
	}
}
