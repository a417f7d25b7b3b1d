package qr

import (
	"net/url"
	"strings"
	"testing"
)

func TestImageURL(t *testing.T) {
	u := ImageURL("0xabc def", 120)

	if !strings.HasPrefix(u, "https://api.qrserver.com/v1/create-qr-code/?size=120x120&data=") {
		t.Errorf("Unexpected URL: %s", u)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("URL does not parse: %v", err)
	}
	if got := parsed.Query().Get("data"); got != "0xabc def" {
		t.Errorf("Data round-trip failed: %q", got)
	}
}

func TestImageURL_DefaultSize(t *testing.T) {
	u := ImageURL("code", 0)
	if !strings.Contains(u, "size=200x200") {
		t.Errorf("Expected default size 200, got %s", u)
	}
}
