package verify

import (
	"strings"
	"testing"
)

func TestNewDomainSetNormalizes(t *testing.T) {
	set := NewDomainSet(" Example.COM ", "", "  ", "other.net")
	if len(set) != 2 {
		t.Fatalf("len = %d, want 2", len(set))
	}
	if !set.Contains("example.com") {
		t.Error("expected example.com in set")
	}
	if !set.Contains("OTHER.NET") {
		t.Error("lookup should be case-insensitive")
	}
}

func TestParseDomainList(t *testing.T) {
	input := strings.Join([]string{
		"# internal blocklist",
		"Spam.Example",
		"",
		"  junk.example  ",
		"# trailing comment",
	}, "\n")

	set, err := ParseDomainList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDomainList: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("len = %d, want 2", len(set))
	}
	for _, d := range []string{"spam.example", "junk.example"} {
		if !set.Contains(d) {
			t.Errorf("expected %s in set", d)
		}
	}
}

func TestDefaultDisposableDomains(t *testing.T) {
	set := DefaultDisposableDomains()
	for _, d := range []string{"mailinator.com", "10minutemail.com", "maildrop.cc"} {
		if !set.Contains(d) {
			t.Errorf("expected %s in default disposable set", d)
		}
	}
	if set.Contains("example.com") {
		t.Error("example.com should not be in default disposable set")
	}
}
