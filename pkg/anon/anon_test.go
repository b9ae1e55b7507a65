package anon

import (
	"strings"
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if len(id) != 32 {
			t.Fatalf("unexpected id length %d", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestNewHandle(t *testing.T) {
	h := NewHandle()
	if !strings.HasPrefix(h, HandlePrefix) || len(h) != len(HandlePrefix)+6 {
		t.Fatalf("unexpected handle %q", h)
	}
	if NewHandle() == NewHandle() {
		t.Fatal("handles should differ per call")
	}
}

func TestBlobKey(t *testing.T) {
	tests := []struct {
		ext, wantExt string
	}{
		{".jpg", ".jpg"},
		{".PNG", ".png"},
		{".webp", ".webp"},
		{"", ""},
		{"gif", ""},
		{"./../x", ""},
		{".toolongext", ""},
	}
	for _, tt := range tests {
		key := BlobKey(tt.ext)
		if !strings.HasSuffix(key, tt.wantExt) {
			t.Errorf("BlobKey(%q) = %q, want suffix %q", tt.ext, key, tt.wantExt)
		}
		if strings.ContainsAny(key, `/\`) {
			t.Errorf("BlobKey(%q) = %q contains a path separator", tt.ext, key)
		}
		if len(key) != 32+len(tt.wantExt) {
			t.Errorf("BlobKey(%q) = %q has unexpected length", tt.ext, key)
		}
	}
}
