package util

import (
	"strings"
	"testing"
)

func TestHashKey(t *testing.T) {
	got := HashKey("maria.lopez")
	if got != HashKey("maria.lopez") {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashKey("Maria.Lopez") {
		t.Fatalf("expected case-sensitive hash")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "screen.png", want: "screen.png"},
		{in: " dir/sub\\shot.jpg ", want: "shot.jpg"},
		{in: "captura\x00\t.png", want: "captura.png"},
		{in: strings.Repeat("a", 200) + ".webp", want: strings.Repeat("a", 123) + ".webp"},
		{in: "../etc/passwd", wantErr: true},
		{in: "dir/", want: "dir"},
		{in: "   ", wantErr: true},
		{in: "/", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
