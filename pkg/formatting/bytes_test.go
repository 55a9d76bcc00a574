package formatting_test

import (
	"testing"

	"github.com/skinatlas/skinrest/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"32MB", 32 << 20, false},
		{"1 KB", 1024, false},
		{"512", 512, false},
		{"2gb", 2 << 30, false},
		{"", 0, true},
		{"fifty MB", 0, true},
		{"10XB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseBytes(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatting.FormatBytes(32<<20, 0); got != "32 MB" {
		t.Errorf("FormatBytes() = %q, want \"32 MB\"", got)
	}
	if got := formatting.FormatBytes(0, 2); got != "0 B" {
		t.Errorf("FormatBytes(0) = %q", got)
	}
}
