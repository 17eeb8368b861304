package services

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateReason(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		want    string
		wantErr bool
	}{
		{"plain", "spam link", "spam link", false},
		{"trimmed", "  off topic \n", "off topic", false},
		{"empty", "", "", true},
		{"whitespace only", " \t\n ", "", true},
		{"at limit", strings.Repeat("ab", maxReasonLength/2), strings.Repeat("ab", maxReasonLength/2), false},
		{"over limit", strings.Repeat("ab", maxReasonLength/2) + "c", "", true},
		{"multibyte at limit", strings.Repeat("é", maxReasonLength/2) + strings.Repeat("ü", maxReasonLength/2), strings.Repeat("é", maxReasonLength/2) + strings.Repeat("ü", maxReasonLength/2), false},
		{"repeated letters", "this is baaaaaaaaaaaad", "", true},
		{"repeated punctuation", "why????????????", "", true},
		{"repeated mixed case", "AAAAAaaaaa", "", true},
		{"short run", "hmmmmmm", "hmmmmmm", false},
		{"long digits", "call 0000000000", "call 0000000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateReason(tt.reason)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidReason) {
					t.Fatalf("validateReason(%q) err = %v, want ErrInvalidReason", tt.reason, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validateReason(%q) unexpected error: %v", tt.reason, err)
			}
			if got != tt.want {
				t.Errorf("validateReason(%q) = %q, want %q", tt.reason, got, tt.want)
			}
		})
	}
}

func TestRepeatedRunPattern(t *testing.T) {
	got := repeatedRunPattern("a.", 3)
	want := `(?i)(a{3,}|\.{3,})`
	if got != want {
		t.Errorf("repeatedRunPattern = %q, want %q", got, want)
	}
}
