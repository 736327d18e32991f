package pyramid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"", "/"},
		{"about", "/about"},
		{"/about", "/about"},
		{"user/{id}", "/user/{id}"},
		{"//double", "//double"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got := NormalizePattern(tt.in)
			if got != tt.want {
				t.Errorf("NormalizePattern(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizePattern(got); again != got {
				t.Errorf("NormalizePattern is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestURLParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    []string
	}{
		{"/", []string{}},
		{"/about", []string{}},
		{"/user/{id}", []string{"id"}},
		{"/user/{id}/profile/{section}", []string{"id", "section"}},
		{"/user/{id:\\d+}", []string{"id"}},
		{"/archive/{year:\\d{4}}/{slug}", []string{"year", "slug"}},
		{"/files/{ path }", []string{"path"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			got, err := URLParameters(tt.pattern)
			if err != nil {
				t.Fatalf("URLParameters(%q): %v", tt.pattern, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("URLParameters(%q) mismatch (-want +got):\n%s", tt.pattern, diff)
			}
		})
	}
}

func TestURLParametersInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		reason  string
	}{
		{"/user/{id", "missing closing brace"},
		{"/user/{id}/profile/{}", "missing parameter name"},
		{"/user/{:\\d+}", "missing parameter name"},
		{"/archive/{year:\\d{4}", "missing closing brace"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			_, err := URLParameters(tt.pattern)
			var ip *InvalidURLPatternError
			if !errors.As(err, &ip) {
				t.Fatalf("expected InvalidURLPatternError, got %v", err)
			}
			if ip.Pattern != tt.pattern || ip.Reason != tt.reason {
				t.Errorf("error = %+v, want reason %q", ip, tt.reason)
			}
		})
	}
}

func TestPlaceholdersOffsets(t *testing.T) {
	t.Parallel()

	pattern := "/user/{id:\\d+}/x"
	phs, err := Placeholders(pattern)
	if err != nil {
		t.Fatalf("Placeholders: %v", err)
	}
	want := []Placeholder{{Name: "id", Regex: "\\d+", Start: 6, End: 14}}
	if diff := cmp.Diff(want, phs); diff != "" {
		t.Errorf("Placeholders mismatch (-want +got):\n%s", diff)
	}
	if got := pattern[phs[0].Start:phs[0].End]; got != "{id:\\d+}" {
		t.Errorf("slice = %q", got)
	}
}
