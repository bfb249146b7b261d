package uri

import (
	"errors"
	"testing"
)

func TestClassifyAcceptsHTTPAndHTTPS(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ParsedUri
	}{
		{
			name: "https with path query and fragment",
			raw:  "https://example.com/a?b=1#frag",
			want: ParsedUri{
				Original: "https://example.com/a?b=1#frag",
				Scheme:   "https",
				Host:     "example.com",
				Path:     "/a",
				Query:    "b=1",
				Fragment: "frag",
				Port:     -1,
			},
		},
		{
			name: "http bare host",
			raw:  "http://example.com",
			want: ParsedUri{
				Original: "http://example.com",
				Scheme:   "http",
				Host:     "example.com",
				Port:     -1,
			},
		},
		{
			name: "uppercase scheme is normalized",
			raw:  "HTTPS://example.com/x",
			want: ParsedUri{
				Original: "HTTPS://example.com/x",
				Scheme:   "https",
				Host:     "example.com",
				Path:     "/x",
				Port:     -1,
			},
		},
		{
			name: "explicit port",
			raw:  "https://example.com:8443/admin",
			want: ParsedUri{
				Original: "https://example.com:8443/admin",
				Scheme:   "https",
				Host:     "example.com",
				Path:     "/admin",
				Port:     8443,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.raw)
			if err != nil {
				t.Fatalf("Classify(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("Classify(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClassifyRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty string", "", ErrEmptyInput},
		{"whitespace only", "   ", ErrEmptyInput},
		{"no scheme", "not a url", ErrUnsupportedScheme},
		{"ftp scheme", "ftp://example.com/file", ErrUnsupportedScheme},
		{"mailto scheme", "mailto:someone@example.com", ErrUnsupportedScheme},
		{"scheme only", "https://", ErrMissingHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.raw)
			if err == nil {
				t.Fatalf("Classify(%q) succeeded, want error", tt.raw)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Classify(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first, err := Classify("https://example.com/a?b=1")
	if err != nil {
		t.Fatalf("first Classify failed: %v", err)
	}
	second, err := Classify("https://example.com/a?b=1")
	if err != nil {
		t.Fatalf("second Classify failed: %v", err)
	}
	if first != second {
		t.Fatalf("same input produced different results: %+v vs %+v", first, second)
	}
}

func TestParseStatusRejectsUnknownValues(t *testing.T) {
	if got := ParseStatus("bookmarked"); got != StatusBookmarked {
		t.Fatalf("ParseStatus(bookmarked) = %v", got)
	}
	if got := ParseStatus("garbage"); got != StatusUnknown {
		t.Fatalf("ParseStatus(garbage) = %v, want unknown", got)
	}
	if StatusUnknown.Valid() {
		t.Fatal("StatusUnknown must not be valid for persistence")
	}
}

func TestFolderTypeForStatus(t *testing.T) {
	if got := FolderTypeForStatus(StatusBookmarked); got != FolderBookmark {
		t.Fatalf("bookmarked status maps to %v", got)
	}
	if got := FolderTypeForStatus(StatusBlocked); got != FolderBlock {
		t.Fatalf("blocked status maps to %v", got)
	}
	if got := FolderTypeForStatus(StatusNone); got != FolderUnknown {
		t.Fatalf("none status maps to %v, want unknown", got)
	}
}

func TestSourceAndActionValidity(t *testing.T) {
	for _, s := range []Source{SourceIntent, SourceClipboard, SourceManual} {
		if !s.Valid() {
			t.Fatalf("source %v should be valid", s)
		}
	}
	if SourceUnknown.Valid() {
		t.Fatal("SourceUnknown must not be valid")
	}

	for _, a := range []Action{ActionOpenedOnce, ActionOpenedByPreference, ActionBlockedEnforced, ActionBlockedManual} {
		if !a.Valid() {
			t.Fatalf("action %v should be valid", a)
		}
	}
	if ActionUnknown.Valid() {
		t.Fatal("ActionUnknown must not be valid")
	}
}
