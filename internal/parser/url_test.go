package parser

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr error
	}{
		{
			name: "long form watch URL",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short form URL",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "long form with extra query parameters",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s&list=PL123",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short form with query parameters",
			url:  "https://youtu.be/dQw4w9WgXcQ?si=abcdef",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "ID terminated by fragment",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ#t=10",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "no scheme",
			url:  "youtube.com/watch?v=demo123",
			want: "demo123",
		},
		{
			name:    "unrecognized host",
			url:     "https://vimeo.com/12345",
			wantErr: ErrNotYouTubeURL,
		},
		{
			name:    "empty string",
			url:     "",
			wantErr: ErrNotYouTubeURL,
		},
		{
			name:    "youtube host without video path",
			url:     "https://www.youtube.com/feed/subscriptions",
			wantErr: ErrNoVideoID,
		},
		{
			name:    "watch URL missing v parameter",
			url:     "https://www.youtube.com/watch?list=PL123",
			wantErr: ErrNoVideoID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ExtractVideoID(%q) error = %v, want %v", tt.url, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) unexpected error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// Long-form and short-form URLs carrying the same ID must resolve identically.
func TestExtractVideoIDShapeInvariance(t *testing.T) {
	shapes := []string{
		"https://www.youtube.com/watch?v=abc123XYZ_-",
		"https://youtu.be/abc123XYZ_-",
		"https://www.youtube.com/watch?v=abc123XYZ_-&feature=share",
		"https://youtu.be/abc123XYZ_-?t=30",
	}

	for _, url := range shapes {
		got, err := ExtractVideoID(url)
		if err != nil {
			t.Fatalf("ExtractVideoID(%q) unexpected error: %v", url, err)
		}
		if got != "abc123XYZ_-" {
			t.Errorf("ExtractVideoID(%q) = %q, want abc123XYZ_-", url, got)
		}
	}
}
