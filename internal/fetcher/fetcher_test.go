package fetcher

import (
	"errors"
	"testing"

	"github.com/lecturepipe/backend/internal/domain"
)

func TestParseVideoID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch with extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&index=2", "dQw4w9WgXcQ"},
		{"short", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseVideoID(tc.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseVideoIDInvalid(t *testing.T) {
	cases := []string{
		"",
		"https://example.com/not-youtube",
		"https://www.youtube.com/watch?v=short",
		"not a url at all",
	}
	for _, url := range cases {
		_, err := ParseVideoID(url)
		if !errors.Is(err, domain.ErrInvalidURL) {
			t.Errorf("url %q: expected ErrInvalidURL, got %v", url, err)
		}
	}
}
