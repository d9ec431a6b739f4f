// Package parser extracts canonical YouTube video identifiers from
// user-supplied URLs.
package parser

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrNotYouTubeURL is returned when the URL contains no recognized
	// YouTube host marker.
	ErrNotYouTubeURL = errors.New("not a YouTube URL")

	// ErrNoVideoID is returned when a YouTube host is present but no video
	// ID pattern matches.
	ErrNoVideoID = errors.New("could not extract video ID from URL")
)

// Matches both long-form watch URLs and short-form youtu.be URLs. The ID runs
// up to the first of &, newline, ? or #.
var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)

// ExtractVideoID returns the canonical video identifier embedded in url.
// It is a pure function: no I/O, no side effects.
func ExtractVideoID(url string) (string, error) {
	if !strings.Contains(url, "youtube.com") && !strings.Contains(url, "youtu.be") {
		return "", ErrNotYouTubeURL
	}

	match := videoIDPattern.FindStringSubmatch(url)
	if match == nil || match[1] == "" {
		return "", ErrNoVideoID
	}

	return match[1], nil
}
