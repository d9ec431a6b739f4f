// Package frames derives key frame references for processed videos.
package frames

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Extractor is a pluggable key frame derivation strategy. Implementations
// return an ordered list of frame references; on success the list is never
// empty.
type Extractor interface {
	ExtractKeyFrames(ctx context.Context, videoID, duration string) ([]string, error)
}

// placeholderSVG is written once into the frames directory and shared by all
// derived frame references.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="320" height="180" viewBox="0 0 320 180">
  <rect width="320" height="180" fill="#1f2937"/>
  <circle cx="160" cy="90" r="28" fill="#4b5563"/>
  <polygon points="152,76 152,104 176,90" fill="#e5e7eb"/>
</svg>
`

// PlaceholderExtractor returns a fixed count of placeholder frame references.
// Real frame selection (video download plus scene analysis) is a separate
// service; this strategy keeps the pipeline shape intact without it.
type PlaceholderExtractor struct {
	dir        string
	publicPath string
	count      int
}

// Config holds the configuration for the placeholder extractor.
type Config struct {
	Dir        string // filesystem directory for frame assets
	PublicPath string // public URL prefix the assets are served under
	Count      int
}

// NewPlaceholderExtractor creates a placeholder frame extractor.
func NewPlaceholderExtractor(cfg Config) *PlaceholderExtractor {
	if cfg.Count <= 0 {
		cfg.Count = 4
	}
	return &PlaceholderExtractor{
		dir:        cfg.Dir,
		publicPath: cfg.PublicPath,
		count:      cfg.Count,
	}
}

// ExtractKeyFrames ensures the frame directory and shared placeholder asset
// exist, then returns the configured number of frame references. Directory
// creation is idempotent and safe under concurrent requests.
func (e *PlaceholderExtractor) ExtractKeyFrames(ctx context.Context, videoID, duration string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frames directory: %w", err)
	}

	assetPath := filepath.Join(e.dir, "placeholder.svg")
	if _, err := os.Stat(assetPath); os.IsNotExist(err) {
		if err := os.WriteFile(assetPath, []byte(placeholderSVG), 0o644); err != nil {
			return nil, fmt.Errorf("write placeholder asset: %w", err)
		}
	}

	refs := make([]string, 0, e.count)
	for i := 0; i < e.count; i++ {
		refs = append(refs, e.publicPath+"/placeholder.svg")
	}

	return refs, nil
}
