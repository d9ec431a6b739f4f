// Package transcript retrieves and cleans caption tracks from YouTube's
// timedtext endpoint.
package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/snotevid/video-notes-go/pkg/logger"
)

// Transcripts shorter than this after cleaning are too sparse to analyze and
// are treated as absent.
const minUsefulLength = 100

var bracketedPattern = regexp.MustCompile(`\[[^\]]*\]`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// Segment is a single timed snippet of a caption track.
type Segment struct {
	Text  string `xml:",chardata"`
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
}

type timedTextDocument struct {
	XMLName  xml.Name  `xml:"transcript"`
	Segments []Segment `xml:"text"`
}

type trackList struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []struct {
		LangCode string `xml:"lang_code,attr"`
		Name     string `xml:"name,attr"`
	} `xml:"track"`
}

// Client fetches caption tracks over HTTP.
type Client struct {
	baseURL         string
	defaultLanguage string
	httpClient      *http.Client
}

// Config holds the configuration for the transcript client.
type Config struct {
	BaseURL         string // e.g. "https://www.youtube.com"
	DefaultLanguage string // retried after the preferred language fails
	Timeout         time.Duration
}

// NewClient creates a new transcript client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}

	return &Client{
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		defaultLanguage: cfg.DefaultLanguage,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
	}
}

// fetchStrategy is one attempt in the ordered fallback chain.
type fetchStrategy struct {
	name string
	run  func(ctx context.Context) ([]Segment, error)
}

// Fetch retrieves a usable transcript for the video, trying the preferred
// language, then the default language, then the first available track. The
// first strategy that yields segments wins; its cleaned text must still meet
// the minimum-usefulness threshold. Every failure is soft: the second return
// value reports whether a usable transcript was found.
func (c *Client) Fetch(ctx context.Context, videoID, preferredLanguage string) (string, bool) {
	strategies := []fetchStrategy{
		{
			name: "preferred language",
			run: func(ctx context.Context) ([]Segment, error) {
				return c.fetchTrack(ctx, videoID, preferredLanguage)
			},
		},
		{
			name: "default language",
			run: func(ctx context.Context) ([]Segment, error) {
				return c.fetchTrack(ctx, videoID, c.defaultLanguage)
			},
		},
		{
			name: "first available track",
			run: func(ctx context.Context) ([]Segment, error) {
				return c.fetchFirstAvailable(ctx, videoID)
			},
		},
	}

	for _, s := range strategies {
		segments, err := s.run(ctx)
		if err != nil {
			logger.Log.Debug("transcript strategy failed",
				zap.String("strategy", s.name),
				zap.String("videoId", videoID),
				zap.Error(err),
			)
			continue
		}
		if len(segments) == 0 {
			continue
		}

		text := CleanSegments(segments)
		if len(text) < minUsefulLength {
			// Too short to be useful, probably auto-generated noise.
			logger.Log.Debug("transcript below usefulness threshold",
				zap.String("videoId", videoID),
				zap.Int("length", len(text)),
			)
			return "", false
		}
		return text, true
	}

	return "", false
}

func (c *Client) fetchTrack(ctx context.Context, videoID, language string) ([]Segment, error) {
	url := fmt.Sprintf("%s/api/timedtext?v=%s&lang=%s", c.baseURL, videoID, language)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var doc timedTextDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext response: %w", err)
	}

	return doc.Segments, nil
}

// fetchFirstAvailable lists the video's caption tracks and fetches the first
// one regardless of language.
func (c *Client) fetchFirstAvailable(ctx context.Context, videoID string) ([]Segment, error) {
	url := fmt.Sprintf("%s/api/timedtext?type=list&v=%s", c.baseURL, videoID)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parse track list: %w", err)
	}

	if len(list.Tracks) == 0 {
		return nil, fmt.Errorf("no caption tracks available")
	}

	return c.fetchTrack(ctx, videoID, list.Tracks[0].LangCode)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("empty timedtext response")
	}

	return body, nil
}

// CleanSegments joins segments with single spaces, strips bracketed
// annotations such as [Music], collapses whitespace and trims the result.
func CleanSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}

	text := strings.Join(parts, " ")
	text = bracketedPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
