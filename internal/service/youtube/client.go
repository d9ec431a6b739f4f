// Package youtube fetches video metadata, preferring the YouTube Data API v3
// and falling back to scraping the public watch page.
package youtube

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/snotevid/video-notes-go/internal/models"
	"github.com/snotevid/video-notes-go/pkg/logger"
)

const defaultWatchBaseURL = "https://www.youtube.com"

var (
	durationPattern  = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
	ogTitlePattern   = regexp.MustCompile(`<meta property="og:title" content="([^"]+)"`)
	ogImagePattern   = regexp.MustCompile(`<meta property="og:image" content="([^"]+)"`)
	ogDescPattern    = regexp.MustCompile(`<meta property="og:description" content="([^"]+)"`)
)

// Client fetches video metadata. When no API key is configured only the
// scrape path is available.
type Client struct {
	service      *ytapi.Service
	httpClient   *http.Client
	watchBaseURL string
}

// Config holds the configuration for the metadata client.
type Config struct {
	APIKey       string
	Timeout      time.Duration
	WatchBaseURL string // overridable for tests; defaults to youtube.com
}

// NewClient creates a new metadata client. An empty API key is not an error;
// it simply disables the Data API path.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.WatchBaseURL == "" {
		cfg.WatchBaseURL = defaultWatchBaseURL
	}

	c := &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		watchBaseURL: strings.TrimSuffix(cfg.WatchBaseURL, "/"),
	}

	if cfg.APIKey != "" {
		service, err := ytapi.NewService(ctx, option.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service: %w", err)
		}
		c.service = service
	}

	return c, nil
}

// FetchVideoInfo retrieves descriptive metadata for a video. The Data API is
// tried first when configured; on API error or an empty result the public
// watch page is scraped instead. The scrape path is lenient and synthesizes
// a title when none is found, so an error here means the video page itself
// was unreachable.
func (c *Client) FetchVideoInfo(ctx context.Context, videoID string) (*models.VideoInfo, error) {
	if c.service != nil {
		info, err := c.fetchFromAPI(ctx, videoID)
		if err == nil && info != nil {
			return info, nil
		}
		if err != nil {
			logger.Log.Warn("YouTube API lookup failed, falling back to page scrape",
				zap.Error(err),
				zap.String("videoId", videoID),
			)
		}
	}

	return c.scrapeWatchPage(ctx, videoID)
}

func (c *Client) fetchFromAPI(ctx context.Context, videoID string) (*models.VideoInfo, error) {
	call := c.service.Videos.List([]string{"snippet", "contentDetails"}).Id(videoID).Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("fetch video from YouTube API: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, nil
	}

	item := response.Items[0]
	info := &models.VideoInfo{
		Title:    fmt.Sprintf("Video %s", videoID),
		Duration: "Unknown",
		Tags:     []string{},
	}

	if item.Snippet != nil {
		if item.Snippet.Title != "" {
			info.Title = item.Snippet.Title
		}
		info.Description = item.Snippet.Description
		info.ChannelTitle = item.Snippet.ChannelTitle
		if item.Snippet.Tags != nil {
			info.Tags = item.Snippet.Tags
		}
		info.Thumbnail = pickThumbnail(item.Snippet.Thumbnails)
	}

	if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
		info.Duration = FormatDuration(item.ContentDetails.Duration)
	}

	return info, nil
}

// scrapeWatchPage extracts title, thumbnail and description from the
// social-preview meta tags embedded in the public watch page.
func (c *Client) scrapeWatchPage(ctx context.Context, videoID string) (*models.VideoInfo, error) {
	url := fmt.Sprintf("%s/watch?v=%s", c.watchBaseURL, videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create watch page request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	page := string(body)

	info := &models.VideoInfo{
		Title:    fmt.Sprintf("Video %s", videoID),
		Duration: "Unknown",
		Tags:     []string{},
	}

	if m := ogTitlePattern.FindStringSubmatch(page); m != nil {
		info.Title = html.UnescapeString(m[1])
	}
	if m := ogImagePattern.FindStringSubmatch(page); m != nil {
		info.Thumbnail = html.UnescapeString(m[1])
	}
	if m := ogDescPattern.FindStringSubmatch(page); m != nil {
		info.Description = html.UnescapeString(m[1])
	}

	return info, nil
}

// pickThumbnail chooses the best available thumbnail, high to default.
func pickThumbnail(thumbs *ytapi.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	if thumbs.High != nil && thumbs.High.Url != "" {
		return thumbs.High.Url
	}
	if thumbs.Medium != nil && thumbs.Medium.Url != "" {
		return thumbs.Medium.Url
	}
	if thumbs.Default != nil && thumbs.Default.Url != "" {
		return thumbs.Default.Url
	}
	return ""
}

// FormatDuration converts an ISO 8601 duration (PT4M13S) to a readable
// format (4:13). Unparseable input yields "Unknown".
func FormatDuration(duration string) string {
	match := durationPattern.FindStringSubmatch(duration)
	if match == nil {
		return "Unknown"
	}

	hours := atoiOrZero(match[1])
	minutes := atoiOrZero(match[2])
	seconds := atoiOrZero(match[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
