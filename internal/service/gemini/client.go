// Package gemini is a client for the Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// languageNames maps supported language codes to display names used in the
// prompt. Unrecognized codes fall back to English for display, but the code
// itself is still stored on the record.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"hi": "Hindi",
	"fr": "French",
	"de": "German",
}

// Client is a client for the Gemini text completion API. It is constructed
// once at startup and injected into the notes pipeline.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// Config holds the configuration for the Gemini client.
type Config struct {
	BaseURL string        // e.g. "https://generativelanguage.googleapis.com"
	Model   string        // e.g. "gemini-2.5-flash"
	APIKey  string
	Timeout time.Duration // Request timeout (default: 60 seconds)
}

// NewClient creates a new Gemini client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		model:   config.Model,
		apiKey:  config.APIKey,
		timeout: config.Timeout,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// generateContentRequest represents a request to the generateContent endpoint.
type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateContentResponse represents a response from the generateContent endpoint.
type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateNotes sends the analyzable content to the model and returns the
// generated markdown study notes. A single non-streaming completion call is
// made per request; an error or empty text payload is terminal for the
// caller's pipeline.
func (c *Client) GenerateNotes(ctx context.Context, analyzable string, fromTranscript bool, language, videoTitle string) (string, error) {
	prompt := buildNotesPrompt(analyzable, fromTranscript, language, videoTitle)

	reqPayload := generateContentRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}

	reqBody, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request to Gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(body))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("parse Gemini response: %w", err)
	}

	notes := extractText(&genResp)
	if notes == "" {
		return "", fmt.Errorf("empty completion response")
	}

	return notes, nil
}

// extractText joins the text parts of the first candidate.
func extractText(resp *generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

// buildNotesPrompt constructs the single directive-style prompt for study
// note generation. Metadata-derived content gets an extra directive allowing
// educated inference about likely subject matter.
func buildNotesPrompt(analyzable string, fromTranscript bool, language, videoTitle string) string {
	targetLanguage, ok := languageNames[language]
	if !ok {
		targetLanguage = "English"
	}

	contentKind := "video transcript"
	contentLabel := "Transcript:"
	if !fromTranscript {
		contentKind = "video information"
		contentLabel = "Video Information:"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `You are an expert educational content creator. Please analyze the following %s and create comprehensive, well-structured study notes.

Video Title: %s
Target Language: %s

Instructions:
1. Create detailed, hierarchical study notes with clear headings and subheadings
2. Include key concepts, definitions, and important points based on the available information
3. Use bullet points and numbered lists for clarity
4. Add reference markers like [1], [2], [3], etc. at key points where visual aids would be helpful
5. Organize content logically with proper sections
6. If the content is not in %s, translate while maintaining accuracy
7. Focus on educational value and comprehension
8. Include a "Key Takeaways" section at the end
9. Use markdown formatting for better structure
`, contentKind, videoTitle, targetLanguage, targetLanguage)

	if !fromTranscript {
		sb.WriteString("10. Since transcript is not available, create comprehensive notes based on the title, description, and metadata provided. Make educated inferences about likely content topics and structure the notes as if explaining the subject matter covered in the video.\n")
	}

	fmt.Fprintf(&sb, `
%s
%s

Please generate comprehensive study notes in %s:`, contentLabel, analyzable, targetLanguage)

	return sb.String()
}

// GetPromptText returns the prompt that would be sent for the given inputs.
func (c *Client) GetPromptText(analyzable string, fromTranscript bool, language, videoTitle string) string {
	return buildNotesPrompt(analyzable, fromTranscript, language, videoTitle)
}
