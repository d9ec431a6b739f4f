package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNotesPrompt(t *testing.T) {
	tests := []struct {
		name           string
		fromTranscript bool
		language       string
		wantLanguage   string
		wantInference  bool
	}{
		{
			name:           "transcript content in english",
			fromTranscript: true,
			language:       "en",
			wantLanguage:   "English",
			wantInference:  false,
		},
		{
			name:           "transcript content in spanish",
			fromTranscript: true,
			language:       "es",
			wantLanguage:   "Spanish",
			wantInference:  false,
		},
		{
			name:           "metadata content adds inference directive",
			fromTranscript: false,
			language:       "hi",
			wantLanguage:   "Hindi",
			wantInference:  true,
		},
		{
			name:           "unknown language defaults to english",
			fromTranscript: true,
			language:       "xx",
			wantLanguage:   "English",
			wantInference:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := buildNotesPrompt("some content", tt.fromTranscript, tt.language, "My Video")

			assert.Contains(t, prompt, "Target Language: "+tt.wantLanguage)
			assert.Contains(t, prompt, "Video Title: My Video")
			assert.Contains(t, prompt, "reference markers like [1], [2], [3]")
			assert.Contains(t, prompt, `"Key Takeaways" section`)
			assert.Contains(t, prompt, "some content")

			if tt.wantInference {
				assert.Contains(t, prompt, "educated inferences")
				assert.Contains(t, prompt, "Video Information:")
			} else {
				assert.NotContains(t, prompt, "educated inferences")
				assert.Contains(t, prompt, "Transcript:")
			}
		})
	}
}

func TestGenerateNotes(t *testing.T) {
	const notes = "# Study Notes\n\n- Point one [1]\n\n## Key Takeaways\n\n- Done"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1beta/models/gemini-2.5-flash:generateContent"))
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "study notes")

		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": notes}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "gemini-2.5-flash", APIKey: "test-key"})

	got, err := client.GenerateNotes(context.Background(), "transcript text", true, "en", "Title")
	require.NoError(t, err)
	assert.Equal(t, notes, got)
}

func TestGenerateNotesEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "gemini-2.5-flash"})

	_, err := client.GenerateNotes(context.Background(), "content", true, "en", "Title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion response")
}

func TestGenerateNotesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "gemini-2.5-flash"})

	_, err := client.GenerateNotes(context.Background(), "content", true, "en", "Title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
