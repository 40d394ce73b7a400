package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bkinvest/dashboard-api/internal/models"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}
	for _, tc := range cases {
		got, err := ExtractVideoID(tc.input)
		assert.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestExtractVideoIDRejectsUnrecognizedShapes(t *testing.T) {
	for _, input := range []string{
		"",
		"https://vimeo.com/123456789",
		"https://www.youtube.com/channel/UCRvqjQPSeaWn-uEx-w0XOIg",
		"tooshort",
		"way-too-long-to-be-a-video-id",
	} {
		_, err := ExtractVideoID(input)
		assert.ErrorIs(t, err, models.ErrInvalidVideoURL, "input %q", input)
	}
}

func newTestVideo(scriptPath string, timeout time.Duration) *VideoService {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return NewVideoService(scriptPath, timeout, logger)
}

func TestMetadataUsesEmbedFields(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"title":"Bitcoin: Logarithmic Regression","author_name":"Benjamin Cowen","thumbnail_url":"https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"}`)
	}))
	defer upstream.Close()

	svc := newTestVideo("scripts/fetch_transcript.py", time.Second)
	svc.noembedURL = upstream.URL

	meta := svc.Metadata(context.Background(), "dQw4w9WgXcQ")

	assert.Equal(t, "Bitcoin: Logarithmic Regression", meta.Title)
	assert.Equal(t, "Benjamin Cowen", meta.Channel)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", meta.ThumbnailURL)
}

func TestMetadataDefaultsOnFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer upstream.Close()

	svc := newTestVideo("scripts/fetch_transcript.py", time.Second)
	svc.noembedURL = upstream.URL

	meta := svc.Metadata(context.Background(), "dQw4w9WgXcQ")

	assert.Equal(t, "Unknown Title", meta.Title)
	assert.Equal(t, "Unknown Channel", meta.Channel)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", meta.ThumbnailURL)
}

func requirePython(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fetch.py")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscriptSuccess(t *testing.T) {
	requirePython(t)
	script := writeScript(t, `import json,sys
print(json.dumps({"transcript": "hello world", "snippets": 2}))
`)

	svc := newTestVideo(script, 10*time.Second)
	outcome := svc.Transcript(context.Background(), "dQw4w9WgXcQ")

	assert.True(t, outcome.OK)
	assert.Equal(t, "hello world", outcome.Text)
}

func TestTranscriptScriptError(t *testing.T) {
	requirePython(t)
	script := writeScript(t, `import json,sys
print(json.dumps({"error": "Subtitles are disabled for this video"}))
sys.exit(1)
`)

	svc := newTestVideo(script, 10*time.Second)
	outcome := svc.Transcript(context.Background(), "dQw4w9WgXcQ")

	assert.False(t, outcome.OK)
	assert.False(t, outcome.Timeout)
	assert.Contains(t, outcome.Reason, "Subtitles are disabled")
}

func TestTranscriptTimeout(t *testing.T) {
	requirePython(t)
	script := writeScript(t, `import time
time.sleep(5)
`)

	svc := newTestVideo(script, 200*time.Millisecond)
	outcome := svc.Transcript(context.Background(), "dQw4w9WgXcQ")

	assert.False(t, outcome.OK)
	assert.True(t, outcome.Timeout)
	assert.NotEmpty(t, outcome.Reason)
}

func TestTranscriptMissingScript(t *testing.T) {
	requirePython(t)
	svc := newTestVideo(filepath.Join(t.TempDir(), "does-not-exist.py"), time.Second)
	outcome := svc.Transcript(context.Background(), "dQw4w9WgXcQ")

	assert.False(t, outcome.OK)
	assert.False(t, outcome.Timeout)
	assert.NotEmpty(t, outcome.Reason)
}
