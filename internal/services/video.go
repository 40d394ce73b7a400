package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os/exec"
	"regexp"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bkinvest/dashboard-api/internal/models"
)

const defaultNoembedURL = "https://noembed.com/embed"

// Recognized YouTube URL shapes, plus a bare 11-character id.
var (
	videoURLPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/|youtube\.com/live/)([A-Za-z0-9_-]{11})`)
	bareIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID derives the canonical 11-character video id from a URL or a
// bare id. Unrecognized shapes are a validation error, not an upstream one.
func ExtractVideoID(input string) (string, error) {
	if m := videoURLPattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	if bareIDPattern.MatchString(input) {
		return input, nil
	}
	return "", models.ErrInvalidVideoURL
}

// VideoService fetches embed metadata and extracts transcripts for a single
// video. Metadata is best-effort; transcript extraction runs the bundled
// Python helper under a hard timeout. The two outcomes are independent.
type VideoService struct {
	client     *http.Client
	noembedURL string
	scriptPath string
	timeout    time.Duration
	logger     *slog.Logger
}

func NewVideoService(scriptPath string, timeout time.Duration, logger *slog.Logger) *VideoService {
	return &VideoService{
		client:     &http.Client{Timeout: 10 * time.Second},
		noembedURL: defaultNoembedURL,
		scriptPath: scriptPath,
		timeout:    timeout,
		logger:     logger,
	}
}

// Metadata looks up title, channel and thumbnail via noembed. Any failure or
// missing field falls back to a default; this lookup never fails the request.
func (s *VideoService) Metadata(ctx context.Context, videoID string) models.VideoMetadata {
	meta := models.VideoMetadata{
		VideoID:      videoID,
		Title:        "Unknown Title",
		Channel:      "Unknown Channel",
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID),
	}

	videoURL := "https://www.youtube.com/watch?v=" + videoID
	reqURL := s.noembedURL + "?url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return meta
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("noembed lookup failed", slog.String("video_id", videoID), slog.Any("error", err))
		return meta
	}
	defer resp.Body.Close()

	var embed struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&embed); err != nil {
		s.logger.Warn("noembed response malformed", slog.String("video_id", videoID), slog.Any("error", err))
		return meta
	}

	if embed.Title != "" {
		meta.Title = embed.Title
	}
	if embed.AuthorName != "" {
		meta.Channel = embed.AuthorName
	}
	if embed.ThumbnailURL != "" {
		meta.ThumbnailURL = embed.ThumbnailURL
	}
	return meta
}

// transcriptPayload is the helper script's stdout contract: exactly one of
// transcript or error.
type transcriptPayload struct {
	Transcript string `json:"transcript"`
	Error      string `json:"error"`
}

// Transcript runs the extraction subprocess with a hard timeout and returns a
// tagged outcome. A hang, crash or script-reported error never propagates as
// a request failure.
func (s *VideoService) Transcript(ctx context.Context, videoID string) models.TranscriptOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "python3", s.scriptPath, videoID)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		s.logger.Warn("transcript extraction timed out",
			slog.String("video_id", videoID),
			slog.Duration("timeout", s.timeout))
		return models.TranscriptOutcome{
			Timeout: true,
			Reason:  fmt.Sprintf("Transcript extraction timed out after %s.", s.timeout),
		}
	}

	var payload transcriptPayload
	if decodeErr := json.Unmarshal(stdout.Bytes(), &payload); decodeErr == nil && payload.Error != "" {
		return models.TranscriptOutcome{Reason: "Transcript unavailable: " + payload.Error}
	} else if decodeErr == nil && payload.Transcript != "" {
		return models.TranscriptOutcome{Text: payload.Transcript, OK: true}
	}

	if err != nil {
		var exitErr *exec.ExitError
		reason := "Transcript extraction failed."
		if errors.As(err, &exitErr) {
			reason = fmt.Sprintf("Transcript extraction failed (exit code %d).", exitErr.ExitCode())
		}
		s.logger.Warn("transcript subprocess failed", slog.String("video_id", videoID), slog.Any("error", err))
		return models.TranscriptOutcome{Reason: reason}
	}

	return models.TranscriptOutcome{Reason: "Transcript extraction produced no output."}
}
