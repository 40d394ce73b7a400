package handlers

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/bkinvest/dashboard-api/internal/models"
	"github.com/bkinvest/dashboard-api/internal/services"
	pkghttp "github.com/bkinvest/dashboard-api/pkg/http"
)

// FeedProvider defines the interface for the content feed aggregator
type FeedProvider interface {
	Latest(ctx context.Context) models.FeedVideo
}

// VideoProvider defines the interface for metadata and transcript retrieval
type VideoProvider interface {
	Metadata(ctx context.Context, videoID string) models.VideoMetadata
	Transcript(ctx context.Context, videoID string) models.TranscriptOutcome
}

// Summarizer defines the interface for the AI summarization backend
type Summarizer interface {
	Summarize(ctx context.Context, transcript, title, channel string) (models.VideoSummary, error)
}

// YouTubeHandler serves the video feed, transcript and summarization
// endpoints.
type YouTubeHandler struct {
	feed       FeedProvider
	video      VideoProvider
	summarizer Summarizer
}

func NewYouTubeHandler(feed FeedProvider, video VideoProvider, summarizer Summarizer) *YouTubeHandler {
	return &YouTubeHandler{
		feed:       feed,
		video:      video,
		summarizer: summarizer,
	}
}

// TranscriptRequest represents the request body for transcript extraction
type TranscriptRequest struct {
	URL string `json:"url" validate:"required"`
}

// SummarizeRequest represents the request body for summarization
type SummarizeRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	Title      string `json:"title"`
	Channel    string `json:"channel"`
}

type transcriptResponse struct {
	Status       string  `json:"status"`
	VideoID      string  `json:"videoId"`
	Title        string  `json:"title"`
	Channel      string  `json:"channel"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Transcript   *string `json:"transcript"`
	Message      string  `json:"message,omitempty"`
}

type summarizeResponse struct {
	Status          string   `json:"status"`
	Summary         string   `json:"summary"`
	InvestmentGuide string   `json:"investmentGuide"`
	KeyPoints       []string `json:"keyPoints"`
	Tags            []string `json:"tags"`
}

// statusError is the error shape of the video pipeline endpoints.
type statusError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeStatusError(w http.ResponseWriter, code int, message string) {
	pkghttp.WriteJSON(w, code, statusError{Status: "error", Message: message})
}

// Latest returns the most recent video from the content feed. Live store data
// is served uncached (freshness over cache efficiency); feed and sample
// responses get a revalidation window.
func (h *YouTubeHandler) Latest(w http.ResponseWriter, r *http.Request) {
	video := h.feed.Latest(r.Context())

	if video.Source == services.SourceNotion {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "public, s-maxage=1800, stale-while-revalidate=3600")
	}
	pkghttp.WriteJSON(w, http.StatusOK, video)
}

// Transcript resolves metadata and transcript for a user-supplied video URL.
// Transcript failure or timeout still answers status ok with transcript null;
// only an unrecognized URL is a request error.
func (h *YouTubeHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	var req TranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "YouTube URL is required")
		return
	}
	if err := ValidateRequest(req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "YouTube URL is required")
		return
	}

	videoID, err := services.ExtractVideoID(req.URL)
	if err != nil {
		writeStatusError(w, http.StatusBadRequest, "Invalid YouTube URL")
		return
	}

	meta := h.video.Metadata(r.Context(), videoID)
	outcome := h.video.Transcript(r.Context(), videoID)

	resp := transcriptResponse{
		Status:       "ok",
		VideoID:      videoID,
		Title:        meta.Title,
		Channel:      meta.Channel,
		ThumbnailURL: meta.ThumbnailURL,
	}
	if outcome.OK {
		resp.Transcript = &outcome.Text
	} else {
		resp.Message = outcome.Reason
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// Summarize generates a structured summary for a transcript. No sample
// fallback exists here: configuration and parse failures surface as errors.
func (h *YouTubeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Transcript is required")
		return
	}
	if err := ValidateRequest(req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Transcript is required")
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), req.Transcript, req.Title, req.Channel)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotConfigured):
			writeStatusError(w, http.StatusInternalServerError,
				"GEMINI_API_KEY가 설정되지 않았습니다. .env에 추가해주세요.")
		case errors.Is(err, models.ErrBadModelOutput):
			writeStatusError(w, http.StatusInternalServerError, "AI 응답 파싱에 실패했습니다.")
		default:
			writeStatusError(w, http.StatusInternalServerError, "요약 생성에 실패했습니다.")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, summarizeResponse{
		Status:          "ok",
		Summary:         summary.Summary,
		InvestmentGuide: summary.InvestmentGuide,
		KeyPoints:       summary.KeyPoints,
		Tags:            summary.Tags,
	})
}
