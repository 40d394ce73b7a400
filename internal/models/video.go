package models

// FeedVideo is the normalized latest-video record served by the content feed.
type FeedVideo struct {
	Source    string `json:"source"`
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Author    string `json:"author"`
	Published string `json:"published"`
	Link      string `json:"link"`
}

// VideoMetadata holds best-effort embed metadata for a single video.
type VideoMetadata struct {
	VideoID      string
	Title        string
	Channel      string
	ThumbnailURL string
}

// TranscriptOutcome tags the result of the transcript subprocess. Metadata and
// transcript availability are independent: a failed transcript still yields a
// usable response.
type TranscriptOutcome struct {
	Text    string // empty unless OK
	OK      bool
	Timeout bool
	Reason  string // human-readable explanation when !OK
}

// VideoSummary is the structured output of the AI summarization stage.
type VideoSummary struct {
	Summary         string   `json:"summary"`
	InvestmentGuide string   `json:"investmentGuide"`
	KeyPoints       []string `json:"keyPoints"`
	Tags            []string `json:"tags"`
}
