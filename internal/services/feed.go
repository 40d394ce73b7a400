package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bkinvest/dashboard-api/internal/config"
	"github.com/bkinvest/dashboard-api/internal/models"
)

const (
	// SourceNotion labels feed data served from the Notion content store.
	SourceNotion = "notion"
	// SourceYouTubeRSS labels feed data served from the channel Atom feed.
	SourceYouTubeRSS = "youtube_rss"

	defaultNotionURL  = "https://api.notion.com/v1"
	defaultYouTubeURL = "https://www.youtube.com"
	notionVersion     = "2022-06-28"
)

// FeedService resolves the latest video record: the Notion content store
// first, the public channel Atom feed second, a fixed sample last. Missing
// Notion credentials simply skip the first stage.
type FeedService struct {
	client     *http.Client
	notionURL  string
	youtubeURL string
	notion     config.NotionConfig
	channelID  string
	logger     *slog.Logger
	now        func() time.Time
}

func NewFeedService(notion config.NotionConfig, channelID string, logger *slog.Logger) *FeedService {
	return &FeedService{
		client:     &http.Client{Timeout: 10 * time.Second},
		notionURL:  defaultNotionURL,
		youtubeURL: defaultYouTubeURL,
		notion:     notion,
		channelID:  channelID,
		logger:     logger,
		now:        time.Now,
	}
}

// Latest returns the most recent video, tagged with the source that served it.
func (s *FeedService) Latest(ctx context.Context) models.FeedVideo {
	video, source := Resolve(ctx, s.logger,
		Source[models.FeedVideo]{Name: SourceNotion, Fetch: s.fetchNotion},
		Source[models.FeedVideo]{Name: SourceYouTubeRSS, Fetch: s.fetchRSS},
		Source[models.FeedVideo]{Name: SourceSample, Fetch: func(context.Context) (models.FeedVideo, error) {
			return s.sample(), nil
		}},
	)
	video.Source = source
	return video
}

// notionQueryResponse models just the property shapes the feed reads out of
// the page's semi-structured property bag.
type notionQueryResponse struct {
	Results []struct {
		Properties struct {
			Name struct {
				Title []struct {
					PlainText string `json:"plain_text"`
				} `json:"title"`
			} `json:"Name"`
			URL struct {
				URL string `json:"url"`
			} `json:"URL"`
			Channel struct {
				RichText []struct {
					PlainText string `json:"plain_text"`
				} `json:"rich_text"`
			} `json:"Channel"`
			Date struct {
				Date struct {
					Start string `json:"start"`
				} `json:"date"`
			} `json:"Date"`
		} `json:"properties"`
	} `json:"results"`
}

func (s *FeedService) fetchNotion(ctx context.Context) (models.FeedVideo, error) {
	if s.notion.APIKey == "" || s.notion.DatabaseID == "" {
		return models.FeedVideo{}, fmt.Errorf("%w: notion", models.ErrNotConfigured)
	}

	query := map[string]any{
		"filter": map[string]any{
			"property": "Category",
			"select":   map[string]any{"equals": s.notion.Category},
		},
		"sorts":     []map[string]any{{"property": "Date", "direction": "descending"}},
		"page_size": 1,
	}
	body, err := json.Marshal(query)
	if err != nil {
		return models.FeedVideo{}, err
	}

	url := fmt.Sprintf("%s/databases/%s/query", s.notionURL, s.notion.DatabaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return models.FeedVideo{}, err
	}
	req.Header.Set("Authorization", "Bearer "+s.notion.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return models.FeedVideo{}, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.FeedVideo{}, fmt.Errorf("%w: notion responded %d", models.ErrUpstream, resp.StatusCode)
	}

	var out notionQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.FeedVideo{}, err
	}
	if len(out.Results) == 0 {
		return models.FeedVideo{}, fmt.Errorf("no matching page for category %q", s.notion.Category)
	}

	props := out.Results[0].Properties

	title := "Untitled"
	if len(props.Name.Title) > 0 && props.Name.Title[0].PlainText != "" {
		title = props.Name.Title[0].PlainText
	}
	channel := ""
	if len(props.Channel.RichText) > 0 {
		channel = props.Channel.RichText[0].PlainText
	}

	videoID, err := ExtractVideoID(props.URL.URL)
	if err != nil {
		return models.FeedVideo{}, fmt.Errorf("page URL %q: %w", props.URL.URL, err)
	}

	return models.FeedVideo{
		VideoID:   videoID,
		Title:     title,
		Thumbnail: fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", videoID),
		Author:    channel,
		Published: props.Date.Date.Start,
		Link:      props.URL.URL,
	}, nil
}

// atomFeed models the slice of the YouTube Atom feed the service reads. The
// yt:videoId element matches on its local name.
type atomFeed struct {
	AuthorName string `xml:"author>name"`
	Entries    []struct {
		VideoID   string `xml:"videoId"`
		Title     string `xml:"title"`
		Published string `xml:"published"`
		Link      struct {
			Href string `xml:"href,attr"`
		} `xml:"link"`
	} `xml:"entry"`
}

func (s *FeedService) fetchRSS(ctx context.Context) (models.FeedVideo, error) {
	url := fmt.Sprintf("%s/feeds/videos.xml?channel_id=%s", s.youtubeURL, s.channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.FeedVideo{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.FeedVideo{}, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.FeedVideo{}, fmt.Errorf("%w: feed responded %d", models.ErrUpstream, resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return models.FeedVideo{}, err
	}
	if len(feed.Entries) == 0 || feed.Entries[0].VideoID == "" {
		return models.FeedVideo{}, fmt.Errorf("feed has no entries")
	}

	entry := feed.Entries[0]
	link := entry.Link.Href
	if link == "" {
		link = "https://www.youtube.com/watch?v=" + entry.VideoID
	}

	return models.FeedVideo{
		VideoID:   entry.VideoID,
		Title:     entry.Title,
		Thumbnail: fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", entry.VideoID),
		Author:    feed.AuthorName,
		Published: entry.Published,
		Link:      link,
	}, nil
}

func (s *FeedService) sample() models.FeedVideo {
	return models.FeedVideo{
		VideoID:   "eAzoXY1GfIo",
		Title:     "Bitcoin: Dubious Speculation",
		Thumbnail: "https://img.youtube.com/vi/eAzoXY1GfIo/mqdefault.jpg",
		Author:    "Benjamin Cowen",
		Published: s.now().UTC().Format(time.RFC3339),
		Link:      "https://www.youtube.com/watch?v=eAzoXY1GfIo",
	}
}
