package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"google.golang.org/genai"

	"github.com/bkinvest/dashboard-api/internal/models"
)

// Transcript budget before the prompt; longer inputs are cut with a marker.
const maxTranscriptChars = 100_000

const truncationMarker = "\n\n[트랜스크립트가 길어 일부 잘림]"

const summarySystemPrompt = `당신은 투자 영상 분석 전문가입니다. YouTube 투자 영상의 트랜스크립트를 받아 구조화된 요약을 생성합니다.

반드시 아래 JSON 형식으로만 응답하세요. 다른 텍스트는 포함하지 마세요:

{
  "summary": "영상의 핵심 내용을 3~5 문단으로 상세히 요약. 발표자의 핵심 주장, 데이터/차트 분석 내용, 시장 전망을 포함. 구체적인 숫자와 날짜를 최대한 포함.",
  "investmentGuide": "1. 단기 전략 (1~4주)\n구체적인 행동 지침...\n\n2. 중기 전략 (1~6개월)\n...\n\n3. 장기 전략 (6~12개월)\n...\n\n4. 리스크 관리\n주의사항과 리스크 요인...",
  "keyPoints": ["핵심 포인트 1", "핵심 포인트 2", "...(최대 10개)"],
  "tags": ["관련 태그1", "태그2", "...(3~6개)"]
}`

// SummarizeService turns a video transcript into a structured investment
// summary via Gemini. Unlike the read aggregators there is no sample
// fallback: a missing key or an unparseable model reply is an explicit error.
type SummarizeService struct {
	apiKey string
	model  string
	logger *slog.Logger
}

func NewSummarizeService(apiKey, model string, logger *slog.Logger) *SummarizeService {
	return &SummarizeService{
		apiKey: apiKey,
		model:  model,
		logger: logger,
	}
}

// Summarize sends the (truncated) transcript to the model and parses its
// JSON-only reply.
func (s *SummarizeService) Summarize(ctx context.Context, transcript, title, channel string) (models.VideoSummary, error) {
	if s.apiKey == "" {
		return models.VideoSummary{}, fmt.Errorf("%w: GEMINI_API_KEY", models.ErrNotConfigured)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return models.VideoSummary{}, fmt.Errorf("create gemini client: %w", err)
	}

	userMessage := fmt.Sprintf(`영상 제목: %q
채널: %s

아래는 영상의 트랜스크립트입니다. 이를 분석하여 투자 관점에서 구조화된 요약을 생성해주세요.

---
%s
---`, title, channel, TruncateTranscript(transcript))

	resp, err := client.Models.GenerateContent(ctx, s.model, genai.Text(userMessage), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: summarySystemPrompt}}},
	})
	if err != nil {
		return models.VideoSummary{}, fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return models.VideoSummary{}, fmt.Errorf("%w: empty response", models.ErrBadModelOutput)
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	summary, err := ParseModelSummary(text)
	if err != nil {
		s.logger.Error("failed to parse model response", slog.String("response", text))
		return models.VideoSummary{}, err
	}
	return summary, nil
}

// TruncateTranscript enforces the character budget, appending an explicit
// marker when the transcript was cut.
func TruncateTranscript(transcript string) string {
	if len(transcript) <= maxTranscriptChars {
		return transcript
	}
	return transcript[:maxTranscriptChars] + truncationMarker
}

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ParseModelSummary decodes the model's JSON reply, tolerating a surrounding
// markdown code fence. Missing fields default to empty values so a partially
// well-formed reply still yields a usable record; invalid JSON does not.
func ParseModelSummary(text string) (models.VideoSummary, error) {
	jsonStr := strings.TrimSpace(text)
	if m := codeFencePattern.FindStringSubmatch(jsonStr); m != nil {
		jsonStr = strings.TrimSpace(m[1])
	}

	var summary models.VideoSummary
	if err := json.Unmarshal([]byte(jsonStr), &summary); err != nil {
		return models.VideoSummary{}, fmt.Errorf("%w: %v", models.ErrBadModelOutput, err)
	}

	if summary.KeyPoints == nil {
		summary.KeyPoints = []string{}
	}
	if summary.Tags == nil {
		summary.Tags = []string{}
	}
	return summary, nil
}
