package models

// FearGreedReading is a point-in-time Fear & Greed Index value.
type FearGreedReading struct {
	Source         string `json:"source"`
	Value          int    `json:"value"`
	Classification string `json:"classification"`
	Timestamp      string `json:"timestamp"`
}

// FearGreedPoint is one day in the index history.
type FearGreedPoint struct {
	Date           string `json:"date"`
	Value          int    `json:"value"`
	Classification string `json:"classification"`
}

// FearGreedHistory is a chronologically ordered series, oldest first.
type FearGreedHistory struct {
	Source string           `json:"source"`
	Data   []FearGreedPoint `json:"data"`
}

// ClassifyFearGreed maps an index value into its qualitative band.
func ClassifyFearGreed(value int) string {
	switch {
	case value <= 20:
		return "Extreme Fear"
	case value <= 40:
		return "Fear"
	case value <= 60:
		return "Neutral"
	case value <= 80:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}
