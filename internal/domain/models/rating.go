package models

import (
	"encoding/json"
	"time"
)

// Variant identifies one recommendation flavor: which storage collection its
// documents live under and which ordered rating scale its answers use.
type Variant struct {
	Name       string
	Collection string
	Scale      []string
}

var (
	RatingVariant = Variant{
		Name:       "rating",
		Collection: "ratings",
		Scale:      []string{"Buy", "Hold", "Sell"},
	}
	PredictionVariant = Variant{
		Name:       "prediction",
		Collection: "predictions",
		Scale:      []string{"Strong Buy", "Buy", "Hold", "Sell", "Strong Sell"},
	}
)

// Recommendation is the structured answer produced by the generative model.
// Confidence and CriteriaCount are pointers so their absence survives a
// round-trip through storage.
type Recommendation struct {
	Rating        string   `json:"rating"`
	TargetPrice   float64  `json:"target_price"`
	Reason        string   `json:"reason"`
	Confidence    *float64 `json:"confidence,omitempty"`
	CriteriaCount *float64 `json:"criteria_count,omitempty"`
}

// Quote is the real-time market quote for a symbol.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	Change           float64 `json:"change"`
	DayLow           float64 `json:"dayLow"`
	DayHigh          float64 `json:"dayHigh"`
	YearLow          float64 `json:"yearLow"`
	YearHigh         float64 `json:"yearHigh"`
	MarketCap        float64 `json:"marketCap"`
	PriceAvg50       float64 `json:"priceAvg50"`
	PriceAvg200      float64 `json:"priceAvg200"`
	Volume           float64 `json:"volume"`
	AvgVolume        float64 `json:"avgVolume"`
	EPS              float64 `json:"eps"`
	PE               float64 `json:"pe"`
}

// ESGScore is the latest environmental/social/governance rating for a symbol.
type ESGScore struct {
	Symbol             string  `json:"symbol"`
	CompanyName        string  `json:"companyName"`
	EnvironmentalScore float64 `json:"environmentalScore"`
	SocialScore        float64 `json:"socialScore"`
	GovernanceScore    float64 `json:"governanceScore"`
	ESGScore           float64 `json:"ESGScore"`
	Year               int     `json:"year,omitempty"`
}

// TechnicalPoint is a single dated technical-indicator reading.
type TechnicalPoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	RSI    float64 `json:"rsi"`
}

// Snapshot is the merged upstream picture a prompt is synthesized from.
// Any slot may be nil when its source failed; Outlook is kept raw because
// its shape is large and only echoed into the prompt.
type Snapshot struct {
	Quote     *Quote           `json:"quote,omitempty"`
	Outlook   json.RawMessage  `json:"outlook,omitempty"`
	ESG       *ESGScore        `json:"esg,omitempty"`
	Technical []TechnicalPoint `json:"technical,omitempty"`
}

// Empty reports whether every slot of the snapshot is missing.
func (s *Snapshot) Empty() bool {
	return s.Quote == nil && len(s.Outlook) == 0 && s.ESG == nil && len(s.Technical) == 0
}

// RatingDocument is the stored unit of work: the recommendation plus the
// inputs it was derived from and when they were fetched.
type RatingDocument struct {
	Symbol         string         `json:"symbol"`
	Recommendation Recommendation `json:"recommendation"`
	CurrentPrice   float64        `json:"current_price,omitempty"`
	FetchedData    *Snapshot      `json:"fetched_data,omitempty"`
	LastFetched    time.Time      `json:"last_fetched"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Fresh reports whether the document's age is strictly under ttl at now.
func (d *RatingDocument) Fresh(now time.Time, ttl time.Duration) bool {
	if d.LastFetched.IsZero() {
		return false
	}
	return now.Sub(d.LastFetched) < ttl
}

// RatingRequest is the query shape for the rating and prediction endpoints.
type RatingRequest struct {
	Symbol string `query:"symbol" validate:"required"`
}

// RatingResponse is the wire shape returned to callers.
type RatingResponse struct {
	Recommendation
	CurrentPrice float64 `json:"current_price,omitempty"`
}

// PriceTick is one live trade observation from the market stream.
type PriceTick struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// RatingEvent is the record published to downstream backends whenever a
// recommendation is computed fresh.
type RatingEvent struct {
	Symbol       string    `json:"symbol"`
	Variant      string    `json:"variant"`
	Rating       string    `json:"rating"`
	TargetPrice  float64   `json:"target_price"`
	Confidence   *float64  `json:"confidence,omitempty"`
	CurrentPrice float64   `json:"current_price,omitempty"`
	ComputedAt   time.Time `json:"computed_at"`
}
