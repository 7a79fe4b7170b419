package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"RatePull/internal/domain/models"
)

// Degradation clauses rendered when an upstream slot is missing. The prompt
// always states the absence in words; a literal null would leak into the
// generated answer.
const (
	noESGClause       = "No recent ESG data available."
	noTechnicalClause = "No recent technical indicators available."
	noQuoteClause     = "No recent quote data available."
	noOutlookClause   = "No recent company outlook available."
)

// SynthesizePrompt renders the generative prompt for one symbol from
// whatever upstream data survived the fan-out. Pure: no I/O, no clock.
func SynthesizePrompt(variant models.Variant, symbol string, snap *models.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the following stock (%s) using recent data:\n", strings.ToUpper(symbol))

	if snap.Quote != nil {
		q := snap.Quote
		fmt.Fprintf(&b, "- Name: %s\n", q.Name)
		fmt.Fprintf(&b, "- Current Price: $%g\n", q.Price)
		fmt.Fprintf(&b, "- Percentage Change: %g%%\n", q.ChangesPercentage)
		fmt.Fprintf(&b, "- Volume: %g\n", q.Volume)
		fmt.Fprintf(&b, "- Market Cap: $%g\n", q.MarketCap)
		fmt.Fprintf(&b, "- P/E Ratio: %g\n", q.PE)
	} else {
		fmt.Fprintf(&b, "- Quote: %s\n", noQuoteClause)
	}

	if snap.ESG != nil {
		fmt.Fprintf(&b, "- ESG Data: ESG scores available with environmental: %g, social: %g, governance: %g\n",
			snap.ESG.EnvironmentalScore, snap.ESG.SocialScore, snap.ESG.GovernanceScore)
	} else {
		fmt.Fprintf(&b, "- ESG Data: %s\n", noESGClause)
	}

	if len(snap.Technical) > 0 {
		points, _ := json.Marshal(snap.Technical)
		fmt.Fprintf(&b, "- Recent Technical Indicators: %s\n", points)
	} else {
		fmt.Fprintf(&b, "- Recent Technical Indicators: %s\n", noTechnicalClause)
	}

	if len(snap.Outlook) > 0 {
		fmt.Fprintf(&b, "- Company Outlook: %s\n", snap.Outlook)
	} else {
		fmt.Fprintf(&b, "- Company Outlook: %s\n", noOutlookClause)
	}

	scale := strings.Join(variant.Scale, ", ")
	slash := strings.Join(variant.Scale, "/")

	fmt.Fprintf(&b, `
Based on the above data, provide an investment recommendation. The response must be JSON in exactly this shape:

{
  "rating": "%s",
  "target_price": 0,
  "reason": "a very short reason",
  "confidence": 95
}

Guidelines:
- Ensure the JSON structure is strictly followed.
- The "rating" must be one of %s.
- "target_price" must be a numerical value representing the target price in USD.
- "reason" must be concise, no longer than two sentences.
- "confidence" must be a numerical value between 1 and 100 indicating the confidence level.
`, slash, scale)

	return b.String()
}
