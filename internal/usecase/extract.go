package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"RatePull/internal/domain/models"
)

// ExtractJSONObject returns the first brace-balanced {...} block in text.
// Generative replies wrap their JSON in code fences or prose; everything
// outside the block is ignored. Braces inside JSON strings do not count
// toward the balance.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", models.ErrNoJSONFound
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", models.ErrNoJSONFound
}

// ValidateRecommendation parses the extracted JSON and checks fields in a
// fixed order: rating membership, target_price, reason, then the optional
// numeric fields. The first violation rejects the whole answer; nothing is
// coerced except a numeric string target_price.
func ValidateRecommendation(raw string, scale []string) (*models.Recommendation, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedJSON, err)
	}

	var rec models.Recommendation

	var rating string
	if err := json.Unmarshal(fields["rating"], &rating); err != nil {
		return nil, &models.SchemaViolationError{Field: "rating", Reason: "must be a string"}
	}
	if !contains(scale, rating) {
		return nil, &models.SchemaViolationError{
			Field:  "rating",
			Reason: fmt.Sprintf("must be one of %s", strings.Join(scale, ", ")),
		}
	}
	rec.Rating = rating

	price, err := numericField(fields["target_price"])
	if err != nil {
		return nil, &models.SchemaViolationError{Field: "target_price", Reason: "must be numeric"}
	}
	rec.TargetPrice = price

	var reason string
	if err := json.Unmarshal(fields["reason"], &reason); err != nil {
		return nil, &models.SchemaViolationError{Field: "reason", Reason: "must be a string"}
	}
	rec.Reason = reason

	if b, ok := fields["confidence"]; ok {
		var conf float64
		if err := json.Unmarshal(b, &conf); err != nil || conf < 1 || conf > 100 {
			return nil, &models.SchemaViolationError{Field: "confidence", Reason: "must be a number between 1 and 100"}
		}
		rec.Confidence = &conf
	}

	if b, ok := fields["criteria_count"]; ok {
		var count float64
		if err := json.Unmarshal(b, &count); err != nil {
			return nil, &models.SchemaViolationError{Field: "criteria_count", Reason: "must be a number"}
		}
		rec.CriteriaCount = &count
	}

	return &rec, nil
}

// numericField accepts a JSON number or a string holding one, the two
// shapes generative models actually produce for prices.
func numericField(b json.RawMessage) (float64, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("missing")
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return 0, err
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	return strconv.ParseFloat(s, 64)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
