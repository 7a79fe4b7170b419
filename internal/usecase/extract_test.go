package usecase

import (
	"errors"
	"testing"

	"RatePull/internal/domain/models"
)

func TestExtractJSONObjectFromFencedText(t *testing.T) {
	text := "Here is my analysis:\n```json\n{\"rating\": \"Buy\", \"nested\": {\"a\": 1}}\n```\nHope that helps."
	got, err := ExtractJSONObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"rating": "Buy", "nested": {"a": 1}}`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtractJSONObjectIgnoresBracesInStrings(t *testing.T) {
	text := `prefix {"reason": "watch out for } inside strings", "ok": true} suffix`
	got, err := ExtractJSONObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"reason": "watch out for } inside strings", "ok": true}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONObjectNoJSON(t *testing.T) {
	_, err := ExtractJSONObject("the model rambled and produced no structure at all")
	if !errors.Is(err, models.ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound, got %v", err)
	}
}

func TestExtractJSONObjectUnbalanced(t *testing.T) {
	_, err := ExtractJSONObject(`{"rating": "Buy"`)
	if !errors.Is(err, models.ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound for unbalanced braces, got %v", err)
	}
}

func TestValidateRecommendationAccepts(t *testing.T) {
	raw := `{"rating":"Buy","target_price":"$210.50","reason":"Strong momentum.","confidence":87}`
	rec, err := ValidateRecommendation(raw, models.RatingVariant.Scale)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Rating != "Buy" {
		t.Fatalf("unexpected rating %q", rec.Rating)
	}
	if rec.TargetPrice != 210.50 {
		t.Fatalf("expected string target_price coerced to 210.50, got %v", rec.TargetPrice)
	}
	if rec.Confidence == nil || *rec.Confidence != 87 {
		t.Fatalf("unexpected confidence %v", rec.Confidence)
	}
}

func TestValidateRecommendationRejectsUnknownRating(t *testing.T) {
	raw := `{"rating":"Maybe","target_price":100,"reason":"hmm"}`
	_, err := ValidateRecommendation(raw, models.RatingVariant.Scale)
	var sv *models.SchemaViolationError
	if !errors.As(err, &sv) {
		t.Fatalf("expected SchemaViolationError, got %v", err)
	}
	if sv.Field != "rating" {
		t.Fatalf("violation should name rating, got %q", sv.Field)
	}
}

func TestValidateRecommendationRejectsNonNumericPrice(t *testing.T) {
	raw := `{"rating":"Hold","target_price":"around two hundred","reason":"r"}`
	_, err := ValidateRecommendation(raw, models.RatingVariant.Scale)
	var sv *models.SchemaViolationError
	if !errors.As(err, &sv) {
		t.Fatalf("expected SchemaViolationError, got %v", err)
	}
	if sv.Field != "target_price" {
		t.Fatalf("violation should name target_price, got %q", sv.Field)
	}
}

func TestValidateRecommendationRejectsConfidenceOutOfRange(t *testing.T) {
	raw := `{"rating":"Sell","target_price":50,"reason":"r","confidence":120}`
	_, err := ValidateRecommendation(raw, models.RatingVariant.Scale)
	var sv *models.SchemaViolationError
	if !errors.As(err, &sv) {
		t.Fatalf("expected SchemaViolationError, got %v", err)
	}
	if sv.Field != "confidence" {
		t.Fatalf("violation should name confidence, got %q", sv.Field)
	}
}

func TestValidateRecommendationOrderRatingFirst(t *testing.T) {
	// Both rating and target_price are invalid; rating is checked first.
	raw := `{"rating":"Whatever","target_price":"nope","reason":42}`
	_, err := ValidateRecommendation(raw, models.PredictionVariant.Scale)
	var sv *models.SchemaViolationError
	if !errors.As(err, &sv) {
		t.Fatalf("expected SchemaViolationError, got %v", err)
	}
	if sv.Field != "rating" {
		t.Fatalf("first violation should be rating, got %q", sv.Field)
	}
}

func TestValidateRecommendationMalformedJSON(t *testing.T) {
	_, err := ValidateRecommendation(`{"rating": `, models.RatingVariant.Scale)
	if !errors.Is(err, models.ErrMalformedJSON) {
		t.Fatalf("expected ErrMalformedJSON, got %v", err)
	}
}

func TestValidateRecommendationOptionalFieldsOmitted(t *testing.T) {
	raw := `{"rating":"Strong Buy","target_price":300,"reason":"solid quarter"}`
	rec, err := ValidateRecommendation(raw, models.PredictionVariant.Scale)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Confidence != nil || rec.CriteriaCount != nil {
		t.Fatal("absent optional fields must stay nil")
	}
}
