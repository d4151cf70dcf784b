package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/engine"

	"github.com/openai/openai-go"
)

const recommendPromptTemplate = `You are a cryptocurrency portfolio analyst.
Given the market and portfolio below, respond with JSON only, no prose and
no code fences, matching exactly this shape:

{
  "analysis": "one-paragraph portfolio assessment",
  "recommendations": [
    {"action": "BUY|HOLD|SELL", "coin": "SYMBOL", "reason": "short rationale", "priority": "high|medium|low"}
  ]
}

Return exactly 3 recommendations.

%s`

// Recommend asks the model for a structured portfolio analysis. Any
// failure along the way, transport, empty reply or a payload that does
// not decode cleanly, falls back to the deterministic rule engine so the
// caller always receives exactly three recommendations.
func (s *Service) Recommend(
	ctx context.Context,
	holdings []domain.Holding,
	assets []domain.Asset,
) domain.AnalysisResult {
	ctx, span := s.tracer.Start(ctx, "advisor.recommend")
	defer span.End()

	prompt := fmt.Sprintf(recommendPromptTemplate, BuildSystemPrompt(holdings, assets))
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	}

	raw, err := s.callLLM(ctx, messages)
	if err != nil {
		span.RecordError(err)
		log.Printf("recommendation call failed, using rule engine: %v", err)
		return engine.Analyze(holdings, assets)
	}

	result, err := decodeAnalysis(raw)
	if err != nil {
		span.RecordError(err)
		log.Printf("discarding malformed model analysis: %v", err)
		return engine.Analyze(holdings, assets)
	}
	return result
}

// decodeAnalysis parses the model output strictly. Anything short of a
// well-formed result with exactly three valid recommendations is rejected.
func decodeAnalysis(raw string) (domain.AnalysisResult, error) {
	var result domain.AnalysisResult

	cleaned := trimCodeFence(raw)
	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode analysis: %w", err)
	}

	if strings.TrimSpace(result.Analysis) == "" {
		return domain.AnalysisResult{}, fmt.Errorf("analysis text is empty")
	}
	if len(result.Recommendations) != 3 {
		return domain.AnalysisResult{}, fmt.Errorf("expected 3 recommendations, got %d", len(result.Recommendations))
	}
	for i, rec := range result.Recommendations {
		if err := validateRecommendation(rec); err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("recommendation %d: %w", i, err)
		}
	}
	return result, nil
}

func validateRecommendation(rec domain.Recommendation) error {
	switch rec.Action {
	case domain.ActionBuy, domain.ActionHold, domain.ActionSell:
	default:
		return fmt.Errorf("unknown action %q", rec.Action)
	}
	switch rec.Priority {
	case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
	default:
		return fmt.Errorf("unknown priority %q", rec.Priority)
	}
	if strings.TrimSpace(rec.Coin) == "" {
		return fmt.Errorf("empty coin")
	}
	if strings.TrimSpace(rec.Reason) == "" {
		return fmt.Errorf("empty reason")
	}
	return nil
}

// trimCodeFence strips a leading ```json (or bare ```) fence and the
// matching trailing fence that some models wrap JSON payloads in.
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
