package advisor

import (
	"context"
	"errors"
	"testing"

	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/engine"
	"crypto-nexus/internal/provider"
)

const validAnalysisJSON = `{
	"analysis": "The portfolio is healthy with a strong BTC core.",
	"recommendations": [
		{"action": "HOLD", "coin": "BTC", "reason": "solid base", "priority": "medium"},
		{"action": "BUY", "coin": "SOL", "reason": "momentum", "priority": "low"},
		{"action": "SELL", "coin": "ADA", "reason": "weak trend", "priority": "high"}
	]
}`

func TestRecommendUsesModelAnalysis(t *testing.T) {
	llm := &stubLLMClient{response: completionWith(validAnalysisJSON)}
	svc := newTestService(llm, &stubConvStore{})

	result := svc.Recommend(context.Background(), domain.DefaultHoldings, provider.FallbackAssets())

	if result.Analysis != "The portfolio is healthy with a strong BTC core." {
		t.Fatalf("unexpected analysis: %q", result.Analysis)
	}
	if len(result.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(result.Recommendations))
	}
	if result.Recommendations[0].Action != domain.ActionHold || result.Recommendations[0].Coin != "BTC" {
		t.Fatalf("unexpected first recommendation: %+v", result.Recommendations[0])
	}
}

func TestRecommendAcceptsFencedJSON(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("```json\n" + validAnalysisJSON + "\n```")}
	svc := newTestService(llm, &stubConvStore{})

	result := svc.Recommend(context.Background(), domain.DefaultHoldings, provider.FallbackAssets())

	if len(result.Recommendations) != 3 || result.Recommendations[1].Coin != "SOL" {
		t.Fatalf("fenced payload not decoded: %+v", result)
	}
}

func TestRecommendFallsBackToEngine(t *testing.T) {
	holdings := domain.DefaultHoldings
	assets := provider.FallbackAssets()
	want := engine.Analyze(holdings, assets)

	cases := map[string]*stubLLMClient{
		"transport error": {err: errors.New("api down")},
		"not json":        {response: completionWith("I think you should buy BTC.")},
		"wrong count": {response: completionWith(`{
			"analysis": "ok",
			"recommendations": [
				{"action": "HOLD", "coin": "BTC", "reason": "r", "priority": "low"}
			]
		}`)},
		"bad action": {response: completionWith(`{
			"analysis": "ok",
			"recommendations": [
				{"action": "YOLO", "coin": "BTC", "reason": "r", "priority": "low"},
				{"action": "HOLD", "coin": "ETH", "reason": "r", "priority": "low"},
				{"action": "HOLD", "coin": "SOL", "reason": "r", "priority": "low"}
			]
		}`)},
		"empty analysis": {response: completionWith(`{
			"analysis": "",
			"recommendations": [
				{"action": "HOLD", "coin": "BTC", "reason": "r", "priority": "low"},
				{"action": "HOLD", "coin": "ETH", "reason": "r", "priority": "low"},
				{"action": "HOLD", "coin": "SOL", "reason": "r", "priority": "low"}
			]
		}`)},
		"unknown field": {response: completionWith(`{
			"analysis": "ok",
			"confidence": 0.9,
			"recommendations": [
				{"action": "HOLD", "coin": "BTC", "reason": "r", "priority": "low"},
				{"action": "HOLD", "coin": "ETH", "reason": "r", "priority": "low"},
				{"action": "HOLD", "coin": "SOL", "reason": "r", "priority": "low"}
			]
		}`)},
	}

	for name, llm := range cases {
		svc := newTestService(llm, &stubConvStore{})
		got := svc.Recommend(context.Background(), holdings, assets)
		if got.Analysis != want.Analysis {
			t.Fatalf("%s: expected engine analysis, got %q", name, got.Analysis)
		}
		if len(got.Recommendations) != 3 {
			t.Fatalf("%s: expected 3 engine recommendations, got %d", name, len(got.Recommendations))
		}
	}
}

func TestTrimCodeFence(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, c := range cases {
		if got := trimCodeFence(c.in); got != c.want {
			t.Fatalf("trimCodeFence(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
