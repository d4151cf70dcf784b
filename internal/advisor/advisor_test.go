package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/provider"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

func TestAskHappyPath(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("BTC looks solid, hold your position.")}
	store := &stubConvStore{}
	svc := newTestService(llm, store)

	reply := svc.Ask(context.Background(), "sess-1", "Should I hold BTC?",
		domain.DefaultHoldings, provider.FallbackAssets())

	if reply != "BTC looks solid, hold your position." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(store.appended) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(store.appended))
	}
	if store.appended[0].role != "user" || store.appended[1].role != "assistant" {
		t.Fatalf("unexpected roles: %+v", store.appended)
	}
	if store.appended[0].sessionID != "sess-1" {
		t.Fatalf("unexpected session id %q", store.appended[0].sessionID)
	}
}

func TestAskSendsHistoryToModel(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("as I said")}
	store := &stubConvStore{history: []domain.ConversationMessage{
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
		{Role: "user", Content: "follow-up"},
	}}
	svc := newTestService(llm, store)

	svc.Ask(context.Background(), "sess-1", "follow-up", nil, provider.FallbackAssets())

	// system prompt + 3 history turns
	if got := len(llm.captured.Messages); got != 4 {
		t.Fatalf("expected 4 messages, got %d", got)
	}
	if llm.captured.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model %q", llm.captured.Model)
	}
}

func TestAskLLMFailureUsesKeywordFallback(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("api unreachable")}
	store := &stubConvStore{}
	svc := newTestService(llm, store)

	reply := svc.Ask(context.Background(), "sess-1", "Стоит ли продавать в минус?",
		domain.DefaultHoldings, provider.FallbackAssets())

	if !strings.Contains(reply, "panic-selling") {
		t.Fatalf("expected sell-family fallback, got %q", reply)
	}
	if len(store.appended) != 2 {
		t.Fatalf("fallback path must still store both turns, got %d", len(store.appended))
	}
	if store.appended[1].content != reply {
		t.Fatal("stored assistant turn differs from reply")
	}
}

func TestAskNoChoicesApologizes(t *testing.T) {
	llm := &stubLLMClient{response: &openai.ChatCompletion{}}
	store := &stubConvStore{}
	svc := newTestService(llm, store)

	reply := svc.Ask(context.Background(), "sess-1", "anything at all", nil, provider.FallbackAssets())

	if reply != apologyReply {
		t.Fatalf("expected apology, got %q", reply)
	}
	if len(store.appended) != 2 || store.appended[1].content != apologyReply {
		t.Fatalf("apology must be stored as the assistant turn: %+v", store.appended)
	}
}

func TestAskEmptyContentApologizes(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("")}
	store := &stubConvStore{}
	svc := newTestService(llm, store)

	reply := svc.Ask(context.Background(), "sess-1", "hello", nil, provider.FallbackAssets())

	if reply != apologyReply {
		t.Fatalf("expected apology, got %q", reply)
	}
}

func TestAskStoreFailuresNonFatal(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("still works")}
	store := &stubConvStore{appendErr: errors.New("db down"), loadErr: errors.New("db down")}
	svc := newTestService(llm, store)

	reply := svc.Ask(context.Background(), "sess-1", "hello", nil, provider.FallbackAssets())

	if reply != "still works" {
		t.Fatalf("storage failures must not break the answer, got %q", reply)
	}
	if llm.calls != 1 {
		t.Fatalf("expected a single model call, got %d", llm.calls)
	}
}

func TestAskDefaultMaxHistory(t *testing.T) {
	svc := NewService(
		trace.NewNoopTracerProvider().Tracer("test"),
		&stubLLMClient{}, &stubConvStore{}, "gpt-4o-mini", 0,
	)
	if svc.maxHistory != 20 {
		t.Fatalf("expected default maxHistory=20, got %d", svc.maxHistory)
	}
}

func TestBuildSystemPromptCarriesContext(t *testing.T) {
	prompt := BuildSystemPrompt(domain.DefaultHoldings, provider.FallbackAssets())

	for _, want := range []string{"Bitcoin", "97234.50", "User portfolio", "Total value"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("system prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildSystemPromptEmptyPortfolio(t *testing.T) {
	prompt := BuildSystemPrompt(nil, provider.FallbackAssets())
	if !strings.Contains(prompt, "- empty") {
		t.Fatalf("expected empty portfolio marker:\n%s", prompt)
	}
}

// --- stubs ---

type stubLLMClient struct {
	response *openai.ChatCompletion
	err      error
	captured openai.ChatCompletionNewParams
	calls    int
}

func (s *stubLLMClient) CreateChatCompletion(_ context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	s.calls++
	s.captured = params
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

type storedMessage struct {
	sessionID string
	role      string
	content   string
}

type stubConvStore struct {
	appended  []storedMessage
	appendErr error
	history   []domain.ConversationMessage
	loadErr   error
}

func (s *stubConvStore) AppendMessage(_ context.Context, sessionID, role, content string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, storedMessage{sessionID, role, content})
	return nil
}

func (s *stubConvStore) RecentMessages(_ context.Context, _ string, _ int) ([]domain.ConversationMessage, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.history, nil
}

func completionWith(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func newTestService(llm LLMClient, store ConversationStore) *Service {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	return NewService(tracer, llm, store, "gpt-4o-mini", 20)
}
