package advisor

import (
	"context"
	"errors"
	"sync"
	"time"

	"crypto-nexus/internal/domain"

	"github.com/openai/openai-go"
)

// MemoryStore keeps conversation history in process memory. It backs the
// advisor when no database is configured; history is lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]domain.ConversationMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]domain.ConversationMessage)}
}

func (s *MemoryStore) AppendMessage(_ context.Context, sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], domain.ConversationMessage{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *MemoryStore) RecentMessages(_ context.Context, sessionID string, limit int) ([]domain.ConversationMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.sessions[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.ConversationMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

var errAdvisorDisabled = errors.New("advisor model disabled: no API key configured")

type disabledClient struct{}

// NewDisabledClient returns an LLMClient whose calls always fail, so the
// service runs entirely on its local fallbacks.
func NewDisabledClient() LLMClient {
	return disabledClient{}
}

func (disabledClient) CreateChatCompletion(context.Context, openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return nil, errAdvisorDisabled
}
