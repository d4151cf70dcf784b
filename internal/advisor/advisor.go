package advisor

import (
	"context"
	"log"

	"crypto-nexus/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// apologyReply substitutes for a completion that carried no text content.
const apologyReply = "Sorry, I couldn't process that request."

const maxReplyTokens = 1000

// LLMClient abstracts the chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// ConversationStore persists and retrieves conversation messages.
type ConversationStore interface {
	AppendMessage(ctx context.Context, sessionID, role, content string) error
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.ConversationMessage, error)
}

// Service answers free-text questions and produces structured
// recommendations, degrading to deterministic local logic whenever the
// model endpoint fails. Neither path surfaces an error to the caller.
type Service struct {
	tracer     trace.Tracer
	llm        LLMClient
	convStore  ConversationStore
	model      string
	maxHistory int
}

func NewService(
	tracer trace.Tracer,
	llm LLMClient,
	convStore ConversationStore,
	model string,
	maxHistory int,
) *Service {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &Service{
		tracer:     tracer,
		llm:        llm,
		convStore:  convStore,
		model:      model,
		maxHistory: maxHistory,
	}
}

// Ask answers one user message with the portfolio and market snapshot as
// context. Exactly one user turn and one assistant turn are appended to
// the session's history, on the live path and the fallback path alike.
func (s *Service) Ask(
	ctx context.Context,
	sessionID, userMessage string,
	holdings []domain.Holding,
	assets []domain.Asset,
) string {
	ctx, span := s.tracer.Start(ctx, "advisor.ask")
	defer span.End()
	span.SetAttributes(attribute.String("session_id", sessionID))

	if err := s.convStore.AppendMessage(ctx, sessionID, "user", userMessage); err != nil {
		log.Printf("failed to store user message: %v", err)
	}

	history, err := s.convStore.RecentMessages(ctx, sessionID, s.maxHistory)
	if err != nil {
		log.Printf("failed to load conversation history: %v", err)
		history = []domain.ConversationMessage{{Role: "user", Content: userMessage}}
	}

	systemPrompt := BuildSystemPrompt(holdings, assets)
	messages := buildMessages(systemPrompt, history)

	reply, err := s.callLLM(ctx, messages)
	if err != nil {
		span.RecordError(err)
		log.Printf("advisor endpoint failed, using keyword fallback: %v", err)
		reply = FallbackReply(userMessage, holdings, assets)
	}

	if err := s.convStore.AppendMessage(ctx, sessionID, "assistant", reply); err != nil {
		log.Printf("failed to store assistant reply: %v", err)
	}
	return reply
}

func buildMessages(systemPrompt string, history []domain.ConversationMessage) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, msg := range history {
		switch msg.Role {
		case "user":
			messages = append(messages, openai.UserMessage(msg.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}
	return messages
}

func (s *Service) callLLM(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.llm-call")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", s.model),
		attribute.Int("llm.message_count", len(messages)),
	)

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model:               s.model,
		Messages:            messages,
		MaxCompletionTokens: openai.Int(maxReplyTokens),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		// The call itself succeeded: apologize rather than fail.
		return apologyReply, nil
	}

	reply := completion.Choices[0].Message.Content
	if reply == "" {
		// No text content in the response: apologize rather than fail.
		return apologyReply, nil
	}
	span.SetAttributes(attribute.Int("llm.reply_length", len(reply)))
	return reply, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
