package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"domli-search/internal/model"
)

// ChatService drives the conversation: it parses the user message into
// filters, searches the corpus, and composes a reply. The external model
// is best effort: any failure there degrades to the deterministic
// fallback prose, never to an error.
type ChatService struct {
	search   *SearchService
	intent   *IntentParser
	composer *Composer
	ai       AIClient
	sessions SessionStore
	logger   *slog.Logger

	chatLimit int
	aiTimeout time.Duration
}

// NewChatService creates a chat service
func NewChatService(search *SearchService, intent *IntentParser, composer *Composer,
	ai AIClient, sessions SessionStore, logger *slog.Logger, chatLimit int, aiTimeout time.Duration) *ChatService {
	return &ChatService{
		search:    search,
		intent:    intent,
		composer:  composer,
		ai:        ai,
		sessions:  sessions,
		logger:    logger,
		chatLimit: chatLimit,
		aiTimeout: aiTimeout,
	}
}

// HandleMessage processes one user message inside a session. A missing
// sessionID starts a new session.
func (s *ChatService) HandleMessage(ctx context.Context, sessionID, message string) (*model.ChatResponse, error) {
	if sessionID == "" {
		sessionID = "session_" + uuid.NewString()
	}

	history := s.sessions.Get(sessionID)

	reply, err := s.Compose(ctx, message, history)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.sessions.Append(sessionID,
		model.ChatMessage{Role: "user", Content: message, Timestamp: now},
		model.ChatMessage{Role: "assistant", Content: reply.Message, Timestamp: now},
	)

	return &model.ChatResponse{
		Success:    reply.Success,
		Response:   reply.Message,
		Properties: reply.Properties,
		Filters:    reply.Filters,
		SessionID:  sessionID,
		History:    s.sessions.Get(sessionID),
	}, nil
}

// Compose builds the reply for one user message given the prior history.
// The returned error is only for corpus failures; model failures are
// absorbed into the fallback path.
func (s *ChatService) Compose(ctx context.Context, userMessage string, history []model.ChatMessage) (*model.ChatReply, error) {
	filters := s.intent.Parse(userMessage)

	result, err := s.search.Search(ctx, filters)
	if err != nil {
		return nil, err
	}

	properties := result.Properties
	if len(properties) > s.chatLimit {
		properties = properties[:s.chatLimit]
	}

	reply := &model.ChatReply{
		Properties: properties,
		Filters:    result.Filters,
	}

	if s.ai != nil && s.ai.IsEnabled() {
		text, err := s.askModel(ctx, userMessage, history, properties)
		if err == nil {
			reply.Success = true
			reply.Message = text
			return reply, nil
		}
		s.logger.Warn("model request failed, using fallback reply", "error", err)
	}

	reply.Success = false
	reply.Message = s.composer.FallbackMessage(properties, result.Exact)
	return reply, nil
}

func (s *ChatService) askModel(ctx context.Context, userMessage string,
	history []model.ChatMessage, properties []model.MatchResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: s.composer.SystemPrompt()})
	for _, m := range history {
		messages = append(messages, Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, Message{
		Role: "user",
		Content: fmt.Sprintf("%s\n\nОбъекты в базе данных:\n%s",
			userMessage, s.composer.FormatForModel(properties)),
	})

	return s.ai.ChatCompletion(ctx, messages)
}
