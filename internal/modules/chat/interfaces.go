package chat

import (
	"context"

	"navm8/internal/domain"
)

type ChatRepository interface {
	GetConversation(ctx context.Context, userA, userB int64) (*domain.Conversation, error)
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversationByID(ctx context.Context, id int64) (*domain.Conversation, error)
	GetConversationsForUser(ctx context.Context, userID int64) ([]domain.Conversation, error)
	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetMessages(ctx context.Context, conversationID int64, limit, offset int) ([]domain.Message, error)
	GetLastMessage(ctx context.Context, conversationID int64) (*domain.Message, error)
	CountUnread(ctx context.Context, conversationID, userID int64) (int64, error)
	MarkRead(ctx context.Context, conversationID, userID int64) error
}

type UserProvider interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
