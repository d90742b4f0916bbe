package chat

import (
	"time"

	"navm8/internal/domain"
)

type CreateConversationRequest struct {
	UserID         int64  `json:"user_id" binding:"required"`
	TourID         *int64 `json:"tour_id,omitempty"`
	InitialMessage string `json:"initial_message,omitempty"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

type MessageResponse struct {
	ID             int64      `json:"id"`
	ConversationID int64      `json:"conversation_id"`
	SenderID       int64      `json:"sender_id"`
	Content        string     `json:"content"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ConversationResponse struct {
	ID            int64            `json:"id"`
	TourID        *int64           `json:"tour_id,omitempty"`
	OtherUser     *UserBrief       `json:"other_user,omitempty"`
	LastMessage   *MessageResponse `json:"last_message,omitempty"`
	UnreadCount   int64            `json:"unread_count"`
	LastMessageAt time.Time        `json:"last_message_at"`
	CreatedAt     time.Time        `json:"created_at"`
}

type UserBrief struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func toMessageResponse(m *domain.Message) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

func toConversationResponse(conv *domain.Conversation) *ConversationResponse {
	resp := &ConversationResponse{
		ID:            conv.ID,
		TourID:        conv.TourID,
		UnreadCount:   conv.UnreadCount,
		LastMessageAt: conv.LastMessageAt,
		CreatedAt:     conv.CreatedAt,
	}
	if conv.OtherUser != nil {
		resp.OtherUser = &UserBrief{
			ID:        conv.OtherUser.ID,
			Username:  conv.OtherUser.Username,
			AvatarURL: conv.OtherUser.AvatarURL,
		}
	}
	resp.LastMessage = toMessageResponse(conv.LastMessage)
	return resp
}
