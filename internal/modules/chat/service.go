package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"navm8/internal/domain"

	"gorm.io/gorm"
)

// Service contains all business logic for direct messages.
type Service struct {
	repo  ChatRepository
	users UserProvider
	hub   *Hub
}

func NewService(repo ChatRepository, users UserProvider, hub *Hub) *Service {
	return &Service{repo: repo, users: users, hub: hub}
}

// GetOrCreateConversation returns the existing dialog between the two
// users or creates one. An optional initial message is sent in the same
// call.
func (s *Service) GetOrCreateConversation(ctx context.Context, userID int64, req CreateConversationRequest) (*domain.Conversation, *domain.Message, error) {
	if req.UserID == userID {
		return nil, nil, ErrSelfConversation
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	conv, err := s.repo.GetConversation(ctx, userID, req.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		conv = &domain.Conversation{
			ParticipantA:  userID,
			ParticipantB:  req.UserID,
			TourID:        req.TourID,
			LastMessageAt: time.Now().UTC(),
		}
		if err := s.repo.CreateConversation(ctx, conv); err != nil {
			return nil, nil, err
		}
	}

	var initial *domain.Message
	if content := strings.TrimSpace(req.InitialMessage); content != "" {
		initial, err = s.SendMessage(ctx, userID, conv.ID, SendMessageRequest{Content: content})
		if err != nil {
			return nil, nil, err
		}
	}

	s.enrich(ctx, conv, userID)
	return conv, initial, nil
}

func (s *Service) ListConversations(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	convs, err := s.repo.GetConversationsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range convs {
		s.enrich(ctx, &convs[i], userID)
	}
	return convs, nil
}

func (s *Service) GetMessages(ctx context.Context, userID, conversationID int64, limit, offset int) ([]domain.Message, error) {
	if _, err := s.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.GetMessages(ctx, conversationID, limit, offset)
}

// SendMessage persists the message and pushes it to both participants
// that are currently connected.
func (s *Service) SendMessage(ctx context.Context, userID, conversationID int64, req SendMessageRequest) (*domain.Message, error) {
	conv, err := s.conversationFor(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        strings.TrimSpace(req.Content),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		event := Event{Type: EventMessage, Payload: toMessageResponse(msg)}
		s.hub.SendToUser(conv.ParticipantA, event)
		s.hub.SendToUser(conv.ParticipantB, event)
	}

	return msg, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, conversationID int64) error {
	if _, err := s.conversationFor(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, conversationID, userID)
}

func (s *Service) conversationFor(ctx context.Context, userID, conversationID int64) (*domain.Conversation, error) {
	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if conv.ParticipantA != userID && conv.ParticipantB != userID {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// enrich fills the display-only fields of a conversation as seen by
// viewerID. Lookup failures leave the field empty.
func (s *Service) enrich(ctx context.Context, conv *domain.Conversation, viewerID int64) {
	otherID := conv.ParticipantA
	if otherID == viewerID {
		otherID = conv.ParticipantB
	}
	if u, err := s.users.GetByID(ctx, otherID); err == nil {
		conv.OtherUser = u
	}
	if msg, err := s.repo.GetLastMessage(ctx, conv.ID); err == nil {
		conv.LastMessage = msg
	}
	if cnt, err := s.repo.CountUnread(ctx, conv.ID, viewerID); err == nil {
		conv.UnreadCount = cnt
	}
}
