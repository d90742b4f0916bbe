package domain

import "time"

// Conversation is a two-party dialog. ParticipantA always holds the
// smaller user id, which makes lookup of an existing dialog a single
// equality query.
type Conversation struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	ParticipantA  int64     `json:"participant_a" gorm:"not null;index:idx_participants,unique"`
	ParticipantB  int64     `json:"participant_b" gorm:"not null;index:idx_participants,unique"`
	TourID        *int64    `json:"tour_id,omitempty"`
	LastMessageAt time.Time `json:"last_message_at" gorm:"default:CURRENT_TIMESTAMP"`
	CreatedAt     time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`

	// Filled by the service, not stored.
	OtherUser   *User    `json:"other_user,omitempty" gorm:"-"`
	LastMessage *Message `json:"last_message,omitempty" gorm:"-"`
	UnreadCount int64    `json:"unread_count" gorm:"-"`
}

type Message struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	ConversationID int64     `json:"conversation_id" gorm:"not null;index"`
	SenderID       int64     `json:"sender_id" gorm:"not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`
}
