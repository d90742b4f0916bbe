package chat

import "errors"

var (
	ErrSelfConversation = errors.New("cannot start a conversation with yourself")
	ErrNotParticipant   = errors.New("not a participant of this conversation")
	ErrNotFound         = errors.New("conversation not found")
	ErrUserNotFound     = errors.New("user not found")
)
