package model

import "time"

// Message is a direct message between two users.
type Message struct {
	ID          uint64    // messages.id
	SenderID    uint64    // messages.sender_id
	RecipientID uint64    // messages.recipient_id
	Subject     string    // messages.subject
	Content     string    // messages.content
	IsRead      bool      // messages.is_read
	IsArchived  bool      // messages.is_archived
	CreatedAt   time.Time // messages.created_at
}
