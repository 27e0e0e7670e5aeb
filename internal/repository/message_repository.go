package repository

import (
	"context"
	"database/sql"

	"github.com/homereach/estate-api/internal/model"
)

// MessageRepo manages direct messages between users.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create inserts a message and returns its id.
func (r *MessageRepo) Create(ctx context.Context, m model.Message) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (sender_id, recipient_id, subject, content) VALUES (?,?,?,?)",
		m.SenderID, m.RecipientID, m.Subject, m.Content)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// Get fetches one message by id.
func (r *MessageRepo) Get(ctx context.Context, id uint64) (model.Message, error) {
	var m model.Message
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, sender_id, recipient_id, subject, content, is_read,
		       is_archived, created_at
		FROM messages WHERE id=? LIMIT 1`, id).
		Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Content,
			&m.IsRead, &m.IsArchived, &m.CreatedAt)
	return m, err
}

// Inbox returns non-archived messages received by the user, newest first.
func (r *MessageRepo) Inbox(ctx context.Context, userID uint64) ([]model.Message, error) {
	return r.query(ctx, `
		SELECT id, sender_id, recipient_id, subject, content, is_read,
		       is_archived, created_at
		FROM messages
		WHERE recipient_id=? AND is_archived=FALSE
		ORDER BY created_at DESC, id DESC`, userID)
}

// Sent returns messages the user has sent, newest first.
func (r *MessageRepo) Sent(ctx context.Context, userID uint64) ([]model.Message, error) {
	return r.query(ctx, `
		SELECT id, sender_id, recipient_id, subject, content, is_read,
		       is_archived, created_at
		FROM messages
		WHERE sender_id=?
		ORDER BY created_at DESC, id DESC`, userID)
}

// UnreadCount returns how many inbox messages remain unread.
func (r *MessageRepo) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE recipient_id=? AND is_read=FALSE AND is_archived=FALSE",
		userID).Scan(&n)
	return n, err
}

// MarkRead flags a received message as read.  Only the recipient may do
// so; a non-recipient caller gets ErrForbidden.
func (r *MessageRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	return r.flagForRecipient(ctx, id, userID, "is_read")
}

// Archive hides a received message from the inbox.
func (r *MessageRepo) Archive(ctx context.Context, id, userID uint64) error {
	return r.flagForRecipient(ctx, id, userID, "is_archived")
}

func (r *MessageRepo) flagForRecipient(ctx context.Context, id, userID uint64, column string) error {
	var recipientID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT recipient_id FROM messages WHERE id=? LIMIT 1", id).Scan(&recipientID)
	if err != nil {
		return err // sql.ErrNoRows for a missing message
	}
	if recipientID != userID {
		return ErrForbidden
	}
	// column is one of two fixed identifiers chosen above, never user input.
	_, err = r.DB.ExecContext(ctx,
		"UPDATE messages SET "+column+"=TRUE WHERE id=?", id)
	return err
}

func (r *MessageRepo) query(ctx context.Context, q string, args ...any) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Subject,
			&m.Content, &m.IsRead, &m.IsArchived, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
