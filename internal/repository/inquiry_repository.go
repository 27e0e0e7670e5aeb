package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/homereach/estate-api/internal/model"
)

// InquiryRepo manages buyer inquiries raised against listings.
type InquiryRepo struct{ DB *sql.DB }

func NewInquiryRepo(db *sql.DB) *InquiryRepo { return &InquiryRepo{DB: db} }

// Create inserts an inquiry with a fresh UUID reference and returns it.
func (r *InquiryRepo) Create(ctx context.Context, inq model.Inquiry) (model.Inquiry, error) {
	inq.Reference = uuid.NewString()
	inq.Status = model.InquiryPending
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO inquiries (listing_id, user_id, reference, message, phone,
			email, preferred_contact, status)
		VALUES (?,?,?,?,?,?,?,?)`,
		inq.ListingID, inq.UserID, inq.Reference, inq.Message, inq.Phone,
		inq.Email, inq.PreferredContact, inq.Status)
	if err != nil {
		return model.Inquiry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Inquiry{}, err
	}
	inq.ID = uint64(id)
	return inq, nil
}

// Get fetches one inquiry by id.
func (r *InquiryRepo) Get(ctx context.Context, id uint64) (model.Inquiry, error) {
	var inq model.Inquiry
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, listing_id, user_id, reference, message, phone, email,
		       preferred_contact, status, is_read, created_at, updated_at
		FROM inquiries WHERE id=? LIMIT 1`, id).
		Scan(&inq.ID, &inq.ListingID, &inq.UserID, &inq.Reference, &inq.Message,
			&inq.Phone, &inq.Email, &inq.PreferredContact, &inq.Status,
			&inq.IsRead, &inq.CreatedAt, &inq.UpdatedAt)
	return inq, err
}

// ListForListing returns the inquiries of one listing, newest first.
func (r *InquiryRepo) ListForListing(ctx context.Context, listingID uint64) ([]model.Inquiry, error) {
	return r.query(ctx, `
		SELECT id, listing_id, user_id, reference, message, phone, email,
		       preferred_contact, status, is_read, created_at, updated_at
		FROM inquiries WHERE listing_id=? ORDER BY created_at DESC, id DESC`, listingID)
}

// ListForRecipient returns inquiries across every listing the user owns or
// manages, newest first.
func (r *InquiryRepo) ListForRecipient(ctx context.Context, userID uint64) ([]model.Inquiry, error) {
	return r.query(ctx, `
		SELECT i.id, i.listing_id, i.user_id, i.reference, i.message, i.phone,
		       i.email, i.preferred_contact, i.status, i.is_read, i.created_at,
		       i.updated_at
		FROM inquiries i
		JOIN listings l ON l.id = i.listing_id
		WHERE l.owner_id = ? OR l.agent_id = ?
		ORDER BY i.created_at DESC, i.id DESC`, userID, userID)
}

// SetStatus moves an inquiry through its workflow.
func (r *InquiryRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE inquiries SET status=? WHERE id=?", status, id)
	return err
}

// MarkRead flags an inquiry as seen by the listing side.
func (r *InquiryRepo) MarkRead(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE inquiries SET is_read=TRUE WHERE id=?", id)
	return err
}

func (r *InquiryRepo) query(ctx context.Context, q string, args ...any) ([]model.Inquiry, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Inquiry{}
	for rows.Next() {
		var inq model.Inquiry
		if err := rows.Scan(&inq.ID, &inq.ListingID, &inq.UserID, &inq.Reference,
			&inq.Message, &inq.Phone, &inq.Email, &inq.PreferredContact,
			&inq.Status, &inq.IsRead, &inq.CreatedAt, &inq.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, inq)
	}
	return out, rows.Err()
}
