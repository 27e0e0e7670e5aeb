package repository

import (
	"context"
	"database/sql"

	"github.com/homereach/estate-api/internal/model"
)

// ReviewRepo manages listing reviews.  The (listing_id, user_id) pair is
// unique; a second review by the same user surfaces as ErrDuplicate.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts a review and returns its id.
func (r *ReviewRepo) Create(ctx context.Context, listingID, userID uint64, rating int, comment string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (listing_id, user_id, rating, comment) VALUES (?,?,?,?)",
		listingID, userID, rating, comment)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// ReviewRow is a review joined with its author's email for display.
type ReviewRow struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"user_id"`
	AuthorEmail string `json:"author_email"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	CreatedAt   string `json:"created_at"`
}

// ListForListing returns reviews for a listing, newest first.
func (r *ReviewRepo) ListForListing(ctx context.Context, listingID uint64) ([]ReviewRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT rv.id, rv.user_id, u.email, rv.rating, rv.comment,
		       DATE_FORMAT(rv.created_at, '%Y-%m-%d %T')
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.listing_id = ?
		ORDER BY rv.created_at DESC, rv.id DESC`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ReviewRow{}
	for rows.Next() {
		var rr ReviewRow
		if err := rows.Scan(&rr.ID, &rr.UserID, &rr.AuthorEmail, &rr.Rating, &rr.Comment, &rr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// Aggregate returns the review count and average rating for a listing.
// The average is NULL-safe: zero reviews yield (0, 0).
func (r *ReviewRepo) Aggregate(ctx context.Context, listingID uint64) (count int64, avg float64, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE listing_id=?",
		listingID).Scan(&count, &avg)
	return count, avg, err
}

// Delete removes a review owned by userID.  Deleting someone else's review
// reports ErrForbidden when the row exists under another author.
func (r *ReviewRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM reviews WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM reviews WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrForbidden
		}
		return sql.ErrNoRows
	}
	return nil
}

// Review fetches one review by id.
func (r *ReviewRepo) Review(ctx context.Context, id uint64) (model.Review, error) {
	var rv model.Review
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, listing_id, user_id, rating, comment, created_at, updated_at FROM reviews WHERE id=? LIMIT 1",
		id).Scan(&rv.ID, &rv.ListingID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}
