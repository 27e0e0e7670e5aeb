package repository

import (
	"context"
	"database/sql"
)

// FavoriteRepo manages the favorites association table.  The
// (user_id, listing_id) pair is unique so toggling is race-safe: a
// concurrent double-add collapses into one row.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Toggle flips the favorite state for the pair and reports the new state.
func (r *FavoriteRepo) Toggle(ctx context.Context, userID, listingID uint64) (favorited bool, err error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id=? AND listing_id=?", userID, listingID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO favorites (user_id, listing_id) VALUES (?,?)", userID, listingID)
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorited reports whether the user has favorited the listing.
func (r *FavoriteRepo) IsFavorited(ctx context.Context, userID, listingID uint64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id=? AND listing_id=?)",
		userID, listingID).Scan(&exists)
	return exists, err
}

// ListingIDsForUser returns the ids of the user's favorited listings,
// most recently favorited first.
func (r *FavoriteRepo) ListingIDsForUser(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT listing_id FROM favorites WHERE user_id=? ORDER BY id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
