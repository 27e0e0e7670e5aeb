package model

import "time"

// Review is a rating plus comment tied to exactly one (listing, user)
// pair.  The pair is unique: a second review by the same user for the
// same listing is rejected at the store level.
type Review struct {
	ID        uint64    // reviews.id
	ListingID uint64    // reviews.listing_id
	UserID    uint64    // reviews.user_id
	Rating    int       // reviews.rating (1..5)
	Comment   string    // reviews.comment
	CreatedAt time.Time // reviews.created_at
	UpdatedAt time.Time // reviews.updated_at
}
