package model

import "time"

// SavedSearch is a named, persisted set of search criteria belonging to a
// user.  Bounds use the same scaled-integer encoding as Listing so a saved
// search replays through the composer without unit conversion.
type SavedSearch struct {
	ID              uint64    // saved_searches.id
	UserID          uint64    // saved_searches.user_id
	Name            string    // saved_searches.name
	PropertyType    string    // saved_searches.property_type ("" = any)
	MinPriceCents   *int64    // saved_searches.min_price_cents (nullable)
	MaxPriceCents   *int64    // saved_searches.max_price_cents (nullable)
	MinBedrooms     *int      // saved_searches.min_bedrooms (nullable)
	MinBathroomsX10 *int      // saved_searches.min_bathrooms_x10 (nullable)
	MinAreaX100     *int64    // saved_searches.min_area_x100 (nullable)
	MaxAreaX100     *int64    // saved_searches.max_area_x100 (nullable)
	Location        string    // saved_searches.location
	CreatedAt       time.Time // saved_searches.created_at
	UpdatedAt       time.Time // saved_searches.updated_at
}
