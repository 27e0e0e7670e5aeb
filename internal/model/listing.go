package model

import "time"

// Property type values stored in listings.property_type.
const (
	PropertyHouse      = "house"
	PropertyApartment  = "apartment"
	PropertyCondo      = "condo"
	PropertyTownhouse  = "townhouse"
	PropertyLand       = "land"
	PropertyCommercial = "commercial"
)

// Listing intent values stored in listings.listing_type.
const (
	ListingSale  = "sale"
	ListingRent  = "rent"
	ListingLease = "lease"
)

// Lifecycle status values stored in listings.status.  Listings are
// soft-transitioned to sold/rented rather than deleted; deletion is a
// separate owner-only action.
const (
	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusSold      = "sold"
	StatusRented    = "rented"
	StatusOffMarket = "off_market"
)

// Listing represents a property record in the `listings` table.
//
// Decimal quantities are stored as scaled integers so that comparisons in
// search keep exact decimal semantics: PriceCents is the price in cents,
// AreaX100 the area in hundredths of a square foot, BathroomsX10 the
// bathroom count in tenths (15 = 1.5 baths).  Display values are derived
// on the way out, never stored.
//
// Slug is derived from the title on the first save and never regenerated;
// a later title edit leaves the slug untouched.
//
// OwnerID always references the creator, whose role must be agent or
// seller.  AgentID is the optional managing agent and must reference an
// agent-role user when set.
type Listing struct {
	ID             uint64     // listings.id
	Title          string     // listings.title
	Slug           string     // listings.slug
	Description    string     // listings.description
	PropertyType   string     // listings.property_type
	ListingType    string     // listings.listing_type
	Status         string     // listings.status
	PriceCents     int64      // listings.price_cents
	AreaX100       int64      // listings.area_sqft_x100
	Bedrooms       int        // listings.bedrooms
	BathroomsX10   int        // listings.bathrooms_x10
	Garage         int        // listings.garage
	YearBuilt      *int       // listings.year_built (nullable)
	Address        string     // listings.address
	City           string     // listings.city
	State          string     // listings.state
	ZipCode        string     // listings.zip_code
	Country        string     // listings.country
	Latitude       *float64   // listings.latitude (nullable)
	Longitude      *float64   // listings.longitude (nullable)
	MainImageURL   string     // listings.main_image_url
	VideoURL       string     // listings.video_url
	VirtualTourURL string     // listings.virtual_tour_url
	OwnerID        uint64     // listings.owner_id
	AgentID        *uint64    // listings.agent_id (nullable)
	IsFeatured     bool       // listings.is_featured
	ViewsCount     uint64     // listings.views_count
	CreatedAt      time.Time  // listings.created_at
	UpdatedAt      time.Time  // listings.updated_at
}

// Price returns the listing price in currency units for display.
func (l Listing) Price() float64 { return float64(l.PriceCents) / 100.0 }

// Area returns the area in square feet for display.
func (l Listing) Area() float64 { return float64(l.AreaX100) / 100.0 }

// Bathrooms returns the bathroom count with half-step precision for display.
func (l Listing) Bathrooms() float64 { return float64(l.BathroomsX10) / 10.0 }

// ValidPropertyType reports whether s is a known property type tag.
func ValidPropertyType(s string) bool {
	switch s {
	case PropertyHouse, PropertyApartment, PropertyCondo, PropertyTownhouse, PropertyLand, PropertyCommercial:
		return true
	}
	return false
}

// ValidListingType reports whether s is a known listing intent tag.
func ValidListingType(s string) bool {
	switch s {
	case ListingSale, ListingRent, ListingLease:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known lifecycle status tag.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusPending, StatusSold, StatusRented, StatusOffMarket:
		return true
	}
	return false
}

// ListingImage is a row of the `listing_images` gallery table.  Images are
// ordered primary-first, then by creation time.
type ListingImage struct {
	ID        uint64    // listing_images.id
	ListingID uint64    // listing_images.listing_id
	ImageURL  string    // listing_images.image_url
	Caption   string    // listing_images.caption
	IsPrimary bool      // listing_images.is_primary
	CreatedAt time.Time // listing_images.created_at
}

// Feature and Amenity are named tags with an optional icon class.  They
// attach to listings through the listing_features / listing_amenities
// association tables.
type Feature struct {
	ID   int64  // features.id
	Name string // features.name
	Icon string // features.icon
}

type Amenity struct {
	ID   int64  // amenities.id
	Name string // amenities.name
	Icon string // amenities.icon
}
