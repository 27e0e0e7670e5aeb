package model

import "time"

// Preferred contact method values for inquiries.
const (
	ContactEmail = "email"
	ContactPhone = "phone"
	ContactBoth  = "both"
)

// Inquiry workflow status values.
const (
	InquiryPending    = "pending"
	InquiryInProgress = "in_progress"
	InquiryResolved   = "resolved"
	InquiryCancelled  = "cancelled"
)

// Inquiry is a buyer question raised against a listing.  Reference is a
// UUID handed back to the requester so they can quote the inquiry without
// exposing the numeric id.
type Inquiry struct {
	ID               uint64    // inquiries.id
	ListingID        uint64    // inquiries.listing_id
	UserID           uint64    // inquiries.user_id
	Reference        string    // inquiries.reference
	Message          string    // inquiries.message
	Phone            string    // inquiries.phone
	Email            string    // inquiries.email
	PreferredContact string    // inquiries.preferred_contact
	Status           string    // inquiries.status
	IsRead           bool      // inquiries.is_read
	CreatedAt        time.Time // inquiries.created_at
	UpdatedAt        time.Time // inquiries.updated_at
}

// ValidContactMethod reports whether s is a known contact preference.
func ValidContactMethod(s string) bool {
	return s == ContactEmail || s == ContactPhone || s == ContactBoth
}

// ValidInquiryStatus reports whether s is a known inquiry status.
func ValidInquiryStatus(s string) bool {
	switch s {
	case InquiryPending, InquiryInProgress, InquiryResolved, InquiryCancelled:
		return true
	}
	return false
}
