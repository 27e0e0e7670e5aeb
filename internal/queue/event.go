// Package queue defines message payloads exchanged over the message broker.
// The broker decouples the request path from the notification layer: the
// consumer side delivers emails/alerts without the web handlers waiting.
package queue

// Queue names.  Durable queues, one per event type.
const (
	QueueInquiryCreated    = "inquiry.created"
	QueueAccountLocked     = "account.locked"
	QueueEmailVerification = "email.verification.requested"
)

// InquiryCreatedEvent is published when a buyer raises an inquiry against
// a listing.  It carries enough information for downstream consumers to
// notify the owner and managing agent without querying the database.
type InquiryCreatedEvent struct {
	InquiryID        uint64 `json:"inquiry_id"`
	Reference        string `json:"reference"`
	ListingID        uint64 `json:"listing_id"`
	ListingTitle     string `json:"listing_title"`
	OwnerID          uint64 `json:"owner_id"`
	AgentID          uint64 `json:"agent_id,omitempty"`
	FromUserID       uint64 `json:"from_user_id"`
	FromEmail        string `json:"from_email"`
	PreferredContact string `json:"preferred_contact"`
	CreatedAt        string `json:"created_at"`
}

// AccountLockedEvent is published when five failed logins lock an account,
// so the notification layer can warn the owner about the attempts.
type AccountLockedEvent struct {
	UserID      uint64 `json:"user_id"`
	Email       string `json:"email"`
	LockedUntil string `json:"locked_until"`
	AttemptIP   string `json:"attempt_ip"`
}

// EmailVerificationEvent asks the mailer to deliver a verification link.
type EmailVerificationEvent struct {
	UserID    uint64 `json:"user_id"`
	Email     string `json:"email"`
	VerifyURL string `json:"verify_url"`
	ExpiresAt string `json:"expires_at"`
}
