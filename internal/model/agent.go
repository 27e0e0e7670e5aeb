package model

import "time"

// AgentProfile is the professional profile attached one-to-one to an
// agent-role user.  Directory aggregates (listing counts, average review
// rating) are computed at query time, not stored here.
type AgentProfile struct {
	ID              uint64    // agent_profiles.id
	UserID          uint64    // agent_profiles.user_id
	LicenseNumber   string    // agent_profiles.license_number
	CompanyName     string    // agent_profiles.company_name
	ExperienceYears int       // agent_profiles.experience_years
	Specializations string    // agent_profiles.specializations
	ServiceAreas    string    // agent_profiles.service_areas
	Languages       string    // agent_profiles.languages
	OfficePhone     string    // agent_profiles.office_phone
	OfficeAddress   string    // agent_profiles.office_address
	CreatedAt       time.Time // agent_profiles.created_at
	UpdatedAt       time.Time // agent_profiles.updated_at
}
