package repository

import (
	"context"
	"database/sql"

	"github.com/homereach/estate-api/internal/model"
)

// AgentRepo manages agent professional profiles and the public agent
// directory.  Directory rows carry annotated aggregates: the count of
// available listings the agent owns or manages, and the average rating of
// reviews left on their owned listings.
type AgentRepo struct{ DB *sql.DB }

func NewAgentRepo(db *sql.DB) *AgentRepo { return &AgentRepo{DB: db} }

// Upsert creates or updates the profile for an agent-role user.  The
// license number is globally unique; a clash surfaces as ErrDuplicate.
func (r *AgentRepo) Upsert(ctx context.Context, p model.AgentProfile) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO agent_profiles (user_id, license_number, company_name,
			experience_years, specializations, service_areas, languages,
			office_phone, office_address)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
			license_number=VALUES(license_number),
			company_name=VALUES(company_name),
			experience_years=VALUES(experience_years),
			specializations=VALUES(specializations),
			service_areas=VALUES(service_areas),
			languages=VALUES(languages),
			office_phone=VALUES(office_phone),
			office_address=VALUES(office_address)`,
		p.UserID, p.LicenseNumber, p.CompanyName, p.ExperienceYears,
		p.Specializations, p.ServiceAreas, p.Languages, p.OfficePhone,
		p.OfficeAddress)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// GetByUserID fetches the profile attached to a user.
func (r *AgentRepo) GetByUserID(ctx context.Context, userID uint64) (model.AgentProfile, error) {
	var p model.AgentProfile
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, license_number, company_name, experience_years,
		       specializations, service_areas, languages, office_phone,
		       office_address, created_at, updated_at
		FROM agent_profiles WHERE user_id=? LIMIT 1`, userID).
		Scan(&p.ID, &p.UserID, &p.LicenseNumber, &p.CompanyName,
			&p.ExperienceYears, &p.Specializations, &p.ServiceAreas,
			&p.Languages, &p.OfficePhone, &p.OfficeAddress,
			&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// DirectoryRow is one agent in the public directory.
type DirectoryRow struct {
	UserID        uint64  `json:"user_id"`
	Email         string  `json:"email"`
	CompanyName   string  `json:"company_name"`
	LicenseNumber string  `json:"license_number"`
	Experience    int     `json:"experience_years"`
	ListingCount  int64   `json:"listing_count"`
	AverageRating float64 `json:"average_rating"`
}

// Directory lists agents with their available-listing counts and average
// review ratings, busiest agents first.
func (r *AgentRepo) Directory(ctx context.Context, limit int) ([]DirectoryRow, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.user_id, u.email, p.company_name, p.license_number,
		       p.experience_years,
		       (SELECT COUNT(DISTINCT l.id) FROM listings l
		        WHERE (l.owner_id = p.user_id OR l.agent_id = p.user_id)
		          AND l.status = 'available') AS listing_count,
		       COALESCE((SELECT AVG(rv.rating) FROM reviews rv
		                 JOIN listings ol ON ol.id = rv.listing_id
		                 WHERE ol.owner_id = p.user_id), 0) AS average_rating
		FROM agent_profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY listing_count DESC, p.user_id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DirectoryRow{}
	for rows.Next() {
		var d DirectoryRow
		if err := rows.Scan(&d.UserID, &d.Email, &d.CompanyName,
			&d.LicenseNumber, &d.Experience, &d.ListingCount, &d.AverageRating); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
