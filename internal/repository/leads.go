package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/entity"
)

// ErrLeadNotFound is returned when no lead matches the lookup criteria.
var ErrLeadNotFound = errors.New("lead not found")

// LeadPatch carries a partial lead update; nil fields are left untouched.
type LeadPatch struct {
	Type          *string
	Source        *string
	Status        *string
	Score         *int
	FirstName     *string
	LastName      *string
	Email         *string
	Phone         *string
	CompanyName   *string
	JobTitle      *string
	SIREN         *string
	SIRET         *string
	CompanySize   *string
	Revenue       *string
	Sector        *string
	Address       *string
	City          *string
	PostalCode    *string
	Country       *string
	Website       *string
	LinkedInURL   *string
	TwitterURL    *string
	FacebookURL   *string
	Tags          *[]string
	Notes         *string
	EmailVerified *string
	EnrichedAt    *time.Time
}

// IsEmpty reports whether the patch stages no changes at all.
func (p LeadPatch) IsEmpty() bool {
	return p == LeadPatch{}
}

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	Insert(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, int, error)
	Update(ctx context.Context, id uuid.UUID, patch LeadPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
	FindIDByEmail(ctx context.Context, email string) (uuid.UUID, error)
	FindIDByPhone(ctx context.Context, phone string) (uuid.UUID, error)
	FindIDByCompanyName(ctx context.Context, name string) (uuid.UUID, error)
}

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

const leadColumns = `
        id,
        type,
        source,
        status,
        score,
        first_name,
        last_name,
        email,
        phone,
        company_name,
        job_title,
        siren,
        siret,
        company_size,
        revenue,
        sector,
        address,
        city,
        postal_code,
        country,
        website,
        linkedin_url,
        twitter_url,
        facebook_url,
        tags,
        notes,
        technologies,
        raw_data,
        email_verified,
        enriched_at,
        created_at,
        updated_at`

// Insert persists a new lead and fills the generated id and timestamps.
func (r *PGXLeadsRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	if lead == nil {
		return fmt.Errorf("lead payload is nil")
	}

	technologies := lead.Technologies
	if len(technologies) == 0 {
		technologies = json.RawMessage("{}")
	}
	rawData := lead.RawData
	if len(rawData) == 0 {
		rawData = json.RawMessage("{}")
	}
	tags := lead.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
        INSERT INTO leads (
            type, source, status, score,
            first_name, last_name, email, phone,
            company_name, job_title, siren, siret,
            company_size, revenue, sector,
            address, city, postal_code, country,
            website, linkedin_url, twitter_url, facebook_url,
            tags, notes, technologies, raw_data,
            email_verified, enriched_at
        ) VALUES (
            $1, $2, $3, $4,
            $5, $6, $7, $8,
            $9, $10, $11, $12,
            $13, $14, $15,
            $16, $17, $18, $19,
            $20, $21, $22, $23,
            $24, $25, $26::jsonb, $27::jsonb,
            $28, $29
        )
        RETURNING id, created_at, updated_at
    `

	row := r.pool.QueryRow(ctx, query,
		lead.Type,
		lead.Source,
		lead.Status,
		lead.Score,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.CompanyName,
		lead.JobTitle,
		lead.SIREN,
		lead.SIRET,
		lead.CompanySize,
		lead.Revenue,
		lead.Sector,
		lead.Address,
		lead.City,
		lead.PostalCode,
		lead.Country,
		lead.Website,
		lead.LinkedInURL,
		lead.TwitterURL,
		lead.FacebookURL,
		tags,
		lead.Notes,
		string(technologies),
		string(rawData),
		stringOrNil(lead.EmailVerified),
		lead.EnrichedAt,
	)
	if err := row.Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

// GetByID fetches a single lead by identifier.
func (r *PGXLeadsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("query lead by id: %w", err)
	}
	return lead, nil
}

// List retrieves leads matching the filter ordered by creation time (desc),
// along with the total number of matches before pagination.
func (r *PGXLeadsRepository) List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, int, error) {
	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", escapeLikePattern(filter.Search))
		clauses = append(clauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR company_name ILIKE $%d)",
			idx, idx+1, idx+2, idx+3))
		args = append(args, pattern, pattern, pattern, pattern)
		idx += 4
	}
	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", idx))
		args = append(args, filter.Status)
		idx++
	}
	if filter.Source != "" {
		clauses = append(clauses, fmt.Sprintf("source = $%d", idx))
		args = append(args, filter.Source)
		idx++
	}
	if filter.Type != "" {
		clauses = append(clauses, fmt.Sprintf("type = $%d", idx))
		args = append(args, filter.Type)
		idx++
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 25
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage

	query := fmt.Sprintf("SELECT %s FROM leads%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		leadColumns, where, idx, idx+1)
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads, err := scanLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// escapeLikePattern neutralizes LIKE metacharacters in user-supplied search
// terms so a literal "%" or "_" matches itself instead of acting as a wildcard.
func escapeLikePattern(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// Update applies a partial update to the lead row in a single write.
func (r *PGXLeadsRepository) Update(ctx context.Context, id uuid.UUID, patch LeadPatch) error {
	setClauses := make([]string, 0)
	args := make([]any, 0)
	idx := 1

	appendSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if patch.Type != nil {
		appendSet("type", *patch.Type)
	}
	if patch.Source != nil {
		appendSet("source", *patch.Source)
	}
	if patch.Status != nil {
		appendSet("status", *patch.Status)
	}
	if patch.Score != nil {
		appendSet("score", *patch.Score)
	}
	if patch.FirstName != nil {
		appendSet("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		appendSet("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		appendSet("email", *patch.Email)
	}
	if patch.Phone != nil {
		appendSet("phone", *patch.Phone)
	}
	if patch.CompanyName != nil {
		appendSet("company_name", *patch.CompanyName)
	}
	if patch.JobTitle != nil {
		appendSet("job_title", *patch.JobTitle)
	}
	if patch.SIREN != nil {
		appendSet("siren", *patch.SIREN)
	}
	if patch.SIRET != nil {
		appendSet("siret", *patch.SIRET)
	}
	if patch.CompanySize != nil {
		appendSet("company_size", *patch.CompanySize)
	}
	if patch.Revenue != nil {
		appendSet("revenue", *patch.Revenue)
	}
	if patch.Sector != nil {
		appendSet("sector", *patch.Sector)
	}
	if patch.Address != nil {
		appendSet("address", *patch.Address)
	}
	if patch.City != nil {
		appendSet("city", *patch.City)
	}
	if patch.PostalCode != nil {
		appendSet("postal_code", *patch.PostalCode)
	}
	if patch.Country != nil {
		appendSet("country", *patch.Country)
	}
	if patch.Website != nil {
		appendSet("website", *patch.Website)
	}
	if patch.LinkedInURL != nil {
		appendSet("linkedin_url", *patch.LinkedInURL)
	}
	if patch.TwitterURL != nil {
		appendSet("twitter_url", *patch.TwitterURL)
	}
	if patch.FacebookURL != nil {
		appendSet("facebook_url", *patch.FacebookURL)
	}
	if patch.Tags != nil {
		appendSet("tags", *patch.Tags)
	}
	if patch.Notes != nil {
		appendSet("notes", *patch.Notes)
	}
	if patch.EmailVerified != nil {
		appendSet("email_verified", *patch.EmailVerified)
	}
	if patch.EnrichedAt != nil {
		appendSet("enriched_at", *patch.EnrichedAt)
	}

	if len(setClauses) == 0 {
		return nil
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d", strings.Join(setClauses, ", "), idx)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Delete removes a lead by id.
func (r *PGXLeadsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// DeleteMany removes the given set of leads in one statement.
func (r *PGXLeadsRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete leads: %w", err)
	}
	return nil
}

// FindIDByEmail returns the id of the lead with the exact email, if any.
func (r *PGXLeadsRepository) FindIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	return r.findID(ctx, `SELECT id FROM leads WHERE email = $1 LIMIT 1`, email)
}

// FindIDByPhone returns the id of the lead with the exact phone, if any.
func (r *PGXLeadsRepository) FindIDByPhone(ctx context.Context, phone string) (uuid.UUID, error) {
	return r.findID(ctx, `SELECT id FROM leads WHERE phone = $1 LIMIT 1`, phone)
}

// FindIDByCompanyName returns the id of the lead with the exact company name, if any.
func (r *PGXLeadsRepository) FindIDByCompanyName(ctx context.Context, name string) (uuid.UUID, error) {
	return r.findID(ctx, `SELECT id FROM leads WHERE company_name = $1 LIMIT 1`, name)
}

func (r *PGXLeadsRepository) findID(ctx context.Context, query string, arg any) (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrLeadNotFound
		}
		return uuid.Nil, fmt.Errorf("find lead id: %w", err)
	}
	return id, nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead          entity.Lead
		firstName     sql.NullString
		lastName      sql.NullString
		email         sql.NullString
		phone         sql.NullString
		companyName   sql.NullString
		jobTitle      sql.NullString
		siren         sql.NullString
		siret         sql.NullString
		companySize   sql.NullString
		revenue       sql.NullString
		sector        sql.NullString
		address       sql.NullString
		city          sql.NullString
		postalCode    sql.NullString
		country       sql.NullString
		website       sql.NullString
		linkedinURL   sql.NullString
		twitterURL    sql.NullString
		facebookURL   sql.NullString
		tags          []string
		notes         sql.NullString
		technologies  []byte
		rawData       []byte
		emailVerified sql.NullString
		enrichedAt    sql.NullTime
	)

	err := row.Scan(
		&lead.ID,
		&lead.Type,
		&lead.Source,
		&lead.Status,
		&lead.Score,
		&firstName,
		&lastName,
		&email,
		&phone,
		&companyName,
		&jobTitle,
		&siren,
		&siret,
		&companySize,
		&revenue,
		&sector,
		&address,
		&city,
		&postalCode,
		&country,
		&website,
		&linkedinURL,
		&twitterURL,
		&facebookURL,
		&tags,
		&notes,
		&technologies,
		&rawData,
		&emailVerified,
		&enrichedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.FirstName = firstName.String
	lead.LastName = lastName.String
	lead.Email = email.String
	lead.Phone = phone.String
	lead.CompanyName = companyName.String
	lead.JobTitle = jobTitle.String
	lead.SIREN = siren.String
	lead.SIRET = siret.String
	lead.CompanySize = companySize.String
	lead.Revenue = revenue.String
	lead.Sector = sector.String
	lead.Address = address.String
	lead.City = city.String
	lead.PostalCode = postalCode.String
	lead.Country = country.String
	lead.Website = website.String
	lead.LinkedInURL = linkedinURL.String
	lead.TwitterURL = twitterURL.String
	lead.FacebookURL = facebookURL.String
	lead.Notes = notes.String
	lead.EmailVerified = emailVerified.String

	if tags != nil {
		lead.Tags = tags
	} else {
		lead.Tags = []string{}
	}
	if len(technologies) > 0 {
		lead.Technologies = json.RawMessage(technologies)
	} else {
		lead.Technologies = json.RawMessage("{}")
	}
	if len(rawData) > 0 {
		lead.RawData = json.RawMessage(rawData)
	} else {
		lead.RawData = json.RawMessage("{}")
	}
	if enrichedAt.Valid {
		ts := enrichedAt.Time
		lead.EnrichedAt = &ts
	}

	return &lead, nil
}

func scanLeads(rows pgx.Rows) ([]entity.Lead, error) {
	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func stringOrNil(value string) any {
	if value == "" {
		return nil
	}
	return value
}
