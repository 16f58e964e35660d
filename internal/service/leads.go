package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/entity"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
	"github.com/LeFrancilien/LeadFlow/internal/service/scoring"
)

// ErrLeadNotFound is returned when the requested lead does not exist.
var ErrLeadNotFound = errors.New("lead not found")

// ErrEmptyUpdate is returned when a partial update stages no changes.
var ErrEmptyUpdate = errors.New("update contains no fields")

// LeadsService exposes CRUD operations over the lead pipeline.
type LeadsService struct {
	repo      repository.LeadsRepository
	validator *Validator
}

// NewLeadsService creates a new instance of LeadsService.
func NewLeadsService(repo repository.LeadsRepository, validator *Validator) *LeadsService {
	return &LeadsService{repo: repo, validator: validator}
}

// ListLeads returns a page of leads plus the unpaginated total.
func (s *LeadsService) ListLeads(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, int, error) {
	return s.repo.List(ctx, filter)
}

// GetLead fetches one lead by id.
func (s *LeadsService) GetLead(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

// CreateLead validates the payload, applies the form defaults, computes the
// initial score and persists the lead.
func (s *LeadsService) CreateLead(ctx context.Context, req dto.CreateLeadRequest) (*entity.Lead, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	lead := entity.Lead{
		Type:        orDefault(req.Type, entity.LeadTypeB2B),
		Source:      orDefault(req.Source, entity.LeadSourceManual),
		Status:      orDefault(req.Status, entity.LeadStatusNew),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
		SIREN:       req.SIREN,
		SIRET:       req.SIRET,
		CompanySize: req.CompanySize,
		Revenue:     req.Revenue,
		Sector:      req.Sector,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Website:     req.Website,
		LinkedInURL: req.LinkedInURL,
		TwitterURL:  req.TwitterURL,
		FacebookURL: req.FacebookURL,
		Tags:        req.Tags,
		Notes:       req.Notes,
	}
	if !lead.HasIdentity() {
		return nil, ValidationError{Fields: map[string]string{
			"email": "at least one of email, company_name or phone is required",
		}}
	}

	lead.Score = scoring.Score(scoring.FromLead(lead)).Total

	if err := s.repo.Insert(ctx, &lead); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return &lead, nil
}

// UpdateLead applies a partial edit, rescores the lead and returns the
// refreshed record.
func (s *LeadsService) UpdateLead(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*entity.Lead, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	patch := repository.LeadPatch{
		Type:        req.Type,
		Source:      req.Source,
		Status:      req.Status,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
		SIREN:       req.SIREN,
		SIRET:       req.SIRET,
		CompanySize: req.CompanySize,
		Revenue:     req.Revenue,
		Sector:      req.Sector,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Website:     req.Website,
		LinkedInURL: req.LinkedInURL,
		TwitterURL:  req.TwitterURL,
		FacebookURL: req.FacebookURL,
		Tags:        req.Tags,
		Notes:       req.Notes,
	}
	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}

	// Rescore from the stored record so edits to scored attributes are
	// reflected immediately.
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload lead: %w", err)
	}
	score := scoring.Score(scoring.FromLead(*lead)).Total
	if score != lead.Score {
		if err := s.repo.Update(ctx, id, repository.LeadPatch{Score: &score}); err != nil {
			return nil, fmt.Errorf("persist score: %w", err)
		}
		lead.Score = score
	}
	return lead, nil
}

// DeleteLead removes one lead.
func (s *LeadsService) DeleteLead(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrLeadNotFound) {
		return ErrLeadNotFound
	}
	return err
}

// BulkDeleteLeads removes every listed lead; unknown ids are ignored.
func (s *LeadsService) BulkDeleteLeads(ctx context.Context, req dto.BulkDeleteRequest) (int, error) {
	if len(req.IDs) == 0 {
		return 0, ValidationError{Fields: map[string]string{"ids": "is required"}}
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return 0, ValidationError{Fields: map[string]string{"ids": fmt.Sprintf("invalid id %q", raw)}}
		}
		ids = append(ids, id)
	}

	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return 0, fmt.Errorf("bulk delete leads: %w", err)
	}
	return len(ids), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
