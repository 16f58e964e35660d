package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/entity"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
	"github.com/LeFrancilien/LeadFlow/internal/service/scoring"
)

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// ColumnIgnore marks a CSV column that should not be imported.
const ColumnIgnore = "ignore"

// importableFields are the lead attributes a CSV column may be mapped onto.
var importableFields = map[string]func(*entity.Lead, string){
	"first_name":   func(l *entity.Lead, v string) { l.FirstName = v },
	"last_name":    func(l *entity.Lead, v string) { l.LastName = v },
	"email":        func(l *entity.Lead, v string) { l.Email = v },
	"phone":        func(l *entity.Lead, v string) { l.Phone = v },
	"company_name": func(l *entity.Lead, v string) { l.CompanyName = v },
	"job_title":    func(l *entity.Lead, v string) { l.JobTitle = v },
	"siren":        func(l *entity.Lead, v string) { l.SIREN = v },
	"siret":        func(l *entity.Lead, v string) { l.SIRET = v },
	"company_size": func(l *entity.Lead, v string) { l.CompanySize = v },
	"revenue":      func(l *entity.Lead, v string) { l.Revenue = v },
	"sector":       func(l *entity.Lead, v string) { l.Sector = v },
	"address":      func(l *entity.Lead, v string) { l.Address = v },
	"city":         func(l *entity.Lead, v string) { l.City = v },
	"postal_code":  func(l *entity.Lead, v string) { l.PostalCode = v },
	"country":      func(l *entity.Lead, v string) { l.Country = v },
	"website":      func(l *entity.Lead, v string) { l.Website = v },
	"linkedin_url": func(l *entity.Lead, v string) { l.LinkedInURL = v },
	"twitter_url":  func(l *entity.Lead, v string) { l.TwitterURL = v },
	"facebook_url": func(l *entity.Lead, v string) { l.FacebookURL = v },
	"notes":        func(l *entity.Lead, v string) { l.Notes = v },
}

// ImportService ingests leads from CSV uploads and from completed scrape runs.
type ImportService struct {
	leads repository.LeadsRepository
	runs  repository.ImportRunsRepository
	jobs  repository.ScrapingJobsRepository
}

// NewImportService creates a new instance of ImportService.
func NewImportService(leads repository.LeadsRepository, runs repository.ImportRunsRepository, jobs repository.ScrapingJobsRepository) *ImportService {
	return &ImportService{leads: leads, runs: runs, jobs: jobs}
}

// ImportCSV ingests leads from a CSV reader. The mapping assigns each CSV
// header to a lead attribute (or to "ignore"); unmapped columns are skipped.
// Rows are deduplicated on the exact email string, first write wins, and rows
// lacking any identifying field are reported as row errors without aborting
// the run.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader, mapping map[string]string, filename string) (dto.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return dto.ImportSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return dto.ImportSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	targets, err := resolveColumnTargets(header, mapping)
	if err != nil {
		return dto.ImportSummary{}, err
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dto.ImportSummary{}, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, row)
	}

	run := entity.ImportRun{
		Filename:  filename,
		Status:    entity.ImportStatusProcessing,
		TotalRows: len(rows),
	}
	if err := s.runs.Insert(ctx, &run); err != nil {
		return dto.ImportSummary{}, fmt.Errorf("record import run: %w", err)
	}

	summary := dto.ImportSummary{Total: len(rows)}
	seenEmails := make(map[string]struct{})

	for i, row := range rows {
		lead := entity.Lead{
			Type:   entity.LeadTypeB2B,
			Source: entity.LeadSourceImport,
			Status: entity.LeadStatusNew,
		}
		for col, assign := range targets {
			if col >= len(row) {
				continue
			}
			if value := strings.TrimSpace(row[col]); value != "" {
				assign(&lead, value)
			}
		}

		if !lead.HasIdentity() {
			summary.Errors = append(summary.Errors, dto.RowError{
				Row:   i + 1,
				Error: "row has no email, company name or phone",
			})
			continue
		}

		if lead.Email != "" {
			if _, dup := seenEmails[lead.Email]; dup {
				summary.Duplicates++
				continue
			}
			if _, err := s.leads.FindIDByEmail(ctx, lead.Email); err == nil {
				summary.Duplicates++
				continue
			} else if !errors.Is(err, repository.ErrLeadNotFound) {
				return dto.ImportSummary{}, fmt.Errorf("check duplicate email: %w", err)
			}
			seenEmails[lead.Email] = struct{}{}
		}

		if err := s.leads.Insert(ctx, &lead); err != nil {
			summary.Errors = append(summary.Errors, dto.RowError{Row: i + 1, Error: "insert failed"})
			zap.L().Warn("lead insert failed during import",
				zap.Int("row", i+1), zap.Error(err))
			continue
		}
		summary.Imported++
	}

	rowErrors, err := json.Marshal(summary.Errors)
	if err != nil {
		rowErrors = json.RawMessage("[]")
	}
	if err := s.runs.Finish(ctx, run.ID, entity.ImportStatusCompleted, summary.Imported, summary.Duplicates, rowErrors); err != nil {
		zap.L().Warn("import run finalize failed", zap.String("import_id", run.ID.String()), zap.Error(err))
	}
	return summary, nil
}

// ListRuns returns past import runs, newest first.
func (s *ImportService) ListRuns(ctx context.Context) ([]entity.ImportRun, error) {
	return s.runs.List(ctx)
}

// ImportScrapeResults promotes results of a completed scrape job to leads.
// An empty index list promotes everything. Results are deduplicated on phone
// first, then on company name; existing leads always win. Each result is
// attempted on its own: a failed insert is logged and skipped, never aborting
// the remaining results.
func (s *ImportService) ImportScrapeResults(ctx context.Context, jobID uuid.UUID, indices []int) (dto.ScrapeImportSummary, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrScrapingJobNotFound) {
			return dto.ScrapeImportSummary{}, ErrScrapingJobNotFound
		}
		return dto.ScrapeImportSummary{}, fmt.Errorf("load scraping job: %w", err)
	}
	if job.Status != entity.ScrapingStatusCompleted {
		return dto.ScrapeImportSummary{}, CSVValidationError{Message: "scraping job has not completed"}
	}

	var results []entity.ScrapeResult
	if len(job.Results) > 0 {
		if err := json.Unmarshal(job.Results, &results); err != nil {
			return dto.ScrapeImportSummary{}, fmt.Errorf("decode scrape results: %w", err)
		}
	}

	selected, err := selectResults(results, indices)
	if err != nil {
		return dto.ScrapeImportSummary{}, err
	}

	summary := dto.ScrapeImportSummary{Total: len(selected)}
	for _, result := range selected {
		if s.isScrapeDuplicate(ctx, result) {
			summary.Duplicates++
			continue
		}

		raw, err := json.Marshal(result)
		if err != nil {
			raw = nil
		}
		lead := entity.Lead{
			Type:        entity.LeadTypeB2B,
			Source:      entity.LeadSourceScraping,
			Status:      entity.LeadStatusNew,
			CompanyName: result.Name,
			Address:     result.Address,
			Phone:       result.Phone,
			Website:     result.Website,
			Sector:      result.Category,
			RawData:     raw,
		}
		lead.Score = scoring.Score(scoring.FromLead(lead)).Total

		if err := s.leads.Insert(ctx, &lead); err != nil {
			zap.L().Warn("scraped lead insert failed",
				zap.String("job_id", jobID.String()),
				zap.String("company", result.Name), zap.Error(err))
			continue
		}
		summary.Imported++
	}

	if summary.Imported > 0 {
		imported := job.ImportedResults + summary.Imported
		if err := s.jobs.Update(ctx, jobID, repository.ScrapingJobPatch{ImportedResults: &imported}); err != nil {
			zap.L().Warn("scrape import counter update failed",
				zap.String("job_id", jobID.String()), zap.Error(err))
		}
	}
	return summary, nil
}

// A failed dedup lookup is logged and treated as no match; the insert attempt
// that follows still stands on its own.
func (s *ImportService) isScrapeDuplicate(ctx context.Context, result entity.ScrapeResult) bool {
	if result.Phone != "" {
		if _, err := s.leads.FindIDByPhone(ctx, result.Phone); err == nil {
			return true
		} else if !errors.Is(err, repository.ErrLeadNotFound) {
			zap.L().Warn("duplicate phone lookup failed", zap.Error(err))
		}
	}
	if result.Name != "" {
		if _, err := s.leads.FindIDByCompanyName(ctx, result.Name); err == nil {
			return true
		} else if !errors.Is(err, repository.ErrLeadNotFound) {
			zap.L().Warn("duplicate company lookup failed", zap.Error(err))
		}
	}
	return false
}

func resolveColumnTargets(header []string, mapping map[string]string) (map[int]func(*entity.Lead, string), error) {
	targets := make(map[int]func(*entity.Lead, string))
	for i, col := range header {
		name := strings.TrimSpace(col)
		field, ok := mapping[name]
		if !ok || field == ColumnIgnore {
			continue
		}
		assign, known := importableFields[field]
		if !known {
			return nil, CSVValidationError{Message: fmt.Sprintf("unknown target field %q for column %q", field, name)}
		}
		targets[i] = assign
	}
	if len(targets) == 0 {
		return nil, CSVValidationError{Message: "column mapping selects no fields"}
	}
	return targets, nil
}

func selectResults(results []entity.ScrapeResult, indices []int) ([]entity.ScrapeResult, error) {
	if len(indices) == 0 {
		return results, nil
	}
	selected := make([]entity.ScrapeResult, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(results) {
			return nil, CSVValidationError{Message: fmt.Sprintf("result index %d out of range", idx)}
		}
		selected = append(selected, results[idx])
	}
	return selected, nil
}
