package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/LeFrancilien/LeadFlow/internal/entity"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
)

type mockImportRunsRepository struct {
	insert func(ctx context.Context, run *entity.ImportRun) error
	finish func(ctx context.Context, id uuid.UUID, status string, imported, duplicates int, rowErrors json.RawMessage) error
	list   func(ctx context.Context) ([]entity.ImportRun, error)
}

func (m *mockImportRunsRepository) Insert(ctx context.Context, run *entity.ImportRun) error {
	if m.insert != nil {
		return m.insert(ctx, run)
	}
	run.ID = uuid.New()
	return nil
}

func (m *mockImportRunsRepository) Finish(ctx context.Context, id uuid.UUID, status string, imported, duplicates int, rowErrors json.RawMessage) error {
	if m.finish != nil {
		return m.finish(ctx, id, status, imported, duplicates, rowErrors)
	}
	return nil
}

func (m *mockImportRunsRepository) List(ctx context.Context) ([]entity.ImportRun, error) {
	if m.list != nil {
		return m.list(ctx)
	}
	return nil, errors.New("list not implemented")
}

type mockScrapingJobsRepository struct {
	insert  func(ctx context.Context, job *entity.ScrapingJob) error
	getByID func(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error)
	list    func(ctx context.Context) ([]entity.ScrapingJob, error)
	update  func(ctx context.Context, id uuid.UUID, patch repository.ScrapingJobPatch) error
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockScrapingJobsRepository) Insert(ctx context.Context, job *entity.ScrapingJob) error {
	if m.insert != nil {
		return m.insert(ctx, job)
	}
	job.ID = uuid.New()
	return nil
}

func (m *mockScrapingJobsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return nil, repository.ErrScrapingJobNotFound
}

func (m *mockScrapingJobsRepository) List(ctx context.Context) ([]entity.ScrapingJob, error) {
	if m.list != nil {
		return m.list(ctx)
	}
	return nil, errors.New("list not implemented")
}

func (m *mockScrapingJobsRepository) Update(ctx context.Context, id uuid.UUID, patch repository.ScrapingJobPatch) error {
	if m.update != nil {
		return m.update(ctx, id, patch)
	}
	return nil
}

func (m *mockScrapingJobsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return errors.New("delete not implemented")
}

var csvMapping = map[string]string{
	"Prénom":     "first_name",
	"Nom":        "last_name",
	"Email":      "email",
	"Société":    "company_name",
	"Téléphone":  "phone",
	"Commentaire": ColumnIgnore,
}

func TestImportService_ImportCSV(t *testing.T) {
	var inserted []entity.Lead
	leads := &mockLeadsRepository{
		insert: func(ctx context.Context, lead *entity.Lead) error {
			inserted = append(inserted, *lead)
			return nil
		},
		findByEmail: func(ctx context.Context, email string) (uuid.UUID, error) {
			if email == "deja@exemple.fr" {
				return uuid.New(), nil
			}
			return uuid.Nil, repository.ErrLeadNotFound
		},
	}

	var finishedStatus string
	runs := &mockImportRunsRepository{
		finish: func(ctx context.Context, id uuid.UUID, status string, imported, duplicates int, rowErrors json.RawMessage) error {
			finishedStatus = status
			return nil
		},
	}

	csv := strings.Join([]string{
		"Prénom,Nom,Email,Société,Téléphone,Commentaire",
		"Marie,Durand,marie@exemple.fr,Durand SAS,+33612345678,vip",
		"Jean,Petit,deja@exemple.fr,Petit SARL,,",
		"Luc,Bernard,marie@exemple.fr,,,",
		",,,,,",
	}, "\n")

	service := NewImportService(leads, runs, &mockScrapingJobsRepository{})
	summary, err := service.ImportCSV(context.Background(), strings.NewReader(csv), csvMapping, "leads.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Total != 4 {
		t.Errorf("total = %d, want 4", summary.Total)
	}
	if summary.Imported != 1 {
		t.Errorf("imported = %d, want 1", summary.Imported)
	}
	// One existing email, one repeated within the file.
	if summary.Duplicates != 2 {
		t.Errorf("duplicates = %d, want 2", summary.Duplicates)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].Row != 4 {
		t.Errorf("errors = %+v, want one error on row 4", summary.Errors)
	}

	if len(inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(inserted))
	}
	lead := inserted[0]
	if lead.Email != "marie@exemple.fr" || lead.CompanyName != "Durand SAS" {
		t.Errorf("inserted lead = %+v", lead)
	}
	if lead.Source != entity.LeadSourceImport {
		t.Errorf("source = %q, want import", lead.Source)
	}
	if lead.Score != 0 {
		t.Errorf("score = %d, csv rows are inserted unscored", lead.Score)
	}
	if finishedStatus != entity.ImportStatusCompleted {
		t.Errorf("run status = %q, want completed", finishedStatus)
	}
}

func TestImportService_ImportCSV_EmailDedupIsExactMatch(t *testing.T) {
	var inserted []entity.Lead
	leads := &mockLeadsRepository{
		insert: func(ctx context.Context, lead *entity.Lead) error {
			inserted = append(inserted, *lead)
			return nil
		},
	}

	csv := strings.Join([]string{
		"Email",
		"Marie@Exemple.FR",
		"Marie@Exemple.FR",
		"marie@exemple.fr",
	}, "\n")

	service := NewImportService(leads, &mockImportRunsRepository{}, &mockScrapingJobsRepository{})
	summary, err := service.ImportCSV(context.Background(), strings.NewReader(csv),
		map[string]string{"Email": "email"}, "leads.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the byte-identical repeat is a duplicate; case variants are distinct.
	if summary.Imported != 2 || summary.Duplicates != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if inserted[0].Email != "Marie@Exemple.FR" {
		t.Fatalf("email = %q, case must be kept as provided", inserted[0].Email)
	}
}

func TestImportService_ImportCSV_EmptyFile(t *testing.T) {
	service := NewImportService(&mockLeadsRepository{}, &mockImportRunsRepository{}, &mockScrapingJobsRepository{})
	_, err := service.ImportCSV(context.Background(), strings.NewReader(""), csvMapping, "empty.csv")

	var verr CSVValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected CSVValidationError, got %v", err)
	}
}

func TestImportService_ImportCSV_UnknownTargetField(t *testing.T) {
	service := NewImportService(&mockLeadsRepository{}, &mockImportRunsRepository{}, &mockScrapingJobsRepository{})
	_, err := service.ImportCSV(context.Background(),
		strings.NewReader("Email\nmarie@exemple.fr"),
		map[string]string{"Email": "mailbox"}, "leads.csv")

	var verr CSVValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected CSVValidationError, got %v", err)
	}
}

func TestImportService_ImportCSV_MappingSelectsNothing(t *testing.T) {
	service := NewImportService(&mockLeadsRepository{}, &mockImportRunsRepository{}, &mockScrapingJobsRepository{})
	_, err := service.ImportCSV(context.Background(),
		strings.NewReader("Email\nmarie@exemple.fr"),
		map[string]string{"Email": ColumnIgnore}, "leads.csv")

	var verr CSVValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected CSVValidationError, got %v", err)
	}
}

func scrapeJobWithResults(t *testing.T, status string, results []entity.ScrapeResult) *entity.ScrapingJob {
	t.Helper()
	raw, err := json.Marshal(results)
	if err != nil {
		t.Fatalf("marshal results: %v", err)
	}
	return &entity.ScrapingJob{
		ID:      uuid.New(),
		Status:  status,
		Results: raw,
	}
}

func TestImportService_ImportScrapeResults(t *testing.T) {
	job := scrapeJobWithResults(t, entity.ScrapingStatusCompleted, []entity.ScrapeResult{
		{Name: "Boulangerie Martin", Phone: "+33499887766", Address: "2 rue des Halles", Website: "https://martin.fr", Category: "Boulangerie"},
		{Name: "Café Central", Phone: "+33411223344"},
		{Name: "Garage Dupont"},
	})

	var inserted []entity.Lead
	leads := &mockLeadsRepository{
		insert: func(ctx context.Context, lead *entity.Lead) error {
			inserted = append(inserted, *lead)
			return nil
		},
		findByPhone: func(ctx context.Context, phone string) (uuid.UUID, error) {
			if phone == "+33411223344" {
				return uuid.New(), nil
			}
			return uuid.Nil, repository.ErrLeadNotFound
		},
		findByCompany: func(ctx context.Context, name string) (uuid.UUID, error) {
			if name == "Garage Dupont" {
				return uuid.New(), nil
			}
			return uuid.Nil, repository.ErrLeadNotFound
		},
	}

	var counterPatch *repository.ScrapingJobPatch
	jobs := &mockScrapingJobsRepository{
		getByID: func(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) {
			return job, nil
		},
		update: func(ctx context.Context, id uuid.UUID, patch repository.ScrapingJobPatch) error {
			counterPatch = &patch
			return nil
		},
	}

	service := NewImportService(leads, &mockImportRunsRepository{}, jobs)
	summary, err := service.ImportScrapeResults(context.Background(), job.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Total != 3 || summary.Imported != 1 || summary.Duplicates != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(inserted))
	}
	lead := inserted[0]
	if lead.CompanyName != "Boulangerie Martin" || lead.Sector != "Boulangerie" {
		t.Errorf("inserted lead = %+v", lead)
	}
	if lead.Source != entity.LeadSourceScraping || lead.Type != entity.LeadTypeB2B {
		t.Errorf("source/type = %q/%q", lead.Source, lead.Type)
	}
	if len(lead.RawData) == 0 {
		t.Error("raw scrape payload not kept")
	}
	if counterPatch == nil || counterPatch.ImportedResults == nil || *counterPatch.ImportedResults != 1 {
		t.Errorf("imported counter patch = %+v", counterPatch)
	}
}

func TestImportService_ImportScrapeResults_SelectsIndices(t *testing.T) {
	job := scrapeJobWithResults(t, entity.ScrapingStatusCompleted, []entity.ScrapeResult{
		{Name: "A"}, {Name: "B"}, {Name: "C"},
	})

	var inserted []string
	leads := &mockLeadsRepository{
		insert: func(ctx context.Context, lead *entity.Lead) error {
			inserted = append(inserted, lead.CompanyName)
			return nil
		},
	}
	jobs := &mockScrapingJobsRepository{
		getByID: func(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) { return job, nil },
	}

	service := NewImportService(leads, &mockImportRunsRepository{}, jobs)
	summary, err := service.ImportScrapeResults(context.Background(), job.ID, []int{2, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Imported != 2 {
		t.Fatalf("imported = %d, want 2", summary.Imported)
	}
	if len(inserted) != 2 || inserted[0] != "C" || inserted[1] != "A" {
		t.Fatalf("inserted = %v", inserted)
	}
}

func TestImportService_ImportScrapeResults_InsertFailureSkipsResult(t *testing.T) {
	job := scrapeJobWithResults(t, entity.ScrapingStatusCompleted, []entity.ScrapeResult{
		{Name: "Boulangerie Martin"}, {Name: "Café Central"},
	})

	var inserted []string
	leads := &mockLeadsRepository{
		insert: func(ctx context.Context, lead *entity.Lead) error {
			if lead.CompanyName == "Boulangerie Martin" {
				return errors.New("constraint violation")
			}
			inserted = append(inserted, lead.CompanyName)
			return nil
		},
	}
	jobs := &mockScrapingJobsRepository{
		getByID: func(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) { return job, nil },
	}

	service := NewImportService(leads, &mockImportRunsRepository{}, jobs)
	summary, err := service.ImportScrapeResults(context.Background(), job.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 2 || summary.Imported != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(inserted) != 1 || inserted[0] != "Café Central" {
		t.Fatalf("inserted = %v, remaining results must still be attempted", inserted)
	}
}

func TestImportService_ImportScrapeResults_DedupLookupFailureStillInserts(t *testing.T) {
	job := scrapeJobWithResults(t, entity.ScrapingStatusCompleted, []entity.ScrapeResult{
		{Name: "Boulangerie Martin", Phone: "+33499887766"},
	})

	var inserted []string
	leads := &mockLeadsRepository{
		insert: func(ctx context.Context, lead *entity.Lead) error {
			inserted = append(inserted, lead.CompanyName)
			return nil
		},
		findByPhone: func(ctx context.Context, phone string) (uuid.UUID, error) {
			return uuid.Nil, errors.New("connection reset")
		},
		findByCompany: func(ctx context.Context, name string) (uuid.UUID, error) {
			return uuid.Nil, errors.New("connection reset")
		},
	}
	jobs := &mockScrapingJobsRepository{
		getByID: func(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) { return job, nil },
	}

	service := NewImportService(leads, &mockImportRunsRepository{}, jobs)
	summary, err := service.ImportScrapeResults(context.Background(), job.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Imported != 1 || len(inserted) != 1 {
		t.Fatalf("summary = %+v, inserted = %v", summary, inserted)
	}
}

func TestImportService_ImportScrapeResults_IndexOutOfRange(t *testing.T) {
	job := scrapeJobWithResults(t, entity.ScrapingStatusCompleted, []entity.ScrapeResult{{Name: "A"}})
	jobs := &mockScrapingJobsRepository{
		getByID: func(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) { return job, nil },
	}

	service := NewImportService(&mockLeadsRepository{}, &mockImportRunsRepository{}, jobs)
	_, err := service.ImportScrapeResults(context.Background(), job.ID, []int{5})

	var verr CSVValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected CSVValidationError, got %v", err)
	}
}

func TestImportService_ImportScrapeResults_JobNotCompleted(t *testing.T) {
	job := scrapeJobWithResults(t, entity.ScrapingStatusRunning, nil)
	jobs := &mockScrapingJobsRepository{
		getByID: func(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) { return job, nil },
	}

	service := NewImportService(&mockLeadsRepository{}, &mockImportRunsRepository{}, jobs)
	if _, err := service.ImportScrapeResults(context.Background(), job.ID, nil); err == nil {
		t.Fatal("expected an error for a job that has not completed")
	}
}

func TestImportService_ImportScrapeResults_JobNotFound(t *testing.T) {
	service := NewImportService(&mockLeadsRepository{}, &mockImportRunsRepository{}, &mockScrapingJobsRepository{})
	_, err := service.ImportScrapeResults(context.Background(), uuid.New(), nil)
	if !errors.Is(err, ErrScrapingJobNotFound) {
		t.Fatalf("expected ErrScrapingJobNotFound, got %v", err)
	}
}
