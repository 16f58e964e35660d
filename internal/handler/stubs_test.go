package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/entity"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
)

type stubLeadsRepo struct {
	insert        func(ctx context.Context, lead *entity.Lead) error
	getByID       func(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	list          func(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, int, error)
	update        func(ctx context.Context, id uuid.UUID, patch repository.LeadPatch) error
	delete        func(ctx context.Context, id uuid.UUID) error
	deleteMany    func(ctx context.Context, ids []uuid.UUID) error
	findByEmail   func(ctx context.Context, email string) (uuid.UUID, error)
	findByPhone   func(ctx context.Context, phone string) (uuid.UUID, error)
	findByCompany func(ctx context.Context, name string) (uuid.UUID, error)
}

func (s *stubLeadsRepo) Insert(ctx context.Context, lead *entity.Lead) error {
	if s.insert != nil {
		return s.insert(ctx, lead)
	}
	return errors.New("not implemented")
}

func (s *stubLeadsRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (s *stubLeadsRepo) List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, int, error) {
	if s.list != nil {
		return s.list(ctx, filter)
	}
	return nil, 0, errors.New("not implemented")
}

func (s *stubLeadsRepo) Update(ctx context.Context, id uuid.UUID, patch repository.LeadPatch) error {
	if s.update != nil {
		return s.update(ctx, id, patch)
	}
	return errors.New("not implemented")
}

func (s *stubLeadsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.delete != nil {
		return s.delete(ctx, id)
	}
	return errors.New("not implemented")
}

func (s *stubLeadsRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if s.deleteMany != nil {
		return s.deleteMany(ctx, ids)
	}
	return errors.New("not implemented")
}

func (s *stubLeadsRepo) FindIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return uuid.Nil, repository.ErrLeadNotFound
}

func (s *stubLeadsRepo) FindIDByPhone(ctx context.Context, phone string) (uuid.UUID, error) {
	if s.findByPhone != nil {
		return s.findByPhone(ctx, phone)
	}
	return uuid.Nil, repository.ErrLeadNotFound
}

func (s *stubLeadsRepo) FindIDByCompanyName(ctx context.Context, name string) (uuid.UUID, error) {
	if s.findByCompany != nil {
		return s.findByCompany(ctx, name)
	}
	return uuid.Nil, repository.ErrLeadNotFound
}

type stubImportRunsRepo struct {
	insert func(ctx context.Context, run *entity.ImportRun) error
	finish func(ctx context.Context, id uuid.UUID, status string, imported, duplicates int, rowErrors json.RawMessage) error
	list   func(ctx context.Context) ([]entity.ImportRun, error)
}

func (s *stubImportRunsRepo) Insert(ctx context.Context, run *entity.ImportRun) error {
	if s.insert != nil {
		return s.insert(ctx, run)
	}
	run.ID = uuid.New()
	return nil
}

func (s *stubImportRunsRepo) Finish(ctx context.Context, id uuid.UUID, status string, imported, duplicates int, rowErrors json.RawMessage) error {
	if s.finish != nil {
		return s.finish(ctx, id, status, imported, duplicates, rowErrors)
	}
	return nil
}

func (s *stubImportRunsRepo) List(ctx context.Context) ([]entity.ImportRun, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, errors.New("not implemented")
}

type stubScrapingJobsRepo struct {
	insert  func(ctx context.Context, job *entity.ScrapingJob) error
	getByID func(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error)
	list    func(ctx context.Context) ([]entity.ScrapingJob, error)
	update  func(ctx context.Context, id uuid.UUID, patch repository.ScrapingJobPatch) error
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (s *stubScrapingJobsRepo) Insert(ctx context.Context, job *entity.ScrapingJob) error {
	if s.insert != nil {
		return s.insert(ctx, job)
	}
	job.ID = uuid.New()
	return nil
}

func (s *stubScrapingJobsRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ScrapingJob, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return nil, repository.ErrScrapingJobNotFound
}

func (s *stubScrapingJobsRepo) List(ctx context.Context) ([]entity.ScrapingJob, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, errors.New("not implemented")
}

func (s *stubScrapingJobsRepo) Update(ctx context.Context, id uuid.UUID, patch repository.ScrapingJobPatch) error {
	if s.update != nil {
		return s.update(ctx, id, patch)
	}
	return nil
}

func (s *stubScrapingJobsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.delete != nil {
		return s.delete(ctx, id)
	}
	return errors.New("not implemented")
}

type stubUsersRepo struct {
	findByEmail func(ctx context.Context, email string) (*entity.User, error)
	create      func(ctx context.Context, email, passwordHash, role string) (*entity.User, error)
	list        func(ctx context.Context) ([]entity.User, error)
	update      func(ctx context.Context, id uuid.UUID, email, passwordHash, role *string) (*entity.User, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) Create(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
	if s.create != nil {
		return s.create(ctx, email, passwordHash, role)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) List(ctx context.Context) ([]entity.User, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) Update(ctx context.Context, id uuid.UUID, email, passwordHash, role *string) (*entity.User, error) {
	if s.update != nil {
		return s.update(ctx, id, email, passwordHash, role)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.delete != nil {
		return s.delete(ctx, id)
	}
	return errors.New("not implemented")
}
