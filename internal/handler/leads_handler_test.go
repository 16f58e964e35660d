package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/entity"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
	"github.com/LeFrancilien/LeadFlow/internal/service"
)

func newLeadsHandler(repo repository.LeadsRepository) *LeadsHandler {
	return NewLeadsHandler(service.NewLeadsService(repo, service.NewValidator()))
}

func TestLeadsHandler_List(t *testing.T) {
	e := echo.New()
	var received dto.LeadFilter
	repo := &stubLeadsRepo{
		list: func(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, int, error) {
			received = filter
			return []entity.Lead{{ID: uuid.New(), CompanyName: "Acme"}}, 1, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/leads?search=acme&status=new&page=2&per_page=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := newLeadsHandler(repo).List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if received.Search != "acme" || received.Status != "new" || received.Page != 2 || received.PerPage != 10 {
		t.Fatalf("filter = %+v", received)
	}

	var payload struct {
		Data struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.Total != 1 {
		t.Fatalf("total = %d, want 1", payload.Data.Total)
	}
}

func TestLeadsHandler_Get_InvalidID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/leads/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := newLeadsHandler(&stubLeadsRepo{}).Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLeadsHandler_Get_NotFound(t *testing.T) {
	e := echo.New()
	repo := &stubLeadsRepo{
		getByID: func(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
			return nil, repository.ErrLeadNotFound
		},
	}

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/leads/"+id.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := newLeadsHandler(repo).Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLeadsHandler_Create(t *testing.T) {
	e := echo.New()
	repo := &stubLeadsRepo{
		insert: func(ctx context.Context, lead *entity.Lead) error {
			lead.ID = uuid.New()
			return nil
		},
	}

	body, _ := json.Marshal(map[string]string{
		"email":      "marie@exemple.fr",
		"first_name": "Marie",
		"last_name":  "Durand",
	})
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := newLeadsHandler(repo).Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLeadsHandler_Create_ValidationErrors(t *testing.T) {
	e := echo.New()
	body, _ := json.Marshal(map[string]string{"email": "not-an-email"})
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := newLeadsHandler(&stubLeadsRepo{}).Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var payload struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := payload.Errors["email"]; !ok {
		t.Fatalf("expected email field error, got %v", payload.Errors)
	}
}

func TestLeadsHandler_Update_NotFound(t *testing.T) {
	e := echo.New()
	repo := &stubLeadsRepo{
		update: func(ctx context.Context, id uuid.UUID, patch repository.LeadPatch) error {
			return repository.ErrLeadNotFound
		},
	}

	id := uuid.New()
	body, _ := json.Marshal(map[string]string{"status": "contacted"})
	req := httptest.NewRequest(http.MethodPatch, "/leads/"+id.String(), bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := newLeadsHandler(repo).Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLeadsHandler_BulkDelete(t *testing.T) {
	e := echo.New()
	repo := &stubLeadsRepo{
		deleteMany: func(ctx context.Context, ids []uuid.UUID) error { return nil },
	}

	body, _ := json.Marshal(map[string][]string{"ids": {uuid.NewString(), uuid.NewString()}})
	req := httptest.NewRequest(http.MethodPost, "/leads/bulk-delete", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := newLeadsHandler(repo).BulkDelete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data["deleted"] != 2 {
		t.Fatalf("deleted = %d, want 2", payload.Data["deleted"])
	}
}
