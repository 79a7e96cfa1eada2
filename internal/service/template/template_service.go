package template

import (
	"context"
	"fmt"

	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/template"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, t *template.Template) error
	FindByID(ctx context.Context, id int64) (*template.Template, error)
	List(ctx context.Context) ([]template.Template, error)
	Delete(ctx context.Context, id int64) error
}

type CustomerFinder interface {
	FindByID(ctx context.Context, id int64) (*customer.Customer, error)
}

type TemplateService struct {
	repo      Repository
	customers CustomerFinder
	logger    *zap.Logger
}

func NewTemplateService(repo Repository, customers CustomerFinder, logger *zap.Logger) *TemplateService {
	return &TemplateService{repo: repo, customers: customers, logger: logger}
}

func (s *TemplateService) CreateTemplate(ctx context.Context, req *template.CreateTemplateRequest) (*template.Template, error) {
	t, err := template.New(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	s.logger.Info("template created", zap.Int64("template_id", t.ID), zap.String("name", t.Name))
	return t, nil
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]template.Template, error) {
	return s.repo.List(ctx)
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Render fills a template with a customer's name and handle.
func (s *TemplateService) Render(ctx context.Context, templateID, customerID int64) (*template.Rendered, error) {
	t, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &template.Rendered{
		TemplateID: t.ID,
		CustomerID: c.ID,
		Text:       t.Render(c.Name, c.InstagramHandle),
	}, nil
}
