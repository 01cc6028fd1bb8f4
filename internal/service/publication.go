package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// PublicationInput is what a client sends to create or update a
// publication. Products and the category are referenced by id and copied
// into the publication when it is written.
type PublicationInput struct {
	Title        string     `json:"pub_title" validate:"required"`
	Description  string     `json:"pub_description"`
	CategoryID   string     `json:"cat_id" validate:"required"`
	Price        float64    `json:"pub_price" validate:"gte=0"`
	ShippingCost float64    `json:"pub_shipping_cost" validate:"gte=0"`
	DueDate      *time.Time `json:"pub_due_date"`
	ProductIDs   []string   `json:"products" validate:"required,min=1,dive,required"`
}

type PublicationService interface {
	List(ctx context.Context, page model.PageOptions) ([]model.Publication, error)
	Total(ctx context.Context) (int64, error)
	ListByCategory(ctx context.Context, categoryID string, page model.PageOptions) ([]model.Publication, error)
	TotalByCategory(ctx context.Context, categoryID string) (int64, error)
	ListByTitle(ctx context.Context, title string, page model.PageOptions) ([]model.Publication, error)
	TotalByTitle(ctx context.Context, title string) (int64, error)
	// Get returns one publication. A zero page or limit defaults to 1, and
	// any page past the first is empty.
	Get(ctx context.Context, id string, page model.PageOptions) (model.Publication, error)
	Create(ctx context.Context, in PublicationInput) (model.Publication, error)
	Update(ctx context.Context, id string, in PublicationInput) (model.Publication, error)
}

type publicationService struct {
	publications repository.PublicationRepository
	products     repository.ProductRepository
	categories   repository.CategoryRepository
	now          func() time.Time
}

func NewPublicationService(publications repository.PublicationRepository, products repository.ProductRepository, categories repository.CategoryRepository) PublicationService {
	return &publicationService{publications: publications, products: products, categories: categories, now: time.Now}
}

func (s *publicationService) List(ctx context.Context, page model.PageOptions) ([]model.Publication, error) {
	out, err := s.publications.List(ctx, s.now().UTC(), page.Normalize(model.DefaultPageLimit))
	if err != nil {
		return nil, mapRepoErr(err, "publications", nil)
	}
	return out, nil
}

func (s *publicationService) Total(ctx context.Context) (int64, error) {
	n, err := s.publications.Count(ctx, s.now().UTC())
	if err != nil {
		return 0, mapRepoErr(err, "publications", nil)
	}
	return n, nil
}

func (s *publicationService) ListByCategory(ctx context.Context, categoryID string, page model.PageOptions) ([]model.Publication, error) {
	if err := required("id", categoryID); err != nil {
		return nil, err
	}
	out, err := s.publications.ListByCategory(ctx, categoryID, s.now().UTC(), page.Normalize(model.DefaultPageLimit))
	if err != nil {
		return nil, mapRepoErr(err, "publications", map[string]any{"cat_id": categoryID})
	}
	return out, nil
}

func (s *publicationService) TotalByCategory(ctx context.Context, categoryID string) (int64, error) {
	if err := required("id", categoryID); err != nil {
		return 0, err
	}
	n, err := s.publications.CountByCategory(ctx, categoryID, s.now().UTC())
	if err != nil {
		return 0, mapRepoErr(err, "publications", map[string]any{"cat_id": categoryID})
	}
	return n, nil
}

func (s *publicationService) ListByTitle(ctx context.Context, title string, page model.PageOptions) ([]model.Publication, error) {
	title = strings.TrimSpace(title)
	if err := required("title", title); err != nil {
		return nil, err
	}
	out, err := s.publications.ListByTitle(ctx, title, s.now().UTC(), page.Normalize(model.DefaultPageLimit))
	if err != nil {
		return nil, mapRepoErr(err, "publications", map[string]any{"title": title})
	}
	return out, nil
}

func (s *publicationService) TotalByTitle(ctx context.Context, title string) (int64, error) {
	title = strings.TrimSpace(title)
	if err := required("title", title); err != nil {
		return 0, err
	}
	n, err := s.publications.CountByTitle(ctx, title, s.now().UTC())
	if err != nil {
		return 0, mapRepoErr(err, "publications", map[string]any{"title": title})
	}
	return n, nil
}

func (s *publicationService) Get(ctx context.Context, id string, page model.PageOptions) (model.Publication, error) {
	if err := required("id", id); err != nil {
		return model.Publication{}, err
	}
	page = page.Normalize(1)
	if page.Offset() > 0 {
		return model.Publication{}, apperror.NotFound("publication not found", map[string]any{"id": id, "page": page.Page})
	}
	p, err := s.publications.FindByID(ctx, id)
	if err != nil {
		return model.Publication{}, mapRepoErr(err, "publication", map[string]any{"id": id})
	}
	return p, nil
}

func (s *publicationService) Create(ctx context.Context, in PublicationInput) (model.Publication, error) {
	now := s.now().UTC()
	p, err := s.build(ctx, in, now)
	if err != nil {
		return model.Publication{}, err
	}
	p.CreateDate = now

	id, err := s.publications.Create(ctx, p)
	if err != nil {
		return model.Publication{}, mapRepoErr(err, "publication", map[string]any{"title": p.Title})
	}
	p.ID = id
	return p, nil
}

func (s *publicationService) Update(ctx context.Context, id string, in PublicationInput) (model.Publication, error) {
	if err := required("id", id); err != nil {
		return model.Publication{}, err
	}
	current, err := s.publications.FindByID(ctx, id)
	if err != nil {
		return model.Publication{}, mapRepoErr(err, "publication", map[string]any{"id": id})
	}

	p, err := s.build(ctx, in, s.now().UTC())
	if err != nil {
		return model.Publication{}, err
	}
	p.ID = id
	p.CreateDate = current.CreateDate

	ok, err := s.publications.Update(ctx, p)
	if err != nil {
		return model.Publication{}, mapRepoErr(err, "publication", map[string]any{"id": id})
	}
	if !ok {
		return model.Publication{}, apperror.NotFound("publication not found", map[string]any{"id": id})
	}
	return p, nil
}

// build validates in and resolves the category and product snapshots.
func (s *publicationService) build(ctx context.Context, in PublicationInput, now time.Time) (model.Publication, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return model.Publication{}, apperror.Standard("invalid publication", map[string]any{"reason": err.Error()})
	}
	if in.DueDate != nil && !in.DueDate.After(now) {
		return model.Publication{}, apperror.Standard("pub_due_date must be in the future", map[string]any{"pub_due_date": in.DueDate})
	}

	cat, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return model.Publication{}, referenceErr(err, "category", in.CategoryID)
	}

	products := make([]model.Product, 0, len(in.ProductIDs))
	seen := make(map[string]bool, len(in.ProductIDs))
	for _, pid := range in.ProductIDs {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		pr, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return model.Publication{}, referenceErr(err, "product", pid)
		}
		products = append(products, pr)
	}

	var due *time.Time
	if in.DueDate != nil {
		d := in.DueDate.UTC()
		due = &d
	}
	return model.Publication{
		Title:        in.Title,
		Description:  in.Description,
		Category:     cat,
		Price:        in.Price,
		ShippingCost: in.ShippingCost,
		DueDate:      due,
		Products:     products,
	}, nil
}

// referenceErr reports a missing referenced entity as bad input rather
// than a missing resource.
func referenceErr(err error, what, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.Standard(what+" not found", map[string]any{"id": id})
	}
	return mapRepoErr(err, what, map[string]any{"id": id})
}
