package service

import (
	"context"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (model.Product, error)
}

type productService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	out, err := s.products.List(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "products", nil)
	}
	return out, nil
}

func (s *productService) Get(ctx context.Context, id string) (model.Product, error) {
	if err := required("id", id); err != nil {
		return model.Product{}, err
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, mapRepoErr(err, "product", map[string]any{"id": id})
	}
	return p, nil
}

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id string) (model.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	out, err := s.categories.List(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "categories", nil)
	}
	return out, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (model.Category, error) {
	if err := required("id", id); err != nil {
		return model.Category{}, err
	}
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, mapRepoErr(err, "category", map[string]any{"id": id})
	}
	return c, nil
}

type StateService interface {
	List(ctx context.Context) ([]model.State, error)
}

type stateService struct {
	states repository.StateRepository
}

func NewStateService(states repository.StateRepository) StateService {
	return &stateService{states: states}
}

func (s *stateService) List(ctx context.Context) ([]model.State, error) {
	out, err := s.states.List(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "states", nil)
	}
	return out, nil
}

// RoleService exposes the role new accounts receive.
type RoleService interface {
	Standard(ctx context.Context) (model.Role, error)
	Get(ctx context.Context, id string) (model.Role, error)
}

type roleService struct {
	roles       repository.RoleRepository
	defaultRole string
}

func NewRoleService(roles repository.RoleRepository, defaultRole string) RoleService {
	if defaultRole == "" {
		defaultRole = model.RoleStandard
	}
	return &roleService{roles: roles, defaultRole: defaultRole}
}

func (s *roleService) Standard(ctx context.Context) (model.Role, error) {
	r, err := s.roles.FindByName(ctx, s.defaultRole)
	if err != nil {
		return model.Role{}, mapRepoErr(err, "role", map[string]any{"name": s.defaultRole})
	}
	return r, nil
}

func (s *roleService) Get(ctx context.Context, id string) (model.Role, error) {
	if err := required("id", id); err != nil {
		return model.Role{}, err
	}
	r, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return model.Role{}, mapRepoErr(err, "role", map[string]any{"id": id})
	}
	return r, nil
}

type ConfigurationService interface {
	Get(ctx context.Context) (model.Configuration, error)
}

type configurationService struct {
	conf repository.ConfigurationRepository
}

func NewConfigurationService(conf repository.ConfigurationRepository) ConfigurationService {
	return &configurationService{conf: conf}
}

func (s *configurationService) Get(ctx context.Context) (model.Configuration, error) {
	c, err := s.conf.Get(ctx)
	if err != nil {
		return model.Configuration{}, mapRepoErr(err, "configuration", nil)
	}
	return c, nil
}

type ContactService interface {
	// Create stores a contact message. A zero Date is set to now.
	Create(ctx context.Context, c model.Contact) (string, error)
}

type contactService struct {
	contacts repository.ContactRepository
	now      func() time.Time
}

func NewContactService(contacts repository.ContactRepository) ContactService {
	return &contactService{contacts: contacts, now: time.Now}
}

func (s *contactService) Create(ctx context.Context, c model.Contact) (string, error) {
	if err := required("cont_name", c.Name, "cont_email", c.Email, "cont_comments", c.Comments); err != nil {
		return "", err
	}
	c.Email = normalizeEmail(c.Email)
	if !validEmail(c.Email) {
		return "", apperror.Standard("invalid email", map[string]any{"email": c.Email})
	}
	if c.Date.IsZero() {
		c.Date = s.now().UTC()
	}
	id, err := s.contacts.Create(ctx, c)
	if err != nil {
		return "", mapRepoErr(err, "contact", nil)
	}
	return id, nil
}
