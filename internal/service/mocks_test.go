package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/mailer"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

var errNotImplemented = errors.New("not implemented")

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	listFunc           func(ctx context.Context) ([]model.User, error)
	findByIDFunc       func(ctx context.Context, id string) (model.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (model.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (model.User, error)
	createFunc         func(ctx context.Context, u model.User) (string, error)
	updateFunc         func(ctx context.Context, u model.User) (bool, error)
	updatePasswordFunc func(ctx context.Context, id, hash string) (bool, error)
}

func (m *mockUserRepository) List(ctx context.Context) ([]model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.User{}, errNotImplemented
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return model.User{}, errNotImplemented
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return model.User{}, errNotImplemented
}

func (m *mockUserRepository) Create(ctx context.Context, u model.User) (string, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	return "", errNotImplemented
}

func (m *mockUserRepository) Update(ctx context.Context, u model.User) (bool, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, u)
	}
	return false, errNotImplemented
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, hash string) (bool, error) {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, hash)
	}
	return false, errNotImplemented
}

// =============================================================================
// Mock RoleRepository / TokenRepository / StateRepository
// =============================================================================

type mockRoleRepository struct {
	findByIDFunc   func(ctx context.Context, id string) (model.Role, error)
	findByNameFunc func(ctx context.Context, name string) (model.Role, error)
}

func (m *mockRoleRepository) FindByID(ctx context.Context, id string) (model.Role, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Role{}, errNotImplemented
}

func (m *mockRoleRepository) FindByName(ctx context.Context, name string) (model.Role, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return model.Role{}, errNotImplemented
}

type mockTokenRepository struct {
	findByUserFunc   func(ctx context.Context, userID string) (model.Token, error)
	createFunc       func(ctx context.Context, t model.Token) error
	deleteByUserFunc func(ctx context.Context, userID string) (bool, error)
}

func (m *mockTokenRepository) FindByUser(ctx context.Context, userID string) (model.Token, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return model.Token{}, errNotImplemented
}

func (m *mockTokenRepository) Create(ctx context.Context, t model.Token) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, t)
	}
	return errNotImplemented
}

func (m *mockTokenRepository) DeleteByUser(ctx context.Context, userID string) (bool, error) {
	if m.deleteByUserFunc != nil {
		return m.deleteByUserFunc(ctx, userID)
	}
	return false, errNotImplemented
}

type mockStateRepository struct {
	listFunc     func(ctx context.Context) ([]model.State, error)
	findCityFunc func(ctx context.Context, stateID, cityID string) (model.State, error)
}

func (m *mockStateRepository) List(ctx context.Context) ([]model.State, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockStateRepository) FindCity(ctx context.Context, stateID, cityID string) (model.State, error) {
	if m.findCityFunc != nil {
		return m.findCityFunc(ctx, stateID, cityID)
	}
	return model.State{}, errNotImplemented
}

// =============================================================================
// Mock catalog repositories
// =============================================================================

type mockProductRepository struct {
	listFunc     func(ctx context.Context) ([]model.Product, error)
	findByIDFunc func(ctx context.Context, id string) (model.Product, error)
}

func (m *mockProductRepository) List(ctx context.Context) ([]model.Product, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Product{}, errNotImplemented
}

type mockCategoryRepository struct {
	listFunc     func(ctx context.Context) ([]model.Category, error)
	findByIDFunc func(ctx context.Context, id string) (model.Category, error)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id string) (model.Category, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Category{}, errNotImplemented
}

type mockImageRepository struct {
	addFunc    func(ctx context.Context, productID string, img model.Image) (string, bool, error)
	removeFunc func(ctx context.Context, productID, filename string) (bool, error)
}

func (m *mockImageRepository) Add(ctx context.Context, productID string, img model.Image) (string, bool, error) {
	if m.addFunc != nil {
		return m.addFunc(ctx, productID, img)
	}
	return "", false, errNotImplemented
}

func (m *mockImageRepository) Remove(ctx context.Context, productID, filename string) (bool, error) {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, productID, filename)
	}
	return false, errNotImplemented
}

type mockSaleRepository struct {
	createFunc func(ctx context.Context, s model.Sale) (string, error)
}

func (m *mockSaleRepository) Create(ctx context.Context, s model.Sale) (string, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return "", errNotImplemented
}

type mockContactRepository struct {
	createFunc func(ctx context.Context, c model.Contact) (string, error)
}

func (m *mockContactRepository) Create(ctx context.Context, c model.Contact) (string, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return "", errNotImplemented
}

// =============================================================================
// Mock collaborators
// =============================================================================

type mockSender struct {
	sent     []mailer.Message
	sendFunc func(ctx context.Context, m mailer.Message) error
}

func (m *mockSender) Send(ctx context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

type mockSaleEvents struct {
	events []queue.SaleCreatedEvent
	err    error
}

func (m *mockSaleEvents) PublishSaleCreated(_ context.Context, ev queue.SaleCreatedEvent) error {
	m.events = append(m.events, ev)
	return m.err
}

// =============================================================================
// In-memory PublicationRepository
// =============================================================================

// memPublications behaves like the real backends: active filter, newest
// first, offset/limit paging.
type memPublications struct {
	items   []model.Publication
	created []model.Publication
	updated []model.Publication
}

func (m *memPublications) filter(now time.Time, keep func(model.Publication) bool) []model.Publication {
	out := make([]model.Publication, 0)
	for _, p := range m.items {
		if p.Active(now) && keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreateDate.Equal(out[j].CreateDate) {
			return out[i].CreateDate.After(out[j].CreateDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func pageOf(all []model.Publication, page model.PageOptions) []model.Publication {
	off := page.Offset()
	if off >= len(all) {
		return []model.Publication{}
	}
	end := off + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[off:end]
}

func anyPublication(model.Publication) bool { return true }

func byCategory(id string) func(model.Publication) bool {
	return func(p model.Publication) bool { return p.Category.ID == id }
}

func byTitle(t string) func(model.Publication) bool {
	return func(p model.Publication) bool {
		return strings.Contains(strings.ToLower(p.Title), strings.ToLower(t))
	}
}

func (m *memPublications) List(_ context.Context, now time.Time, page model.PageOptions) ([]model.Publication, error) {
	return pageOf(m.filter(now, anyPublication), page), nil
}

func (m *memPublications) Count(_ context.Context, now time.Time) (int64, error) {
	return int64(len(m.filter(now, anyPublication))), nil
}

func (m *memPublications) ListByCategory(_ context.Context, id string, now time.Time, page model.PageOptions) ([]model.Publication, error) {
	return pageOf(m.filter(now, byCategory(id)), page), nil
}

func (m *memPublications) CountByCategory(_ context.Context, id string, now time.Time) (int64, error) {
	return int64(len(m.filter(now, byCategory(id)))), nil
}

func (m *memPublications) ListByTitle(_ context.Context, t string, now time.Time, page model.PageOptions) ([]model.Publication, error) {
	return pageOf(m.filter(now, byTitle(t)), page), nil
}

func (m *memPublications) CountByTitle(_ context.Context, t string, now time.Time) (int64, error) {
	return int64(len(m.filter(now, byTitle(t)))), nil
}

func (m *memPublications) FindByID(_ context.Context, id string) (model.Publication, error) {
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Publication{}, repository.ErrNotFound
}

func (m *memPublications) Create(_ context.Context, p model.Publication) (string, error) {
	p.ID = "new"
	m.created = append(m.created, p)
	m.items = append(m.items, p)
	return p.ID, nil
}

func (m *memPublications) Update(_ context.Context, p model.Publication) (bool, error) {
	for i := range m.items {
		if m.items[i].ID == p.ID {
			m.items[i] = p
			m.updated = append(m.updated, p)
			return true, nil
		}
	}
	return false, repository.ErrNotFound
}
