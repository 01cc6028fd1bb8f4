package repository

import (
	"context"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id string) (model.Category, error)
}

type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
}

// PublicationRepository lists only active publications (due date absent or
// strictly after now), newest first. FindByID ignores the due date.
type PublicationRepository interface {
	List(ctx context.Context, now time.Time, page model.PageOptions) ([]model.Publication, error)
	Count(ctx context.Context, now time.Time) (int64, error)
	ListByCategory(ctx context.Context, categoryID string, now time.Time, page model.PageOptions) ([]model.Publication, error)
	CountByCategory(ctx context.Context, categoryID string, now time.Time) (int64, error)
	// ListByTitle matches title as a case-insensitive substring.
	ListByTitle(ctx context.Context, title string, now time.Time, page model.PageOptions) ([]model.Publication, error)
	CountByTitle(ctx context.Context, title string, now time.Time) (int64, error)
	FindByID(ctx context.Context, id string) (model.Publication, error)
	Create(ctx context.Context, p model.Publication) (string, error)
	Update(ctx context.Context, p model.Publication) (bool, error)
}

type StateRepository interface {
	List(ctx context.Context) ([]model.State, error)
	// FindCity returns the state holding only the requested city.
	FindCity(ctx context.Context, stateID, cityID string) (model.State, error)
}

type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Create(ctx context.Context, u model.User) (string, error)
	// Update writes profile fields only; the password and role are untouched.
	Update(ctx context.Context, u model.User) (bool, error)
	UpdatePassword(ctx context.Context, id, hash string) (bool, error)
}

type RoleRepository interface {
	FindByID(ctx context.Context, id string) (model.Role, error)
	FindByName(ctx context.Context, name string) (model.Role, error)
}

type TokenRepository interface {
	FindByUser(ctx context.Context, userID string) (model.Token, error)
	Create(ctx context.Context, t model.Token) error
	DeleteByUser(ctx context.Context, userID string) (bool, error)
}

// ImageRepository changes one image of a product at a time. Both methods
// report true only when the product matched and the image list changed.
// Add also returns the id the backend assigned to the image.
type ImageRepository interface {
	Add(ctx context.Context, productID string, img model.Image) (string, bool, error)
	Remove(ctx context.Context, productID, filename string) (bool, error)
}

type SaleRepository interface {
	Create(ctx context.Context, s model.Sale) (string, error)
}

type ContactRepository interface {
	Create(ctx context.Context, c model.Contact) (string, error)
}

type ConfigurationRepository interface {
	Get(ctx context.Context) (model.Configuration, error)
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Categories    CategoryRepository
	Products      ProductRepository
	Publications  PublicationRepository
	States        StateRepository
	Users         UserRepository
	Roles         RoleRepository
	Tokens        TokenRepository
	Images        ImageRepository
	Sales         SaleRepository
	Contacts      ContactRepository
	Configuration ConfigurationRepository
}
