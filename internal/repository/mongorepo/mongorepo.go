// Package mongorepo implements the repository contracts on MongoDB.
// Publications, states and products store their children as embedded
// arrays, so reads need no reconstruction step and single-element changes
// use $push/$pull instead of rewriting the document.
package mongorepo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

const (
	colCategories     = "categories"
	colProducts       = "products"
	colPublications   = "publications"
	colStates         = "states"
	colUsers          = "users"
	colRoles          = "roles"
	colTokens         = "tokens"
	colSales          = "sales"
	colContacts       = "contacts"
	colConfigurations = "configurations"
)

// New builds every Mongo repository on one database handle.
func New(db *mongo.Database) repository.Repositories {
	return repository.Repositories{
		Categories:    &CategoryRepo{col: db.Collection(colCategories)},
		Products:      &ProductRepo{col: db.Collection(colProducts)},
		Publications:  &PublicationRepo{col: db.Collection(colPublications)},
		States:        &StateRepo{col: db.Collection(colStates)},
		Users:         &UserRepo{col: db.Collection(colUsers)},
		Roles:         &RoleRepo{col: db.Collection(colRoles)},
		Tokens:        &TokenRepo{col: db.Collection(colTokens)},
		Images:        &ImageRepo{col: db.Collection(colProducts)},
		Sales:         &SaleRepo{col: db.Collection(colSales)},
		Contacts:      &ContactRepo{col: db.Collection(colContacts)},
		Configuration: &ConfigurationRepo{col: db.Collection(colConfigurations)},
	}
}

// expiredTokenRetention is how long an expired reset token stays in Mongo
// before the TTL monitor drops it. It must outlast the reset window by far,
// otherwise a late reset reads as an unknown link instead of an expired one.
const expiredTokenRetention = 24 * time.Hour

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "usr_email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "usr_username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colTokens: {
			{
				Keys:    bson.D{{Key: "tok_expiration", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(int32(expiredTokenRetention / time.Second)),
			},
			{Keys: bson.D{{Key: "usr_id", Value: 1}}},
		},
		colProducts: {
			{Keys: bson.D{{Key: "prod_title", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colPublications: {
			{Keys: bson.D{{Key: "pub_create_date", Value: -1}}},
			{Keys: bson.D{{Key: "category._id", Value: 1}}},
		},
		colRoles: {
			{Keys: bson.D{{Key: "rol_name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}

// EnsureIndexes creates the unique and TTL indexes the repositories rely
// on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range indexModels() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func newID() string { return primitive.NewObjectID().Hex() }

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	}
	return err
}

// ----- filter builders -----

// activeFilter matches publications whose due date is null, missing or
// strictly after now.
func activeFilter(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"pub_due_date": nil},
		bson.M{"pub_due_date": bson.M{"$gt": now.UTC()}},
	}}
}

func publicationFilter(now time.Time, extra bson.M) bson.M {
	f := activeFilter(now)
	for k, v := range extra {
		f[k] = v
	}
	return f
}

func categoryFilter(categoryID string) bson.M {
	return bson.M{"category._id": categoryID}
}

// titleFilter matches title as a literal, case-insensitive substring.
func titleFilter(title string) bson.M {
	return bson.M{"pub_title": primitive.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"}}
}

func pageFindOptions(page model.PageOptions) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "pub_create_date", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
}
