package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

type SaleRepo struct{ col *mongo.Collection }

func (r *SaleRepo) Create(ctx context.Context, s model.Sale) (string, error) {
	s.ID = newID()
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return "", mapErr(err)
	}
	return s.ID, nil
}

type ContactRepo struct{ col *mongo.Collection }

type contactDoc struct {
	ID            string `bson:"_id"`
	model.Contact `bson:",inline"`
}

func (r *ContactRepo) Create(ctx context.Context, c model.Contact) (string, error) {
	doc := contactDoc{ID: newID(), Contact: c}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", mapErr(err)
	}
	return doc.ID, nil
}

type ConfigurationRepo struct{ col *mongo.Collection }

func (r *ConfigurationRepo) Get(ctx context.Context) (model.Configuration, error) {
	var c model.Configuration
	err := r.col.FindOne(ctx, bson.M{}).Decode(&c)
	return c, mapErr(err)
}
