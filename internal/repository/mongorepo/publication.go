package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

type PublicationRepo struct{ col *mongo.Collection }

func (r *PublicationRepo) find(ctx context.Context, filter bson.M, page model.PageOptions) ([]model.Publication, error) {
	cur, err := r.col.Find(ctx, filter, pageFindOptions(page))
	if err != nil {
		return nil, err
	}
	out := make([]model.Publication, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalizePublication(&out[i])
	}
	return out, nil
}

func (r *PublicationRepo) List(ctx context.Context, now time.Time, page model.PageOptions) ([]model.Publication, error) {
	return r.find(ctx, activeFilter(now), page)
}

func (r *PublicationRepo) Count(ctx context.Context, now time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, activeFilter(now))
}

func (r *PublicationRepo) ListByCategory(ctx context.Context, categoryID string, now time.Time, page model.PageOptions) ([]model.Publication, error) {
	return r.find(ctx, publicationFilter(now, categoryFilter(categoryID)), page)
}

func (r *PublicationRepo) CountByCategory(ctx context.Context, categoryID string, now time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, publicationFilter(now, categoryFilter(categoryID)))
}

func (r *PublicationRepo) ListByTitle(ctx context.Context, title string, now time.Time, page model.PageOptions) ([]model.Publication, error) {
	return r.find(ctx, publicationFilter(now, titleFilter(title)), page)
}

func (r *PublicationRepo) CountByTitle(ctx context.Context, title string, now time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, publicationFilter(now, titleFilter(title)))
}

func (r *PublicationRepo) FindByID(ctx context.Context, id string) (model.Publication, error) {
	var p model.Publication
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return model.Publication{}, mapErr(err)
	}
	normalizePublication(&p)
	return p, nil
}

func (r *PublicationRepo) Create(ctx context.Context, p model.Publication) (string, error) {
	p.ID = newID()
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return "", mapErr(err)
	}
	return p.ID, nil
}

// Update replaces every field but the creation date in a single write.
func (r *PublicationRepo) Update(ctx context.Context, p model.Publication) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"pub_title":         p.Title,
		"pub_description":   p.Description,
		"category":          p.Category,
		"pub_price":         p.Price,
		"pub_shipping_cost": p.ShippingCost,
		"pub_due_date":      p.DueDate,
		"products":          p.Products,
	}})
	if err != nil {
		return false, mapErr(err)
	}
	if res.MatchedCount == 0 {
		return false, repository.ErrNotFound
	}
	return true, nil
}

func normalizePublication(p *model.Publication) {
	if p.Products == nil {
		p.Products = make([]model.Product, 0)
	}
	for i := range p.Products {
		normalizeProduct(&p.Products[i])
	}
}
