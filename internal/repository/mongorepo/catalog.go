package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

type CategoryRepo struct{ col *mongo.Collection }

func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "cat_description", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := make([]model.Category, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (model.Category, error) {
	var c model.Category
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	return c, mapErr(err)
}

type ProductRepo struct{ col *mongo.Collection }

func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "prod_title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalizeProduct(&out[i])
	}
	return out, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return model.Product{}, mapErr(err)
	}
	normalizeProduct(&p)
	return p, nil
}

// normalizeProduct gives documents stored without an images array the
// same empty list the relational backend returns.
func normalizeProduct(p *model.Product) {
	if p.Images == nil {
		p.Images = make([]model.Image, 0)
	}
}

// ImageRepo edits the images array embedded in product documents.
type ImageRepo struct{ col *mongo.Collection }

// Add appends one image and returns its generated id. It reports true
// only when the product matched and the document was modified.
func (r *ImageRepo) Add(ctx context.Context, productID string, img model.Image) (string, bool, error) {
	if img.ID == "" {
		img.ID = newID()
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$push": bson.M{"images": img}})
	if err != nil {
		return "", false, mapErr(err)
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return "", false, nil
	}
	return img.ID, true, nil
}

// Remove pulls every image with the given filename.
func (r *ImageRepo) Remove(ctx context.Context, productID, filename string) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$pull": bson.M{"images": bson.M{"img_filename": filename}}})
	if err != nil {
		return false, mapErr(err)
	}
	return res.MatchedCount > 0 && res.ModifiedCount > 0, nil
}
