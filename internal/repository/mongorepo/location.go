package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

type StateRepo struct{ col *mongo.Collection }

func (r *StateRepo) List(ctx context.Context) ([]model.State, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "state_description", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := make([]model.State, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindCity projects the matching city with the positional operator so the
// returned state carries exactly one city.
func (r *StateRepo) FindCity(ctx context.Context, stateID, cityID string) (model.State, error) {
	var s model.State
	err := r.col.FindOne(ctx,
		bson.M{"_id": stateID, "cities._id": cityID},
		options.FindOne().SetProjection(bson.M{"state_description": 1, "cities.$": 1}),
	).Decode(&s)
	return s, mapErr(err)
}
