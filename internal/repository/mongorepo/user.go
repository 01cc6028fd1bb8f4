package mongorepo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

type UserRepo struct{ col *mongo.Collection }

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "usr_username", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var u model.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	return u, mapErr(err)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, bson.M{"usr_email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, bson.M{"usr_username": strings.TrimSpace(username)})
}

func (r *UserRepo) Create(ctx context.Context, u model.User) (string, error) {
	u.ID = newID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Username = strings.TrimSpace(u.Username)
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		return "", mapErr(err)
	}
	return u.ID, nil
}

func (r *UserRepo) update(ctx context.Context, id string, set bson.M) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, mapErr(err)
	}
	if res.MatchedCount == 0 {
		return false, repository.ErrNotFound
	}
	return true, nil
}

func (r *UserRepo) Update(ctx context.Context, u model.User) (bool, error) {
	return r.update(ctx, u.ID, bson.M{
		"usr_name":           u.Name,
		"usr_email":          strings.ToLower(strings.TrimSpace(u.Email)),
		"usr_street_address": u.StreetAddress,
		"state_id":           u.StateID,
		"city_id":            u.CityID,
		"usr_zip":            u.Zip,
		"usr_phone_number":   u.Phone,
	})
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) (bool, error) {
	return r.update(ctx, id, bson.M{"usr_password": hash})
}

type RoleRepo struct{ col *mongo.Collection }

func (r *RoleRepo) FindByID(ctx context.Context, id string) (model.Role, error) {
	var ro model.Role
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ro)
	return ro, mapErr(err)
}

func (r *RoleRepo) FindByName(ctx context.Context, name string) (model.Role, error) {
	var ro model.Role
	err := r.col.FindOne(ctx, bson.M{"rol_name": name}).Decode(&ro)
	return ro, mapErr(err)
}

// TokenRepo stores reset tokens. Expired tokens stay readable for
// expiredTokenRetention so a late reset is still reported as expired; the
// TTL index on tok_expiration drops them after that.
type TokenRepo struct{ col *mongo.Collection }

func (r *TokenRepo) FindByUser(ctx context.Context, userID string) (model.Token, error) {
	var t model.Token
	err := r.col.FindOne(ctx, bson.M{"usr_id": userID},
		options.FindOne().SetSort(bson.D{{Key: "tok_expiration", Value: -1}})).Decode(&t)
	return t, mapErr(err)
}

func (r *TokenRepo) Create(ctx context.Context, t model.Token) error {
	_, err := r.col.InsertOne(ctx, t)
	return mapErr(err)
}

func (r *TokenRepo) DeleteByUser(ctx context.Context, userID string) (bool, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"usr_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
