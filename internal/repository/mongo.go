package repository

import (
	"context"
	"time"

	"github.com/broarr/soma-security-prototype/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAccountRepo struct {
	col *mongo.Collection
}

// NewMongoAccountRepo returns an AccountRepository backed by a Mongo
// collection, for deployments that want accounts to survive a restart. It
// seeds any missing participant rows on construction so the pre-provisioning
// contract holds in both storage modes.
func NewMongoAccountRepo(ctx context.Context, db *mongo.Database, collection string, usernames []string) (AccountRepository, error) {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone_hash", Value: 1}}, Options: options.Index().SetSparse(true)},
	})

	now := time.Now().UTC()
	for _, u := range usernames {
		_, err := col.UpdateOne(ctx,
			bson.M{"username": u},
			bson.M{"$setOnInsert": models.Account{Username: u, CreatedAt: now, UpdatedAt: now}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, err
		}
	}
	return &mongoAccountRepo{col: col}, nil
}

func (r *mongoAccountRepo) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var a models.Account
	err := r.col.FindOne(ctx, filter).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *mongoAccountRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoAccountRepo) FindByPhoneHash(ctx context.Context, phoneHash string) (*models.Account, error) {
	if phoneHash == "" {
		return nil, ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"phone_hash": phoneHash})
}

func (r *mongoAccountRepo) FindByResetToken(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"reset_token": token})
}

func (r *mongoAccountRepo) Save(ctx context.Context, a *models.Account) error {
	a.UpdatedAt = time.Now().UTC()
	// Unset fields must be cleared in the document too, so replace the whole
	// row rather than $set the non-zero fields.
	_, err := r.col.ReplaceOne(ctx, bson.M{"username": a.Username}, a)
	return err
}
