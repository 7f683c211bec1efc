package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dishcraft/backend/internal/model"
	"github.com/dishcraft/backend/internal/service"
)

const usersCollection = "users"

// MongoUserStore implements service.UserStore on a MongoDB collection.
type MongoUserStore struct {
	col *mongo.Collection
}

// NewMongoUserStore returns a user store bound to db.
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{col: db.Collection(usersCollection)}
}

func (s *MongoUserStore) FindBySubject(ctx context.Context, subject string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"subject": subject})
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := s.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) Create(ctx context.Context, user *model.User) error {
	if user.SavedRecipes == nil {
		user.SavedRecipes = []primitive.ObjectID{}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	result, err := s.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return service.ErrDuplicateKey
	}
	if err != nil {
		return err
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// SaveRecipe uses $addToSet so saving the same recipe twice keeps exactly
// one entry.
func (s *MongoUserStore) SaveRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"savedRecipes": recipeID}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) UpdateName(ctx context.Context, subject, name string) (*model.User, error) {
	return s.updateField(ctx, subject, bson.M{"name": name})
}

func (s *MongoUserStore) UpdateEmail(ctx context.Context, subject, email string) (*model.User, error) {
	return s.updateField(ctx, subject, bson.M{"email": email})
}

func (s *MongoUserStore) updateField(ctx context.Context, subject string, set bson.M) (*model.User, error) {
	var user model.User
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"subject": subject},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, service.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, service.ErrDuplicateKey
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
