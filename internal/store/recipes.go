package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dishcraft/backend/internal/model"
	"github.com/dishcraft/backend/internal/service"
)

const recipesCollection = "recipes"

// MongoRecipeStore implements service.RecipeStore on a MongoDB collection.
type MongoRecipeStore struct {
	col *mongo.Collection
}

// NewMongoRecipeStore returns a recipe store bound to db.
func NewMongoRecipeStore(db *mongo.Database) *MongoRecipeStore {
	return &MongoRecipeStore{col: db.Collection(recipesCollection)}
}

func (s *MongoRecipeStore) Insert(ctx context.Context, recipe *model.Recipe) error {
	recipe.ApplyDefaults()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}

	result, err := s.col.InsertOne(ctx, recipe)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		recipe.ID = id
	}
	return nil
}

func (s *MongoRecipeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *MongoRecipeStore) FindManyByID(ctx context.Context, ids []primitive.ObjectID) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return []model.Recipe{}, nil
	}
	return s.findAll(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (s *MongoRecipeStore) FindLikedBy(ctx context.Context, subject string) ([]model.Recipe, error) {
	return s.findAll(ctx, bson.M{"likedBy": subject}, nil)
}

// List applies tag filters and an optional title/description search, then
// sorts database-side: most_liked by liker-set size, newest by creation
// time, anything else natural collection order.
func (s *MongoRecipeStore) List(ctx context.Context, query service.ListQuery) ([]model.Recipe, error) {
	filter := bson.M{}
	if query.MealType != "" {
		filter["tags.mealType"] = query.MealType
	}
	if query.DishType != "" {
		filter["tags.dishType"] = query.DishType
	}
	if query.Cuisine != "" {
		filter["tags.cuisine"] = query.Cuisine
	}
	if query.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	switch query.SortBy {
	case "most_liked":
		return s.listMostLiked(ctx, filter)
	case "newest":
		return s.findAll(ctx, filter, bson.D{{Key: "createdAt", Value: -1}})
	default:
		return s.findAll(ctx, filter, nil)
	}
}

func (s *MongoRecipeStore) listMostLiked(ctx context.Context, filter bson.M) ([]model.Recipe, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.M{
			"likesCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$likedBy", bson.A{}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "likesCount", Value: -1}}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recipes := []model.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *MongoRecipeStore) findAll(ctx context.Context, filter bson.M, sort bson.D) ([]model.Recipe, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recipes := []model.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *MongoRecipeStore) ReplaceLikes(ctx context.Context, id primitive.ObjectID, likedBy []string) error {
	if likedBy == nil {
		likedBy = []string{}
	}
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"likedBy": likedBy}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}

// Delete is a hard delete. References in savedRecipes and likedBy elsewhere
// are left dangling.
func (s *MongoRecipeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}
