package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"evalai/internal/model"
)

type AttemptRepository interface {
	Create(ctx context.Context, attempt *model.Attempt) error
	GetByID(ctx context.Context, id string) (*model.Attempt, error)
	GetByUserID(ctx context.Context, userID string) ([]*model.Attempt, error)
	GetByQuizKey(ctx context.Context, quizKey string) ([]*model.Attempt, error)
}

type attemptRepository struct {
	collection *mongo.Collection
}

func NewAttemptRepository(client *mongo.Client) AttemptRepository {
	db := client.Database("evalai")
	return &attemptRepository{
		collection: db.Collection("attempts"),
	}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	result, err := r.collection.InsertOne(ctx, attempt)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		attempt.ID = oid.Hex()
	}

	return nil
}

func (r *attemptRepository) GetByID(ctx context.Context, id string) (*model.Attempt, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil // malformed id cannot match anything
	}

	var attempt model.Attempt
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&attempt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &attempt, nil
}

func (r *attemptRepository) GetByUserID(ctx context.Context, userID string) ([]*model.Attempt, error) {
	opts := options.Find().SetSort(bson.M{"attempted_at": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []*model.Attempt
	if err = cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}

	return attempts, nil
}

func (r *attemptRepository) GetByQuizKey(ctx context.Context, quizKey string) ([]*model.Attempt, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"pdf_names": quizKey})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []*model.Attempt
	if err = cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}

	return attempts, nil
}
