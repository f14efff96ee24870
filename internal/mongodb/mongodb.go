package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	USERS_COLLECTION        = "users"
	RESET_TOKENS_COLLECTION = "password_reset_tokens"
	EMAIL_INDEX_NAME        = "user_email_idx"
)

// Connect requires a replica set deployment, transactions are not available otherwise.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("could not ping MongoDB: %w", err)
	}
	return client, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(USERS_COLLECTION).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(EMAIL_INDEX_NAME),
	})
	if err != nil {
		return fmt.Errorf("could not create users indexes: %w", err)
	}
	_, err = db.Collection(RESET_TOKENS_COLLECTION).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("password_reset_token_hash_idx"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("password_reset_token_expires_at_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("could not create password reset tokens indexes: %w", err)
	}
	return nil
}

// WithSession binds ctx to the session so that operations join its transaction.
func WithSession(ctx context.Context, session mongo.Session) context.Context {
	if session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, session)
}
