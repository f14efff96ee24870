package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RequireTestURL skips the test unless TEST_MONGODB_URL is set.
func RequireTestURL(t *testing.T) string {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URL")
	if uri == "" {
		t.Skip("TEST_MONGODB_URL is not set")
	}
	return uri
}

// CreateTestDatabase connects to TEST_MONGODB_URL and returns a fresh database with indexes.
func CreateTestDatabase() (*mongo.Client, *mongo.Database) {
	uri := os.Getenv("TEST_MONGODB_URL")
	if uri == "" {
		panic("TEST_MONGODB_URL must be set.")
	}
	ctx := context.Background()
	client, err := Connect(ctx, uri)
	if err != nil {
		panic(err)
	}
	db := client.Database(fmt.Sprintf("accounts_test_%d", time.Now().UnixNano()))
	if err := EnsureIndexes(ctx, db); err != nil {
		panic(err)
	}
	return client, db
}

func TruncateCollections(db *mongo.Database) {
	ctx := context.Background()
	for _, name := range []string{USERS_COLLECTION, RESET_TOKENS_COLLECTION} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			panic("Could not truncate MongoDB collections.")
		}
	}
}

func DropTestDatabase(client *mongo.Client, db *mongo.Database) {
	ctx := context.Background()
	db.Drop(ctx)
	client.Disconnect(ctx)
}
