package user

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"accounts/internal/mongodb"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// The user ID is the document ID, so a user can hold at most one token.
type resetTokenDocument struct {
	UserID    string    `bson:"_id"`
	TokenHash string    `bson:"token_hash"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type MongoResetTokenRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

func NewMongoResetTokenRepository(db *mongo.Database, session mongo.Session) *MongoResetTokenRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &MongoResetTokenRepository{
		collection: db.Collection(mongodb.RESET_TOKENS_COLLECTION),
		session:    session,
	}
}

func (r *MongoResetTokenRepository) GetByUserID(ctx context.Context, userID user.ID) (t user.ResetToken, err error) {
	var doc resetTokenDocument
	err = r.collection.FindOne(mongodb.WithSession(ctx, r.session), bson.M{"_id": string(userID)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return t, user.ErrResetTokenDoesNotExist
	}
	if err != nil {
		return t, err
	}
	return decodeResetToken(doc), nil
}

func (r *MongoResetTokenRepository) DeleteForUser(ctx context.Context, userID user.ID) error {
	_, err := r.collection.DeleteOne(mongodb.WithSession(ctx, r.session), bson.M{"_id": string(userID)})
	return err
}

func (r *MongoResetTokenRepository) Create(
	ctx context.Context,
	input user.CreateResetTokenInput,
) (t user.ResetToken, err error) {
	doc := resetTokenDocument{
		UserID:    string(input.UserID),
		TokenHash: string(input.TokenHash),
		CreatedAt: input.CreatedAt,
		ExpiresAt: input.ExpiresAt,
	}
	if _, err := r.collection.InsertOne(mongodb.WithSession(ctx, r.session), doc); err != nil {
		return t, err
	}
	return decodeResetToken(doc), nil
}

func (r *MongoResetTokenRepository) Consume(
	ctx context.Context,
	hash user.PasswordResetTokenHash,
	at time.Time,
) (t user.ResetToken, err error) {
	var doc resetTokenDocument
	err = r.collection.FindOneAndDelete(
		mongodb.WithSession(ctx, r.session),
		bson.M{"token_hash": string(hash), "expires_at": bson.M{"$gt": at}},
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return t, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		return t, err
	}
	return decodeResetToken(doc), nil
}

func (r *MongoResetTokenRepository) DeleteExpired(ctx context.Context, at time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(
		mongodb.WithSession(ctx, r.session),
		bson.M{"expires_at": bson.M{"$lte": at}},
	)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func decodeResetToken(doc resetTokenDocument) user.ResetToken {
	return user.ResetToken{
		UserID:    user.ID(doc.UserID),
		TokenHash: user.PasswordResetTokenHash(doc.TokenHash),
		CreatedAt: doc.CreatedAt.UTC(),
		ExpiresAt: doc.ExpiresAt.UTC(),
	}
}
