package user

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"accounts/internal/mongodb"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Photo        *string   `bson:"photo,omitempty"`
	Phone        *string   `bson:"phone,omitempty"`
	Bio          *string   `bson:"bio,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type MongoUserRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoRepository returns a repository bound to the session, session may be nil.
func NewMongoRepository(db *mongo.Database, session mongo.Session) *MongoUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &MongoUserRepository{collection: db.Collection(mongodb.USERS_COLLECTION), session: session}
}

func (r *MongoUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	doc := userDocument{
		ID:           string(input.ID),
		Name:         input.Name,
		Email:        string(input.Email),
		PasswordHash: string(input.PasswordHash),
		CreatedAt:    input.CreatedAt,
		UpdatedAt:    input.CreatedAt,
	}
	_, err = r.collection.InsertOne(mongodb.WithSession(ctx, r.session), doc)
	if mongo.IsDuplicateKeyError(err) {
		return u, user.ErrEmailAlreadyExists
	}
	if err != nil {
		return u, err
	}
	u = decodeUser(doc)
	return u, u.Validate()
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	return r.findOne(ctx, bson.M{"email": string(email)})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (u user.User, err error) {
	var doc userDocument
	err = r.collection.FindOne(mongodb.WithSession(ctx, r.session), filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	u = decodeUser(doc)
	return u, u.Validate()
}

// Lock writes to the user document so that concurrent transactions touching it conflict.
func (r *MongoUserRepository) Lock(ctx context.Context, id user.ID) error {
	result, err := r.collection.UpdateOne(
		mongodb.WithSession(ctx, r.session),
		bson.M{"_id": string(id)},
		bson.M{"$inc": bson.M{"lock_seq": 1}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *MongoUserRepository) SetPassword(
	ctx context.Context,
	id user.ID,
	password user.PasswordHash,
	at time.Time,
) error {
	result, err := r.collection.UpdateOne(
		mongodb.WithSession(ctx, r.session),
		bson.M{"_id": string(id)},
		bson.M{"$set": bson.M{"password_hash": string(password), "updated_at": at}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *MongoUserRepository) Update(ctx context.Context, input user.UpdateUserInput) (u user.User, err error) {
	set := bson.M{"updated_at": input.UpdatedAt}
	if input.Name.IsPresent {
		set["name"] = input.Name.Value
	}
	if input.Photo.IsPresent {
		set["photo"] = input.Photo.Value
	}
	if input.Phone.IsPresent {
		set["phone"] = input.Phone.Value
	}
	if input.Bio.IsPresent {
		set["bio"] = input.Bio.Value
	}

	var doc userDocument
	err = r.collection.FindOneAndUpdate(
		mongodb.WithSession(ctx, r.session),
		bson.M{"_id": string(input.ID)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	u = decodeUser(doc)
	return u, u.Validate()
}

func decodeOptional(value *string) c.Optional[string] {
	if value == nil {
		return c.NewOptional("", false)
	}
	return c.NewOptional(*value, true)
}

func decodeUser(doc userDocument) user.User {
	return user.User{
		ID:           user.ID(doc.ID),
		Name:         doc.Name,
		Email:        c.Email(doc.Email),
		PasswordHash: user.PasswordHash(doc.PasswordHash),
		Photo:        decodeOptional(doc.Photo),
		Phone:        decodeOptional(doc.Phone),
		Bio:          decodeOptional(doc.Bio),
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
}
