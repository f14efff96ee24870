package uow

import (
	uow "accounts/internal/core/domain/unit_of_work"
	"accounts/internal/core/domain/user"
	mongouser "accounts/internal/mongodb/user"
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

type mongoUnitOfWorkContext struct {
	db      *mongo.Database
	session mongo.Session
	done    bool
	lock    sync.Mutex
}

func (c *mongoUnitOfWorkContext) Commit(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.done {
		return nil
	}
	c.done = true
	defer c.session.EndSession(context.Background())
	return c.session.CommitTransaction(ctx)
}

// Rollback after Commit is a no-op, so it can always be deferred.
func (c *mongoUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.done {
		return nil
	}
	c.done = true
	defer c.session.EndSession(context.Background())
	return c.session.AbortTransaction(context.Background())
}

func (c *mongoUnitOfWorkContext) Users() user.UserRepository {
	return mongouser.NewMongoRepository(c.db, c.session)
}

func (c *mongoUnitOfWorkContext) ResetTokens() user.ResetTokenRepository {
	return mongouser.NewMongoResetTokenRepository(c.db, c.session)
}

type MongoUnitOfWork struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoUnitOfWork(client *mongo.Client, db *mongo.Database) *MongoUnitOfWork {
	if client == nil {
		panic("Argument client must not be nil.")
	}
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &MongoUnitOfWork{client: client, db: db}
}

func (u *MongoUnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	session, err := u.client.StartSession()
	if err != nil {
		return nil, err
	}
	err = session.StartTransaction(
		options.Transaction().
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority()),
	)
	if err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &mongoUnitOfWorkContext{db: u.db, session: session}, nil
}
