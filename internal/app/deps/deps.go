package deps

import (
	"accounts/internal/config"
	dl "accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/notifier"
	duow "accounts/internal/core/domain/unit_of_work"
	"accounts/internal/core/domain/user"
	"accounts/internal/db"
	uow "accounts/internal/db/unit_of_work"
	dbuser "accounts/internal/db/user"
	"accounts/internal/implementations/email"
	"accounts/internal/implementations/identity"
	"accounts/internal/implementations/logging"
	passwordhasher "accounts/internal/implementations/password_hasher"
	passwordresetter "accounts/internal/implementations/password_resetter"
	randomstringgenerator "accounts/internal/implementations/random_string_generator"
	"accounts/internal/implementations/session"
	sessionrevoker "accounts/internal/implementations/session_revoker"
	"accounts/internal/mongodb"
	mongouow "accounts/internal/mongodb/unit_of_work"
	mongouser "accounts/internal/mongodb/user"
	"accounts/internal/rabbitmq"
	emailqueue "accounts/internal/rabbitmq/publishers/email_queue"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Mongo    *mongo.Client
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork           duow.UnitOfWork
	UserRepository       user.UserRepository
	ResetTokenRepository user.ResetTokenRepository

	EmailSender *email.EmailSender
	Notifier    notifier.Notifier
	EmailQueue  rabbitmq.Topology

	UserIDGenerator    user.IDGenerator
	SessionTokenIssuer user.SessionTokenIssuer
	SessionRevoker     user.SessionRevoker
	PasswordHasher     user.PasswordHasher
	PasswordResetter   user.PasswordResetter
}

// InitDeps builds the dependencies shared by all binaries. The service name is
// attached to every log record.
func InitDeps(service string) (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()
	deps.Now = func() time.Time { return time.Now().UTC() }

	closeSentry := deps.initSentry()
	closeLogger := deps.initLogger(service)
	closeStorage := deps.initStorage()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()

	deps.EmailSender = email.NewEmailSender(deps.AwsConfig, deps.Config.AwsEmailSender)
	closeNotifier := deps.initNotifier()

	deps.UserIDGenerator = identity.NewKSUID()
	deps.SessionTokenIssuer = session.NewJWT(deps.Config.Secret, deps.Config.SessionTTL, deps.Now)
	deps.SessionRevoker = sessionrevoker.NewRedis(deps.Redis, deps.Now)
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordResetter = passwordresetter.NewSHA256(
		randomstringgenerator.NewGenerator(randomstringgenerator.DEFAULT_SECRET_SIZE),
	)

	return deps, func() {
		closeFuncs := []func(){
			closeNotifier,
			closeRabbitmqConn,
			closeRedisClient,
			closeStorage,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		closeSentry()
		closeLogger()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	options := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	}
	if deps.Config.AwsAccessKey != "" {
		options = append(options, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(deps.Config.AwsAccessKey, deps.Config.AwsSecretKey, ""),
		))
	}
	cfg, err := awsConfig.LoadDefaultConfig(context.Background(), options...)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger(service string) func() {
	logger, err := logging.NewZapLogger(logging.Config{
		Level:        deps.Config.LogLevel,
		File:         deps.Config.LogFile,
		MaxAge:       deps.Config.LogFileAge,
		Service:      service,
		ReportErrors: deps.Config.SentryDsn != "",
	})
	if err != nil {
		panic(fmt.Sprintf("could not init logger: %v", err))
	}
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn == "" {
		return func() {}
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              deps.Config.SentryDsn,
		TracesSampleRate: 0.01,
	})
	if err != nil {
		panic(fmt.Sprintf("could not init Sentry: %v\n", err))
	}
	return func() {
		ok := sentry.Flush(5 * time.Second)
		deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
	}
}

func (deps *Deps) initStorage() func() {
	if deps.Config.Storage == config.STORAGE_MONGODB {
		return deps.initMongo()
	}
	return deps.initPgxPool()
}

func (deps *Deps) initPgxPool() func() {
	ctx := context.Background()
	if deps.Config.MigrationsPath != "" {
		if err := db.Migrate(deps.Config.PostgresqlURL, deps.Config.MigrationsPath); err != nil {
			deps.Logger.Error(ctx, "Could not apply DB migrations.", dl.Entry("err", err))
			panic(err)
		}
		deps.Logger.Info(ctx, "DB migrations applied.", dl.Entry("path", deps.Config.MigrationsPath))
	}

	pool, err := db.Connect(ctx, deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(ctx, "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	deps.UnitOfWork = uow.NewPgxUnitOfWork(pool)
	deps.UserRepository = dbuser.NewPgxRepository(pool)
	deps.ResetTokenRepository = dbuser.NewPgxResetTokenRepository(pool)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initMongo() func() {
	ctx := context.Background()
	client, err := mongodb.Connect(ctx, deps.Config.MongodbURL)
	if err != nil {
		deps.Logger.Error(ctx, "Could not connect to MongoDB.", dl.Entry("err", err))
		panic(err)
	}
	database := client.Database(deps.Config.MongodbName)
	if err := mongodb.EnsureIndexes(ctx, database); err != nil {
		deps.Logger.Error(ctx, "Could not create MongoDB indexes.", dl.Entry("err", err))
		panic(err)
	}
	deps.Mongo = client
	deps.UnitOfWork = mongouow.NewMongoUnitOfWork(client, database)
	deps.UserRepository = mongouser.NewMongoRepository(database, nil)
	deps.ResetTokenRepository = mongouser.NewMongoResetTokenRepository(database, nil)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down MongoDB client.")
		client.Disconnect(context.Background())
		deps.Logger.Info(context.Background(), "MongoDB client shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	deps.EmailQueue = rabbitmq.Topology{
		Exchange:   deps.Config.RabbitmqEmailExchange,
		Queue:      deps.Config.RabbitmqEmailReadyQueue,
		RoutingKey: deps.Config.RabbitmqEmailReadyQueue,
	}
	if deps.Config.RabbitmqURL == "" {
		deps.Logger.Info(context.Background(), "RabbitMQ is disabled.")
		return func() {}
	}
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

// initNotifier selects how password reset emails leave the HTTP service:
// directly through SES or through the email queue drained by the mailer.
func (deps *Deps) initNotifier() func() {
	if deps.Config.Notifier != config.NOTIFIER_QUEUE {
		deps.Notifier = deps.EmailSender
		return func() {}
	}

	rabbitmqChannel, err := deps.Rabbitmq.Channel(func(ch *amqp.Channel) error {
		if err := deps.EmailQueue.Declare(ch); err != nil {
			return err
		}
		return ch.Confirm(false)
	})
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	deps.Notifier = emailqueue.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		deps.EmailQueue.Exchange,
		deps.EmailQueue.RoutingKey,
		deps.Now,
	)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down email queue publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Email queue publisher shut down.")
	}
}
