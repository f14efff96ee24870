package consumers

import (
	"accounts/internal/app/deps"
	"accounts/internal/app/services"
	dl "accounts/internal/core/domain/logging"
	emailreadyforsending "accounts/internal/rabbitmq/consumers/email_ready_for_sending"
	"context"
	"sync"
)

func initEmailReadyForSendingConsumer(deps *deps.Deps, services *services.Services) func() {
	if deps.Rabbitmq == nil {
		panic("RABBITMQ_URL must be set to consume emails")
	}
	topology := deps.EmailQueue
	rabbitmqChannel, err := deps.Rabbitmq.Channel(topology.Declare)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	consumer := emailreadyforsending.New(deps.Logger, services.DeliverEmail)
	deliveries := rabbitmqChannel.Consume(topology.Queue, deps.Config.RabbitmqConsumerPrefetch)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Consume(ctx, deliveries)
	}()

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", topology.Queue))
	return func() {
		rabbitmqChannel.Close()
		cancel()
		wg.Wait()
		deps.Logger.Info(context.Background(), "Consumer has stopped.", dl.Entry("queue", topology.Queue))
	}
}

func InitConsumers(deps *deps.Deps, services *services.Services) func() {
	shutdownEmailReadyForSendingConsumer := initEmailReadyForSendingConsumer(deps, services)

	return func() {
		shutdownEmailReadyForSendingConsumer()
	}
}
