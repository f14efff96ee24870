package main

import (
	"accounts/internal/app/deps"
	"accounts/internal/app/services"
	"accounts/internal/core/domain/logging"
	purgeresettokens "accounts/internal/core/services/purge_reset_tokens"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	deps, shutdownDeps := deps.InitDeps("purger")
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	ticker := time.NewTicker(deps.Config.PurgeInterval)
	defer ticker.Stop()

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(
		context.Background(),
		"Starting periodic password reset token purger.",
		logging.Entry("periodMinutes", deps.Config.PurgeInterval.Minutes()),
	)

loop:
	for {
		select {
		case <-stopCh:
			log.Info(context.Background(), "Stopping periodic password reset token purger.")
			break loop
		case <-ticker.C:
			result, err := services.PurgeResetTokens.Run(context.Background(), purgeresettokens.Input{})
			if err != nil {
				log.Error(context.Background(), "Purging service returned an error.", logging.Entry("err", err))
				continue
			}
			log.Info(context.Background(), "Expired password reset tokens purged.", logging.Entry("deleted", result.Deleted))
		}
	}
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
