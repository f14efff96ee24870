package main

import (
	"accounts/internal/app/consumers"
	"accounts/internal/app/deps"
	"accounts/internal/app/services"
	"context"
	"os"
	"os/signal"
	"syscall"
)

// The mailer drains the email queue and delivers messages through SES.
func main() {
	deps, shutdownDeps := deps.InitDeps("mailer")
	defer shutdownDeps()

	services := services.InitServices(deps)
	shutdownConsumers := consumers.InitConsumers(deps, services)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopCh

	deps.Logger.Info(context.Background(), "Stopping mailer.")
	shutdownConsumers()
}
