package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AbbasAlizada1380/mellat/cmd/migration/initialize"
	"github.com/AbbasAlizada1380/mellat/internal/app"
	"github.com/AbbasAlizada1380/mellat/internal/handlers"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	log := logger.New("main").Function("run")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New()
	if err != nil {
		return log.Err("failed to build app", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	if _, err := a.Database.Migrate(); err != nil {
		return log.Err("failed to migrate database", err)
	}

	if err := initialize.InitializeTables(ctx, a.UserController, a.Config, log); err != nil {
		return log.Err("failed to initialize tables", err)
	}

	server, err := handlers.NewServer(a)
	if err != nil {
		return log.Err("failed to create server", err)
	}

	listenErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf(":%d", a.Config.ServerPort)
		log.Info("Starting server", "address", address, "env", a.Config.AppEnv)
		listenErr <- server.Listen(address)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return log.Err("server stopped", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	if err := server.ShutdownWithTimeout(SHUTDOWN_TIMEOUT); err != nil {
		return log.Err("failed to shut down server", err)
	}
	return nil
}
