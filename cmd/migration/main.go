package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/AbbasAlizada1380/mellat/cmd/migration/initialize"
	"github.com/AbbasAlizada1380/mellat/cmd/migration/seed"
	"github.com/AbbasAlizada1380/mellat/internal/app"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
)

const USAGE = "usage: migration up | down [steps] | init | seed"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, USAGE)
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	log := logger.New("migration").Function("run")

	a, err := app.New()
	if err != nil {
		return log.Err("failed to build app", err)
	}
	defer func() { _ = a.Close() }()

	switch command {
	case "up":
		_, err = a.Database.Migrate()
	case "down":
		steps := 1
		if len(args) > 0 {
			if steps, err = strconv.Atoi(args[0]); err != nil {
				return log.Err("invalid step count", err, "steps", args[0])
			}
		}
		_, err = a.Database.Rollback(steps)
	case "init":
		if _, err = a.Database.Migrate(); err == nil {
			err = initialize.InitializeTables(ctx, a.UserController, a.Config, log)
		}
	case "seed":
		if _, err = a.Database.Migrate(); err == nil {
			err = seed.Seed(ctx, a, log)
		}
	default:
		fmt.Fprintln(os.Stderr, USAGE)
		return log.Error("unknown command", "command", command)
	}

	if err != nil {
		return log.Err("command failed", err, "command", command)
	}
	log.Info("Command complete", "command", command)
	return nil
}
