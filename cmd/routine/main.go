package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/routine/internal/cli"
	"github.com/alexanderramin/routine/internal/config"
	"github.com/alexanderramin/routine/internal/db"
	"github.com/alexanderramin/routine/internal/repository"
	"github.com/alexanderramin/routine/internal/routine"
	"github.com/alexanderramin/routine/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg, os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := repository.NewSQLiteKVStore(database)

	ctx := context.Background()
	session, err := routine.Load(ctx, store, routine.WithLogger(logger))
	if err != nil {
		return err
	}

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	app := &cli.App{
		Routine: service.NewRoutineService(session, observers...),
		History: service.NewHistoryService(session.Archiver(), observers...),
	}

	// Prompts and the tracker only run on a real terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
