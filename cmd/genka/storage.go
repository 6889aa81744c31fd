package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tokito/genka-kanri/internal/config"
	"github.com/tokito/genka-kanri/internal/db"
	"github.com/tokito/genka-kanri/internal/logger"
	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/repository"
	"github.com/tokito/genka-kanri/internal/store"
)

// openGateway connects to the configured database. Logs go to stderr.
func openGateway(cmd *cobra.Command) (*store.Gateway, zerolog.Logger, error) {
	cfg, err := config.LoadStorage()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	log := logger.NewWriter(cfg.Environment, cmd.ErrOrStderr())

	database, err := db.New(cfg, log)
	if err != nil {
		return nil, log, fmt.Errorf("connect database: %w", err)
	}
	return store.NewGateway(repository.NewDocumentRepository(database), cfg.Store.DocumentID, log), log, nil
}

func loadDataset(ctx context.Context, cmd *cobra.Command) (*store.Gateway, model.Dataset, zerolog.Logger, error) {
	gateway, log, err := openGateway(cmd)
	if err != nil {
		return nil, model.Dataset{}, log, err
	}
	ds, err := gateway.Load(ctx)
	if err != nil {
		return nil, model.Dataset{}, log, err
	}
	return gateway, ds, log, nil
}

func saveDataset(ctx context.Context, gateway *store.Gateway, ds model.Dataset) error {
	if !gateway.Save(ctx, ds) {
		return fmt.Errorf("save failed, see log for details")
	}
	return nil
}
